package main

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reoring/toolform/i18n"
	"github.com/reoring/toolform/internal/config"
	"github.com/reoring/toolform/internal/logging"
	"github.com/reoring/toolform/invoke"
	"github.com/reoring/toolform/mcpclient"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	out        io.Writer
	configPath string
	logLevel   string
	server     string

	cfg config.Config
	log *logrus.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "toolform",
		Short:         "Inspect and invoke MCP tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	root.PersistentFlags().StringVar(&a.server, "server", "", "MCP endpoint (overrides config)")

	root.AddCommand(
		synthCmd(a),
		classifyCmd(a),
		toolsCmd(a),
		callCmd(a),
		watchCmd(a),
		serveCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.server != "" {
		cfg.Server = a.server
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	i18n.SetLanguage(cfg.Language)
	a.cfg, a.log = cfg, log
	return nil
}

func (a *app) client() *mcpclient.Client {
	return mcpclient.New(a.cfg.Server,
		mcpclient.WithTimeout(a.cfg.Timeout),
		mcpclient.WithLogger(a.log),
	)
}

// connect initializes a session and loads the whole tool list.
func (a *app) connect(ctx context.Context) (*invoke.Controller, *invoke.Catalog, error) {
	c := a.client()
	info, err := c.Initialize(ctx)
	if err != nil {
		return nil, nil, err
	}
	a.log.WithFields(logrus.Fields{"server": info.ServerInfo.Name, "version": info.ServerInfo.Version}).Debug("connected")
	ctrl := invoke.New(c, invoke.Options{Logger: a.log, DropStaleResults: a.cfg.DropStaleResults})
	cat := invoke.NewCatalog(c, ctrl, a.log)
	if err := cat.LoadAll(ctx); err != nil {
		return nil, nil, err
	}
	return ctrl, cat, nil
}

func (a *app) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}
