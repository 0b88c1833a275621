package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reoring/toolform"
	"github.com/reoring/toolform/form"
	"github.com/reoring/toolform/internal/httpapi"
	"github.com/reoring/toolform/internal/watch"
	"github.com/reoring/toolform/jsonschema"
	"github.com/reoring/toolform/result"
	"github.com/reoring/toolform/synth"
)

func synthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "synth <schema>",
		Short: "Print the default value of a JSON or YAML schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := jsonschema.Load(args[0])
			if err != nil {
				return err
			}
			return a.printJSON(synth.Synthesize(n))
		},
	}
}

func classifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <payload.json|->",
		Short: "Classify a tool result payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			plan, err := result.ClassifyJSON(data)
			if err != nil {
				return err
			}
			return a.printJSON(plan)
		},
	}
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func toolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the server's tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range cat.Tools() {
				if t.Description == "" {
					fmt.Fprintln(a.out, t.Name)
					continue
				}
				fmt.Fprintf(a.out, "%s\t%s\n", t.Name, t.Description)
			}
			return nil
		},
	}
}

func callCmd(a *app) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke a tool, editing parameters with --set path=value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cat, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := cat.Select(args[0]); err != nil {
				return err
			}
			if err := applySets(ctrl.Form(), sets); err != nil {
				return err
			}
			plan, err := ctrl.Invoke(cmd.Context())
			if err != nil {
				return err
			}
			if title := plan.Title(); title != "" {
				fmt.Fprintln(a.out, title)
			}
			return a.printJSON(plan)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "edit a parameter as path=value (repeatable)")
	return cmd
}

// applySets feeds each path=value pair to the matching form field as typed
// input.
func applySets(params []form.Property, sets []string) error {
	for _, s := range sets {
		path, text, ok := strings.Cut(s, "=")
		if !ok || path == "" {
			return fmt.Errorf("invalid --set %q: want path=value", s)
		}
		f, found := form.FindParam(params, toolform.ParsePath(path))
		if !found {
			return fmt.Errorf("no parameter at %q", path)
		}
		if err := f.Input(text); err != nil {
			if iss, ok := toolform.AsIssues(err); ok {
				return fmt.Errorf("%s: %w", path, iss)
			}
			return err
		}
	}
	return nil
}

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <schema>",
		Short: "Print the default value of a schema on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			w := watch.New(args[0], func(n *jsonschema.Node, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					return
				}
				_ = a.printJSON(synth.Synthesize(n))
			}, watch.WithLogger(a.log))
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve synthesis, rendering and classification over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := &http.Server{
				Addr:              a.cfg.Listen,
				Handler:           httpapi.New(httpapi.Options{Logger: a.log}).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.log.WithField("addr", srv.Addr).Info("http_listening")
				errCh <- srv.ListenAndServe()
			}()
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			a.log.Info("shutdown_signal")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
