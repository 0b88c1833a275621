// Package mcpclient talks to an MCP server over HTTP JSON-RPC.
package mcpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/reoring/toolform/internal/logging"
	"github.com/reoring/toolform/protocol"
)

// ErrEmptyResponse is returned when a call response has neither result nor error.
var ErrEmptyResponse = errors.New("mcpclient: empty response")

// StatusError reports a non-2xx HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("mcpclient: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("mcpclient: http status %d: %s", e.StatusCode, e.Body)
}

// Client talks to one MCP server over the streamable HTTP transport. It
// carries the session id the server assigns. Safe for concurrent use.
type Client struct {
	endpoint   string
	header     http.Header
	timeout    time.Duration
	httpClient *http.Client
	info       protocol.Implementation
	log        logrus.FieldLogger

	mu      sync.Mutex
	session string
}

// Option configures a Client.
type Option func(*Client)

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// WithTimeout bounds each request. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClientInfo sets the implementation reported by Initialize.
func WithClientInfo(name, version string) Option {
	return func(c *Client) {
		c.info = protocol.Implementation{Name: name, Version: version}
	}
}

// New creates a client for endpoint. The default timeout is 30s.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		header:     http.Header{},
		timeout:    30 * time.Second,
		httpClient: http.DefaultClient,
		info:       protocol.Implementation{Name: "toolform", Version: "dev"},
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Initialize performs the handshake and sends the initialized notification.
func (c *Client) Initialize(ctx context.Context) (*protocol.InitializeResult, error) {
	params := protocol.InitializeParams{
		ProtocolVersion: protocol.Version,
		Capabilities:    map[string]any{},
		ClientInfo:      c.info,
	}
	var res protocol.InitializeResult
	if err := c.call(ctx, protocol.MethodInitialize, params, &res); err != nil {
		return nil, err
	}
	if err := c.notify(ctx, protocol.MethodInitialized); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"server": res.ServerInfo.Name, "protocol": res.ProtocolVersion}).Debug("initialized")
	return &res, nil
}

// ListTools fetches one page. An empty cursor requests the first page.
func (c *Client) ListTools(ctx context.Context, cursor string) (*protocol.ListToolsResult, error) {
	var res protocol.ListToolsResult
	if err := c.call(ctx, protocol.MethodListTools, protocol.ListToolsParams{Cursor: cursor}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CallTool invokes name and returns the decoded result payload for
// classification. Non-finite numbers in args are sent as null.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	params := protocol.CallToolParams{Name: name, Arguments: protocol.SanitizeArguments(args)}
	var payload any
	if err := c.call(ctx, protocol.MethodCallTool, params, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) call(ctx context.Context, method string, params, out any) error {
	id := uuid.NewString()
	resp, err := c.post(ctx, protocol.NewRequest(id, method, params))
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	var r protocol.Response
	if err := json.Unmarshal(resp, &r); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if r.Error != nil {
		return fmt.Errorf("%s: %w", method, r.Error)
	}
	if len(r.Result) == 0 {
		return fmt.Errorf("%s: %w", method, ErrEmptyResponse)
	}
	if err := json.Unmarshal(r.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

func (c *Client) notify(ctx context.Context, method string) error {
	if _, err := c.post(ctx, protocol.NewRequest(nil, method, nil)); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

const sessionHeader = "Mcp-Session-Id"

func (c *Client) post(ctx context.Context, req protocol.Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, vs := range c.header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Accept", "application/json")
	c.mu.Lock()
	if c.session != "" {
		hr.Header.Set(sessionHeader, c.session)
	}
	c.mu.Unlock()

	start := time.Now()
	res, err := c.httpClient.Do(hr)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.log.WithFields(logrus.Fields{"method": req.Method, "status": res.StatusCode, "duration": time.Since(start)}).Debug("rpc")
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(bytes.TrimSpace(data))}
	}
	if s := res.Header.Get(sessionHeader); s != "" {
		c.mu.Lock()
		c.session = s
		c.mu.Unlock()
	}
	return data, nil
}
