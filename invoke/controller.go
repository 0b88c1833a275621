// Package invoke drives a single tool: the selected tool, its parameter set,
// the running flag and the last result.
package invoke

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reoring/toolform"
	"github.com/reoring/toolform/fallback"
	"github.com/reoring/toolform/form"
	"github.com/reoring/toolform/internal/logging"
	js "github.com/reoring/toolform/jsonschema"
	"github.com/reoring/toolform/protocol"
	"github.com/reoring/toolform/result"
	"github.com/reoring/toolform/synth"
)

var (
	// ErrRunning rejects an invocation while another is outstanding.
	ErrRunning = errors.New("invoke: a call is already running")
	// ErrNoSelection is returned when no tool is selected.
	ErrNoSelection = errors.New("invoke: no tool selected")
)

// Invoker performs tools/call. The payload is returned undecoded into types.
type Invoker interface {
	CallTool(ctx context.Context, name string, args map[string]any) (any, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, name string, args map[string]any) (any, error)

func (f InvokerFunc) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	return f(ctx, name, args)
}

// State reports whether a call is outstanding.
type State int

const (
	// Idle accepts a new invocation.
	Idle State = iota
	// Running rejects invocations with ErrRunning.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Options configures a Controller. The zero value is usable.
type Options struct {
	// Fallback edits schemas the form cannot render natively.
	Fallback fallback.Editor
	Logger   logrus.FieldLogger
	// DropStaleResults discards a result whose tool was deselected or
	// replaced while the call was running. By default the late result
	// lands in the current result slot.
	DropStaleResults bool
}

// Controller holds the selected tool, its parameter set and the last result,
// and runs at most one invocation at a time. It is safe for concurrent use.
type Controller struct {
	invoker   Invoker
	renderer  *form.Renderer
	synth     *synth.Synthesizer
	log       logrus.FieldLogger
	dropStale bool

	mu        sync.Mutex
	state     State
	tool      *protocol.Tool
	schema    *js.Node
	params    map[string]any
	payload   any
	hasResult bool
	plan      result.Plan
	// selection counts Select calls; a call remembers the value it started under.
	selection uint64
}

// New returns an idle Controller with nothing selected that calls tools
// through inv.
func New(inv Invoker, opts Options) *Controller {
	r := form.New(opts.Fallback)
	return &Controller{
		invoker:   inv,
		renderer:  r,
		synth:     r.Synth,
		log:       logging.OrDiscard(opts.Logger),
		dropStale: opts.DropStaleResults,
	}
}

// Select makes t the current tool, discarding parameters and result, and
// synthesizes a fresh parameter set. Select(nil) clears the selection. A
// running call is not cancelled.
func (c *Controller) Select(t *protocol.Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection++
	c.payload, c.hasResult, c.plan = nil, false, result.Plan{Kind: result.PlanNone}
	if t == nil {
		c.tool, c.schema, c.params = nil, nil, nil
		return
	}
	tool := *t
	c.tool = &tool
	c.schema = tool.Input()
	c.params = c.synth.Parameters(c.schema)
	c.log.WithField("tool", tool.Name).Debug("tool_selected")
}

// Tool returns the selected tool, or nil.
func (c *Controller) Tool() *protocol.Tool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tool
}

// State returns Running while an invocation is outstanding.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Params returns the current parameter set. Treat it as read-only; edits go
// through SetParam, SetAt or the form.
func (c *Controller) Params() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// SetParam replaces one top-level parameter.
func (c *Controller) SetParam(name string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tool == nil {
		return ErrNoSelection
	}
	next := make(map[string]any, len(c.params)+1)
	for k, old := range c.params {
		next[k] = old
	}
	next[name] = v
	c.params = next
	return nil
}

// SetAt replaces the value at path inside the parameter set.
func (c *Controller) SetAt(path toolform.Path, leaf any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tool == nil {
		return ErrNoSelection
	}
	next, err := form.SetIn(c.params, path, leaf)
	if err != nil {
		return err
	}
	m, ok := next.(map[string]any)
	if !ok {
		return form.ErrNotContainer
	}
	c.params = m
	return nil
}

// Form renders the selected tool's top-level properties. Each edit is applied
// at its path to the controller's current parameters, so changes made through
// SetParam, SetAt or another form are kept. Edits are ignored once the
// selection changes.
func (c *Controller) Form() []form.Property {
	c.mu.Lock()
	schema, params, sel := c.schema, c.params, c.selection
	c.mu.Unlock()
	if schema == nil {
		return nil
	}
	return c.renderer.BindParams(schema, params, func(path toolform.Path, v any) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.selection != sel {
			return
		}
		next, err := form.SetIn(c.params, path, v)
		if err != nil {
			c.log.WithError(err).WithField("path", path.Pointer()).Warn("form_edit_dropped")
			return
		}
		if m, ok := next.(map[string]any); ok {
			c.params = m
		}
	})
}

// Result returns the last payload and whether there is one.
func (c *Controller) Result() (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payload, c.hasResult
}

// Plan returns the rendering plan of the last result.
func (c *Controller) Plan() result.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan
}

// Invoke calls the selected tool with the current parameters. At most one
// call is outstanding; the controller is Idle again once the invoker returns,
// fails or panics. A failure leaves the previous result in place.
func (c *Controller) Invoke(ctx context.Context) (result.Plan, error) {
	c.mu.Lock()
	if c.state == Running {
		c.mu.Unlock()
		return result.Plan{}, ErrRunning
	}
	if c.tool == nil {
		c.mu.Unlock()
		return result.Plan{}, ErrNoSelection
	}
	c.state = Running
	name, args, sel := c.tool.Name, c.params, c.selection
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.state = Idle
		c.mu.Unlock()
	}()

	log := c.log.WithField("tool", name)
	log.Info("invoke_start")
	start := time.Now()
	payload, err := c.invoker.CallTool(ctx, name, args)
	if err != nil {
		log.WithError(err).WithField("duration", time.Since(start)).Warn("invoke_failed")
		return result.Plan{}, err
	}
	plan := result.Classify(payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dropStale && c.selection != sel {
		log.Info("invoke_result_dropped")
		return plan, nil
	}
	c.payload, c.hasResult, c.plan = payload, true, plan
	log.WithFields(logrus.Fields{"duration": time.Since(start), "plan": plan.Kind}).Info("invoke_done")
	return plan, nil
}
