package invoke

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/reoring/toolform/internal/logging"
	"github.com/reoring/toolform/protocol"
)

var (
	// ErrNoMoreTools is returned by Load once every page has been fetched.
	ErrNoMoreTools = errors.New("invoke: no more tools to list")
	// ErrUnknownTool is returned by Select for a name that is not listed.
	ErrUnknownTool = errors.New("invoke: unknown tool")
	// ErrNoController is returned by Select on a catalog built without a
	// controller.
	ErrNoController = errors.New("invoke: catalog has no controller")
	// ErrEmptyPage is returned by Load when the lister returns no page.
	ErrEmptyPage = errors.New("invoke: lister returned no page")
)

// Lister fetches one page of tools/list.
type Lister interface {
	ListTools(ctx context.Context, cursor string) (*protocol.ListToolsResult, error)
}

// Catalog is the paged tool list feeding a Controller.
type Catalog struct {
	lister Lister
	ctrl   *Controller
	log    logrus.FieldLogger

	mu     sync.Mutex
	tools  []protocol.Tool
	cursor string
}

// NewCatalog returns an empty catalog listing through l. ctrl receives
// selections and may be nil for a list-only catalog.
func NewCatalog(l Lister, ctrl *Controller, log logrus.FieldLogger) *Catalog {
	return &Catalog{lister: l, ctrl: ctrl, log: logging.OrDiscard(log)}
}

// Load fetches the next page and appends it.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.loadDisabled() {
		c.mu.Unlock()
		return ErrNoMoreTools
	}
	cursor := c.cursor
	c.mu.Unlock()

	page, err := c.lister.ListTools(ctx, cursor)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	if page == nil {
		return fmt.Errorf("list tools: %w", ErrEmptyPage)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools = append(c.tools, page.Tools...)
	c.cursor = page.NextCursor
	c.log.WithFields(logrus.Fields{"count": len(page.Tools), "more": page.NextCursor != ""}).Debug("tools_listed")
	return nil
}

// LoadAll follows cursors until the last page.
func (c *Catalog) LoadAll(ctx context.Context) error {
	if err := c.Load(ctx); err != nil && !errors.Is(err, ErrNoMoreTools) {
		return err
	}
	for c.HasMore() {
		if err := c.Load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// HasMore reports whether the server announced another page.
func (c *Catalog) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor != ""
}

// ButtonLabel is the label of the list action.
func (c *Catalog) ButtonLabel() string {
	if c.HasMore() {
		return "List More Tools"
	}
	return "List Tools"
}

// LoadDisabled reports whether the list is complete.
func (c *Catalog) LoadDisabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadDisabled()
}

func (c *Catalog) loadDisabled() bool { return c.cursor == "" && len(c.tools) > 0 }

// Clear empties the list and the controller's selection.
func (c *Catalog) Clear() {
	c.mu.Lock()
	c.tools, c.cursor = nil, ""
	c.mu.Unlock()
	if c.ctrl != nil {
		c.ctrl.Select(nil)
	}
}

// Tools returns a copy of the tools listed so far.
func (c *Catalog) Tools() []protocol.Tool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.Tool(nil), c.tools...)
}

// Select forwards the named tool to the controller.
func (c *Catalog) Select(name string) error {
	if c.ctrl == nil {
		return ErrNoController
	}
	c.mu.Lock()
	var found *protocol.Tool
	for i := range c.tools {
		if c.tools[i].Name == name {
			t := c.tools[i]
			found = &t
			break
		}
	}
	c.mu.Unlock()
	if found == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	c.ctrl.Select(found)
	return nil
}
