package invoke_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reoring/toolform/invoke"
	"github.com/reoring/toolform/protocol"
)

type pagedLister struct {
	pages   map[string]protocol.ListToolsResult
	cursors []string
	err     error
}

func (p *pagedLister) ListTools(ctx context.Context, cursor string) (*protocol.ListToolsResult, error) {
	p.cursors = append(p.cursors, cursor)
	if p.err != nil {
		return nil, p.err
	}
	page := p.pages[cursor]
	return &page, nil
}

func twoPages() *pagedLister {
	return &pagedLister{pages: map[string]protocol.ListToolsResult{
		"":     {Tools: []protocol.Tool{{Name: "a"}, {Name: "b"}}, NextCursor: "next"},
		"next": {Tools: []protocol.Tool{{Name: "c"}}},
	}}
}

func TestCatalogPaging(t *testing.T) {
	l := twoPages()
	cat := invoke.NewCatalog(l, invoke.New(nil, invoke.Options{}), nil)

	if cat.ButtonLabel() != "List Tools" || cat.LoadDisabled() {
		t.Fatalf("initial state: label=%q disabled=%v", cat.ButtonLabel(), cat.LoadDisabled())
	}
	if err := cat.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !cat.HasMore() || cat.ButtonLabel() != "List More Tools" || cat.LoadDisabled() {
		t.Fatalf("after first page: more=%v label=%q", cat.HasMore(), cat.ButtonLabel())
	}
	if err := cat.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(cat.Tools()); got != 3 {
		t.Fatalf("tools = %d", got)
	}
	if cat.HasMore() || cat.ButtonLabel() != "List Tools" || !cat.LoadDisabled() {
		t.Fatalf("after last page: more=%v label=%q disabled=%v", cat.HasMore(), cat.ButtonLabel(), cat.LoadDisabled())
	}
	if err := cat.Load(context.Background()); !errors.Is(err, invoke.ErrNoMoreTools) {
		t.Fatalf("err = %v", err)
	}
	if len(l.cursors) != 2 || l.cursors[0] != "" || l.cursors[1] != "next" {
		t.Fatalf("cursors = %v", l.cursors)
	}
}

func TestCatalogLoadAll(t *testing.T) {
	cat := invoke.NewCatalog(twoPages(), nil, nil)
	if err := cat.LoadAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(cat.Tools()) != 3 {
		t.Fatalf("tools = %v", cat.Tools())
	}
	if err := cat.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll on a complete list: %v", err)
	}
}

func TestCatalogEmptyServerKeepsButtonEnabled(t *testing.T) {
	cat := invoke.NewCatalog(&pagedLister{pages: map[string]protocol.ListToolsResult{}}, nil, nil)
	if err := cat.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if cat.LoadDisabled() {
		t.Fatalf("an empty list can be loaded again")
	}
}

func TestCatalogSelectAndClear(t *testing.T) {
	ctrl := invoke.New(nil, invoke.Options{})
	cat := invoke.NewCatalog(twoPages(), ctrl, nil)
	if err := cat.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := cat.Select("b"); err != nil || ctrl.Tool().Name != "b" {
		t.Fatalf("select: %v", err)
	}
	if err := cat.Select("zzz"); !errors.Is(err, invoke.ErrUnknownTool) {
		t.Fatalf("err = %v", err)
	}
	cat.Clear()
	if len(cat.Tools()) != 0 || cat.HasMore() || ctrl.Tool() != nil {
		t.Fatalf("clear must empty the list and the selection")
	}
}

func TestCatalogLoadError(t *testing.T) {
	boom := errors.New("down")
	cat := invoke.NewCatalog(&pagedLister{err: boom}, nil, nil)
	if err := cat.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(cat.Tools()) != 0 {
		t.Fatalf("failed load must not change the list")
	}
}

type nilPageLister struct{}

func (nilPageLister) ListTools(context.Context, string) (*protocol.ListToolsResult, error) {
	return nil, nil
}

func TestCatalogNilPageAndController(t *testing.T) {
	cat := invoke.NewCatalog(nilPageLister{}, nil, nil)
	if err := cat.Load(context.Background()); !errors.Is(err, invoke.ErrEmptyPage) {
		t.Fatalf("load err = %v", err)
	}
	if len(cat.Tools()) != 0 || cat.LoadDisabled() {
		t.Fatalf("empty page must not change the list")
	}

	listOnly := invoke.NewCatalog(twoPages(), nil, nil)
	if err := listOnly.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := listOnly.Select("a"); !errors.Is(err, invoke.ErrNoController) {
		t.Fatalf("select err = %v", err)
	}
	listOnly.Clear()
}
