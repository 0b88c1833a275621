package toolform_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reoring/toolform"
)

func TestPath_FieldIndexDoNotAlias(t *testing.T) {
	base := make(toolform.Path, 0, 4)
	base = base.Field("a")
	x := base.Field("x")
	y := base.Field("y")
	if x.String() != "a.x" || y.String() != "a.y" {
		t.Fatalf("aliasing between siblings: %s %s", x, y)
	}
	if base.Len() != 1 {
		t.Fatalf("parent changed length")
	}
}

func TestPath_Rendering(t *testing.T) {
	var root toolform.Path
	if root.Pointer() != "/" || root.String() != "" || root.Key() != "" {
		t.Fatalf("root rendering wrong")
	}
	p := root.Field("items").Index(2).Field("a/b~c")
	if p.Pointer() != "/items/2/a~1b~0c" {
		t.Fatalf("pointer = %s", p.Pointer())
	}
	if p.String() != "items.2.a/b~c" {
		t.Fatalf("string = %s", p.String())
	}
	if p.Key() != "a/b~c" || p.Len() != 3 {
		t.Fatalf("key/len wrong")
	}
}

func TestParsePath(t *testing.T) {
	p := toolform.ParsePath("rows.0.on")
	want := toolform.Path{toolform.Key("rows"), toolform.Index(0), toolform.Key("on")}
	if !p.Equal(want) {
		t.Fatalf("parsed %v", p)
	}
	if !toolform.ParsePath("x.01").Equal(toolform.Path{toolform.Key("x"), toolform.Key("01")}) {
		t.Fatalf("leading zeros must stay keys")
	}
	if toolform.ParsePath("") != nil {
		t.Fatalf("empty string is the root")
	}
}

func TestIssues_ErrorAndAs(t *testing.T) {
	p := toolform.Path{}.Field("content").Index(0)
	iss := toolform.Issues{
		p.Issue(toolform.CodeRequired, "missing", "field", "type"),
		toolform.IssueAt(p.Field("text"), toolform.CodeInvalidType, "bad", nil),
		{Path: "/a", Code: toolform.CodeParseError},
		{Path: "/b", Code: toolform.CodeParseError},
	}
	msg := iss.Error()
	if msg != "required at /content/0; invalid_type at /content/0/text; parse_error at /a; ... (total 4)" {
		t.Fatalf("summary = %q", msg)
	}
	if iss[0].Params["field"] != "type" {
		t.Fatalf("params not recorded: %#v", iss[0].Params)
	}
	wrapped := fmt.Errorf("classify: %w", iss)
	got, ok := toolform.AsIssues(wrapped)
	if !ok || len(got) != 4 {
		t.Fatalf("AsIssues failed on wrapped error")
	}
	if _, ok := toolform.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not issues")
	}
	if got := toolform.AppendIssues(nil); got == nil {
		t.Fatalf("AppendIssues should initialize the slice")
	}
}
