// Package fallback is the generic JSON editor used for arrays and for every
// schema shape the form tree does not specialize.
package fallback

import (
	json "github.com/goccy/go-json"

	"github.com/reoring/toolform"
	"github.com/reoring/toolform/i18n"
	js "github.com/reoring/toolform/jsonschema"
)

// Editor synthesizes empty values and renders editables for schemas handed
// over by the form tree.
type Editor interface {
	// Default returns the editor's empty value for the schema. The form tree
	// treats it as opaque.
	Default(n *js.Node) any
	// Render returns an editable bound to onChange.
	Render(n *js.Node, value any, onChange func(any)) Editable
}

// Editable is a rendered generic editor.
type Editable interface {
	Value() any
	Text() string
	SetText(text string) error
	Set(v any)
}

// JSONEditor edits values as raw JSON text.
type JSONEditor struct {
	// Indent is used when rendering the text view. Empty means two spaces.
	Indent string
}

// Default implements Editor.
func (JSONEditor) Default(n *js.Node) any {
	switch n.Kind() {
	case js.KindArray:
		return []any{}
	case js.KindObject:
		return map[string]any{}
	default:
		return nil
	}
}

// Render implements Editor.
func (e JSONEditor) Render(n *js.Node, value any, onChange func(any)) Editable {
	indent := e.Indent
	if indent == "" {
		indent = "  "
	}
	return &Field{schema: n, value: value, indent: indent, onChange: onChange}
}

// Field is the editable produced by JSONEditor.
type Field struct {
	schema   *js.Node
	value    any
	indent   string
	onChange func(any)
}

// Schema returns the schema the editor was rendered for.
func (f *Field) Schema() *js.Node { return f.schema }

// Value returns the bound value.
func (f *Field) Value() any { return f.value }

// Text renders the value as indented JSON. Values that cannot be encoded
// (for example NaN) render as "".
func (f *Field) Text() string {
	if f.value == nil {
		return ""
	}
	b, err := json.MarshalIndent(f.value, "", f.indent)
	if err != nil {
		return ""
	}
	return string(b)
}

// SetText parses text as JSON and forwards the decoded value. Empty text sets
// null. On a parse error onChange is not called.
func (f *Field) SetText(text string) error {
	if text == "" {
		f.Set(nil)
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return toolform.Issues{{
			Path:    "/",
			Code:    toolform.CodeParseError,
			Message: i18n.T(toolform.CodeParseError, nil),
			Hint:    err.Error(),
		}}
	}
	f.Set(v)
	return nil
}

// Set forwards v as the new value.
func (f *Field) Set(v any) {
	f.value = v
	if f.onChange != nil {
		f.onChange(v)
	}
}

// Default is the editor used when none is configured.
var Default Editor = JSONEditor{}
