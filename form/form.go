// Package form builds editable value trees that mirror a schema.
//
// Every setter produces exactly one call to the root onChange with a new
// top-level value: the edited leaf's ancestors are shallow copies and
// untouched siblings are carried over as is. The value passed to Render is
// never mutated. A rendered tree remembers its own edits, so setters may be
// called in sequence without re-rendering.
package form

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/reoring/toolform"
	"github.com/reoring/toolform/fallback"
	js "github.com/reoring/toolform/jsonschema"
	"github.com/reoring/toolform/synth"
)

// ErrNotLeaf is returned by Input on fields that have no text form.
var ErrNotLeaf = errors.New("form: field is not a leaf")

// Field is one node of a rendered form.
type Field interface {
	// ID is the dot-joined path, used as the input id.
	ID() string
	Path() toolform.Path
	Schema() *js.Node
	// Value is the value the field was rendered with.
	Value() any
	// Display is the text shown for the value.
	Display() string
	// Input applies user text to the field.
	Input(text string) error
}

type base struct {
	path     toolform.Path
	schema   *js.Node
	value    any
	onChange func(any)
	onEdit   EditFunc
}

func (b *base) ID() string          { return b.path.String() }
func (b *base) Path() toolform.Path { return b.path }
func (b *base) Schema() *js.Node    { return b.schema }
func (b *base) Value() any          { return b.value }

func (b *base) emit(v any) {
	b.value = v
	if b.onEdit != nil {
		b.onEdit(b.path, v)
	}
	if b.onChange != nil {
		b.onChange(v)
	}
}

// bubble records a child's edit without reporting it as an edit of b.
func (b *base) bubble(v any) {
	b.value = v
	if b.onChange != nil {
		b.onChange(v)
	}
}

// EditFunc receives one edit: the path of the value that changed and its new
// value. Edits under a branch that was synthesized for display are reported
// once, at the synthesized branch, with its whole value.
type EditFunc func(path toolform.Path, v any)

// BoolField is a checkbox.
type BoolField struct {
	base
	Checked bool
	Label   string
}

// Set emits checked.
func (f *BoolField) Set(checked bool) {
	f.Checked = checked
	f.emit(checked)
}

// Toggle flips the checkbox.
func (f *BoolField) Toggle() { f.Set(!f.Checked) }

func (f *BoolField) Display() string { return strconv.FormatBool(f.Checked) }

func (f *BoolField) Input(text string) error {
	b, err := strconv.ParseBool(text)
	if err != nil {
		return fmt.Errorf("form: %s: %w", f.ID(), err)
	}
	f.Set(b)
	return nil
}

// TextField is a free-text input.
type TextField struct {
	base
	Text        string
	Placeholder string
}

// Set emits text verbatim.
func (f *TextField) Set(text string) {
	f.Text = text
	f.emit(text)
}

func (f *TextField) Display() string { return f.Text }

func (f *TextField) Input(text string) error {
	f.Set(text)
	return nil
}

// NumberField is a numeric input for number and integer schemas.
type NumberField struct {
	base
	Text        string
	Placeholder string
	Integer     bool
}

// Set coerces text with CoerceNumber and emits the result, NaN included.
func (f *NumberField) Set(text string) {
	f.SetNumber(CoerceNumber(text))
}

// SetNumber emits n.
func (f *NumberField) SetNumber(n float64) {
	f.Text = numberText(n)
	f.emit(n)
}

func (f *NumberField) Display() string { return f.Text }

func (f *NumberField) Input(text string) error {
	f.Set(text)
	return nil
}

// Property is a labelled child of an object field.
type Property struct {
	Name  string
	Field Field
}

// ObjectField groups the declared properties of an object schema.
type ObjectField struct {
	base
	Title      string
	Properties []Property
}

// Child returns the field rendered for property name.
func (f *ObjectField) Child(name string) (Field, bool) {
	for _, p := range f.Properties {
		if p.Name == name {
			return p.Field, true
		}
	}
	return nil, false
}

func (f *ObjectField) Display() string { return f.Title }

func (f *ObjectField) Input(string) error {
	return fmt.Errorf("%w: %s", ErrNotLeaf, f.ID())
}

// DelegateField hands the value to the generic editor.
type DelegateField struct {
	base
	Editor fallback.Editable
}

func (f *DelegateField) Display() string { return f.Editor.Text() }

func (f *DelegateField) Input(text string) error { return f.Editor.SetText(text) }

// Renderer renders schema nodes into fields.
type Renderer struct {
	Fallback fallback.Editor
	Synth    *synth.Synthesizer
}

// New returns a Renderer whose generic editor is fb (fallback.Default when
// nil). Missing branches are synthesized through the same editor.
func New(fb fallback.Editor) *Renderer {
	if fb == nil {
		fb = fallback.Default
	}
	return &Renderer{Fallback: fb, Synth: synth.New(fb)}
}

// Render builds the field for n at path with the current value. onChange
// receives the new value of this subtree.
func (r *Renderer) Render(n *js.Node, path toolform.Path, value any, onChange func(any)) Field {
	return r.render(n, path, value, onChange, nil)
}

func (r *Renderer) render(n *js.Node, path toolform.Path, value any, onChange func(any), onEdit EditFunc) Field {
	b := base{path: path, schema: n, value: value, onChange: onChange, onEdit: onEdit}
	switch {
	case n.Kind() == js.KindBoolean:
		label := n.Description()
		if label == "" {
			label = "Toggle " + path.Key()
		}
		return &BoolField{base: b, Checked: Truthy(value), Label: label}
	case n.Kind() == js.KindString:
		return &TextField{base: b, Text: textOf(value), Placeholder: n.Description()}
	case n.Kind() == js.KindNumber || n.Kind() == js.KindInteger:
		return &NumberField{base: b, Text: numberText(value), Placeholder: n.Description(), Integer: n.Kind() == js.KindInteger}
	case n.Kind() == js.KindObject && n.HasProperties():
		return r.renderObject(b, n, value)
	case n.Kind() == js.KindArray && n.Items() != nil:
		narrowed := js.Array(n.Description(), n.Items())
		if value == nil {
			value = []any{}
		}
		b.schema = narrowed
		b.value = value
		return r.delegate(b)
	default:
		return r.delegate(b)
	}
}

func (r *Renderer) renderObject(b base, n *js.Node, value any) Field {
	title := n.Description()
	if title == "" {
		title = b.path.Key()
	}
	f := &ObjectField{base: b, Title: title}
	current, _ := value.(map[string]any)
	for _, p := range n.Properties() {
		name := p.Name
		path := b.path.Field(name)
		pv, ok := current[name]
		edit := b.onEdit
		synthesized := !ok || pv == nil
		if synthesized {
			// shown only; persisted once something under it is edited
			pv = r.synth().Synthesize(p.Node)
			edit = nil
		}
		child := r.render(p.Node, path, pv, func(nv any) {
			prev, _ := f.value.(map[string]any)
			next := make(map[string]any, len(prev)+1)
			for k, v := range prev {
				next[k] = v
			}
			next[name] = nv
			f.bubble(next)
			if synthesized && f.onEdit != nil {
				f.onEdit(path, nv)
			}
		}, edit)
		f.Properties = append(f.Properties, Property{Name: name, Field: child})
	}
	return f
}

func (r *Renderer) delegate(b base) Field {
	f := &DelegateField{base: b}
	f.Editor = r.fallback().Render(b.schema, b.value, f.emit)
	return f
}

// RenderParams renders the top-level properties of root against a parameter
// set. Each edit yields a fresh parameter set with only that entry replaced.
func (r *Renderer) RenderParams(root *js.Node, params map[string]any, onChange func(map[string]any)) []Property {
	props := root.Properties()
	out := make([]Property, 0, len(props))
	latest := params
	for _, p := range props {
		name := p.Name
		f := r.Render(p.Node, toolform.Path{toolform.Key(name)}, params[name], func(nv any) {
			next := make(map[string]any, len(latest)+1)
			for k, v := range latest {
				next[k] = v
			}
			next[name] = nv
			latest = next
			if onChange != nil {
				onChange(next)
			}
		})
		out = append(out, Property{Name: name, Field: f})
	}
	return out
}

// BindParams renders the top-level properties of root against a parameter
// set and reports every edit to onEdit by path instead of rebuilding the set.
// Callers apply edits to their own current parameters, so edits made
// elsewhere after rendering are kept.
func (r *Renderer) BindParams(root *js.Node, params map[string]any, onEdit EditFunc) []Property {
	props := root.Properties()
	out := make([]Property, 0, len(props))
	for _, p := range props {
		path := toolform.Path{toolform.Key(p.Name)}
		pv, ok := params[p.Name]
		edit := onEdit
		missing := !ok || pv == nil
		if missing {
			edit = nil
		}
		f := r.render(p.Node, path, pv, func(nv any) {
			if missing && onEdit != nil {
				onEdit(path, nv)
			}
		}, edit)
		out = append(out, Property{Name: p.Name, Field: f})
	}
	return out
}

func (r *Renderer) fallback() fallback.Editor {
	if r == nil || r.Fallback == nil {
		return fallback.Default
	}
	return r.Fallback
}

func (r *Renderer) synth() *synth.Synthesizer {
	if r == nil || r.Synth == nil {
		return synth.New(r.fallback())
	}
	return r.Synth
}

var std = New(nil)

// Render uses the default renderer.
func Render(n *js.Node, path toolform.Path, value any, onChange func(any)) Field {
	return std.Render(n, path, value, onChange)
}

// BindParams uses the default renderer.
func BindParams(root *js.Node, params map[string]any, onEdit EditFunc) []Property {
	return std.BindParams(root, params, onEdit)
}

// RenderParams uses the default renderer.
func RenderParams(root *js.Node, params map[string]any, onChange func(map[string]any)) []Property {
	return std.RenderParams(root, params, onChange)
}
