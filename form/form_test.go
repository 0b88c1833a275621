package form_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/reoring/toolform"
	"github.com/reoring/toolform/form"
	js "github.com/reoring/toolform/jsonschema"
	"github.com/reoring/toolform/synth"
)

// recorder captures root onChange calls.
type recorder struct {
	calls int
	last  any
}

func (r *recorder) onChange(v any) {
	r.calls++
	r.last = v
}

func TestRender_FlagItemsExample(t *testing.T) {
	n := js.Object("",
		js.Prop("flag", js.Boolean("")),
		js.Prop("items", js.Array("", js.String(""))),
	)
	items := []any{"keep"}
	value := map[string]any{"flag": false, "items": items}
	rec := &recorder{}
	root := form.Render(n, nil, value, rec.onChange)

	f, ok := form.Find(root, toolform.ParsePath("flag"))
	if !ok {
		t.Fatalf("flag field not found")
	}
	f.(*form.BoolField).Set(true)

	if rec.calls != 1 {
		t.Fatalf("root onChange calls = %d, want 1", rec.calls)
	}
	next := rec.last.(map[string]any)
	if next["flag"] != true {
		t.Fatalf("flag not updated: %#v", next)
	}
	gotItems := next["items"].([]any)
	if &gotItems[0] != &items[0] {
		t.Fatalf("untouched sibling was copied")
	}
	if value["flag"] != false {
		t.Fatalf("original value mutated: %#v", value)
	}
}

func TestRender_Boolean(t *testing.T) {
	f := form.Render(js.Boolean(""), toolform.Path{toolform.Key("verbose")}, nil, nil).(*form.BoolField)
	if f.Checked {
		t.Fatalf("absent boolean must display unchecked")
	}
	if f.Label != "Toggle verbose" {
		t.Fatalf("label = %q", f.Label)
	}
	rec := &recorder{}
	f = form.Render(js.Boolean("Be loud"), nil, true, rec.onChange).(*form.BoolField)
	if !f.Checked || f.Label != "Be loud" {
		t.Fatalf("unexpected field %+v", f)
	}
	f.Toggle()
	if rec.last != false {
		t.Fatalf("toggle emitted %#v", rec.last)
	}
	if err := f.Input("true"); err != nil || rec.last != true {
		t.Fatalf("input true: err=%v last=%#v", err, rec.last)
	}
	if err := f.Input("maybe"); err == nil {
		t.Fatalf("expected parse error for non-boolean text")
	}
}

func TestRender_StringNullIsEmpty(t *testing.T) {
	f := form.Render(js.String("query text"), toolform.Path{toolform.Key("q")}, nil, nil).(*form.TextField)
	if f.Text != "" {
		t.Fatalf("null string must render as empty, got %q", f.Text)
	}
	if f.Placeholder != "query text" {
		t.Fatalf("placeholder = %q", f.Placeholder)
	}
	rec := &recorder{}
	f = form.Render(js.String(""), nil, "abc", rec.onChange).(*form.TextField)
	f.Set("abcd")
	if rec.last != "abcd" {
		t.Fatalf("emitted %#v", rec.last)
	}
}

func TestRender_NumberCoercion(t *testing.T) {
	rec := &recorder{}
	f := form.Render(js.Number(""), nil, nil, rec.onChange).(*form.NumberField)
	if f.Text != "" {
		t.Fatalf("absent number must display empty, got %q", f.Text)
	}
	f.Set("42.5")
	if rec.last != 42.5 {
		t.Fatalf("emitted %#v", rec.last)
	}
	f.Set("abc")
	got, ok := rec.last.(float64)
	if !ok || !math.IsNaN(got) {
		t.Fatalf("non-numeric input must propagate NaN, got %#v", rec.last)
	}
	i := form.Render(js.Integer(""), nil, float64(7), nil).(*form.NumberField)
	if !i.Integer || i.Text != "7" {
		t.Fatalf("integer field %+v", i)
	}
}

func TestRender_ObjectSynthesizesAbsentWithoutPersisting(t *testing.T) {
	n := js.Object("opts",
		js.Prop("name", js.String("")),
		js.Prop("nested", js.Object("", js.Prop("on", js.Boolean("")))),
	)
	value := map[string]any{"name": "x"}
	rec := &recorder{}
	root := form.Render(n, nil, value, rec.onChange).(*form.ObjectField)
	if root.Title != "opts" {
		t.Fatalf("title = %q", root.Title)
	}
	nested, _ := root.Child("nested")
	if _, ok := nested.Value().(map[string]any); !ok {
		t.Fatalf("absent object should be synthesized for display, got %#v", nested.Value())
	}
	if _, ok := value["nested"]; ok {
		t.Fatalf("synthesized branch persisted into the input")
	}
	if rec.calls != 0 {
		t.Fatalf("render must not emit")
	}

	on, _ := form.Find(root, toolform.ParsePath("nested.on"))
	on.(*form.BoolField).Set(true)
	want := map[string]any{"name": "x", "nested": map[string]any{"on": true}}
	if !reflect.DeepEqual(rec.last, want) {
		t.Fatalf("got %#v, want %#v", rec.last, want)
	}
}

func TestRender_PropertyOrder(t *testing.T) {
	s, err := js.ParseSchema([]byte(`{"type":"object","properties":{"z":{"type":"string"},"a":{"type":"string"},"m":{"type":"number"}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := form.Render(js.FromSchema(s), nil, nil, nil).(*form.ObjectField)
	var names []string
	for _, p := range root.Properties {
		names = append(names, p.Name)
	}
	if !reflect.DeepEqual(names, []string{"z", "a", "m"}) {
		t.Fatalf("order = %v", names)
	}
}

func TestRender_Delegation(t *testing.T) {
	arr := js.Array("tags", js.String(""))
	f := form.Render(arr, nil, nil, nil)
	d, ok := f.(*form.DelegateField)
	if !ok {
		t.Fatalf("array with items must delegate, got %T", f)
	}
	if v, ok := d.Value().([]any); !ok || len(v) != 0 {
		t.Fatalf("absent array should be empty sequence, got %#v", d.Value())
	}
	if d.Schema().Kind() != js.KindArray || d.Schema().Items() == nil || d.Schema().Description() != "tags" {
		t.Fatalf("narrowed schema wrong")
	}

	bareObj := js.FromSchema(&js.Schema{Type: js.Types{"object"}})
	if _, ok := form.Render(bareObj, nil, nil, nil).(*form.DelegateField); !ok {
		t.Fatalf("object without properties must delegate")
	}
	bareArr := js.Array("", nil)
	if d, ok := form.Render(bareArr, nil, nil, nil).(*form.DelegateField); !ok || d.Value() != nil {
		t.Fatalf("array without items must delegate with the raw value")
	}
	other := js.Other(&js.Schema{Enum: []any{"a", "b"}})
	d, ok = form.Render(other, nil, "a", nil).(*form.DelegateField)
	if !ok || d.Schema() != other {
		t.Fatalf("other shapes must delegate with the unmodified schema")
	}
}

func TestRender_DelegateInput(t *testing.T) {
	n := js.Object("", js.Prop("tags", js.Array("", js.String(""))), js.Prop("x", js.Number("")))
	rec := &recorder{}
	root := form.Render(n, nil, map[string]any{"x": float64(1)}, rec.onChange)
	tags, _ := form.Find(root, toolform.ParsePath("tags"))
	if err := tags.Input(`["a","b"]`); err != nil {
		t.Fatalf("input: %v", err)
	}
	want := map[string]any{"x": float64(1), "tags": []any{"a", "b"}}
	if !reflect.DeepEqual(rec.last, want) {
		t.Fatalf("got %#v", rec.last)
	}
	if err := root.Input("{}"); err == nil {
		t.Fatalf("object fields are not leaves")
	}
}

func TestRender_DeepNesting(t *testing.T) {
	// object -> array of objects -> boolean, plus object -> object -> object -> boolean
	n := js.Object("",
		js.Prop("rows", js.Array("", js.Object("", js.Prop("on", js.Boolean(""))))),
		js.Prop("a", js.Object("", js.Prop("b", js.Object("", js.Prop("c", js.Boolean("")))))),
		js.Prop("label", js.String("")),
	)
	start := synth.Synthesize(n)
	want := map[string]any{
		"rows":  []any{},
		"a":     map[string]any{"b": map[string]any{"c": false}},
		"label": "",
	}
	if !reflect.DeepEqual(start, want) {
		t.Fatalf("synthesized %#v", start)
	}

	rec := &recorder{}
	root := form.Render(n, nil, start, rec.onChange)
	c, ok := form.Find(root, toolform.ParsePath("a.b.c"))
	if !ok || c.ID() != "a.b.c" {
		t.Fatalf("depth-3 field not found")
	}
	c.(*form.BoolField).Set(true)
	next := rec.last.(map[string]any)
	if next["a"].(map[string]any)["b"].(map[string]any)["c"] != true {
		t.Fatalf("deep edit lost: %#v", next)
	}
	if start.(map[string]any)["a"].(map[string]any)["b"].(map[string]any)["c"] != false {
		t.Fatalf("deep edit mutated the original tree")
	}

	// array of objects edited through the generic editor, then addressed by path
	withRows, err := form.SetIn(next, toolform.ParsePath("rows"), []any{map[string]any{"on": false}})
	if err != nil {
		t.Fatalf("set rows: %v", err)
	}
	toggled, err := form.SetIn(withRows, toolform.ParsePath("rows.0.on"), true)
	if err != nil {
		t.Fatalf("set rows.0.on: %v", err)
	}
	if v, _ := form.GetIn(toggled, toolform.ParsePath("rows.0.on")); v != true {
		t.Fatalf("rows.0.on = %#v", v)
	}
	if v, _ := form.GetIn(withRows, toolform.ParsePath("rows.0.on")); v != false {
		t.Fatalf("SetIn mutated its input")
	}
}

func TestRender_Idempotent(t *testing.T) {
	n := js.Object("",
		js.Prop("s", js.String("")),
		js.Prop("n", js.Number("")),
		js.Prop("o", js.Object("", js.Prop("b", js.Boolean("")))),
		js.Prop("xs", js.Array("", js.Integer(""))),
	)
	value := map[string]any{"s": "hi", "n": 3.5, "xs": []any{1.0, 2.0}}
	a := form.Describe(form.Render(n, nil, value, nil))
	b := form.Describe(form.Render(n, nil, value, nil))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("render is not idempotent:\n%#v\n%#v", a, b)
	}
}

func TestRender_SequentialEditsOnOneTree(t *testing.T) {
	n := js.Object("", js.Prop("a", js.String("")), js.Prop("b", js.String("")))
	rec := &recorder{}
	root := form.Render(n, nil, map[string]any{}, rec.onChange).(*form.ObjectField)
	a, _ := root.Child("a")
	b, _ := root.Child("b")
	_ = a.Input("1")
	_ = b.Input("2")
	if !reflect.DeepEqual(rec.last, map[string]any{"a": "1", "b": "2"}) {
		t.Fatalf("second edit dropped the first: %#v", rec.last)
	}
	if rec.calls != 2 {
		t.Fatalf("calls = %d", rec.calls)
	}
}

func TestRenderParams(t *testing.T) {
	root := js.Object("", js.Prop("q", js.String("")), js.Prop("limit", js.Integer("")))
	params := synth.Parameters(root)
	var got map[string]any
	fields := form.RenderParams(root, params, func(m map[string]any) { got = m })
	if len(fields) != 2 || fields[0].Name != "q" || fields[1].Field.ID() != "limit" {
		t.Fatalf("unexpected fields %+v", fields)
	}
	f, ok := form.FindParam(fields, toolform.ParsePath("limit"))
	if !ok {
		t.Fatalf("limit not found")
	}
	_ = f.Input("10")
	if !reflect.DeepEqual(got, map[string]any{"q": "", "limit": float64(10)}) {
		t.Fatalf("params = %#v", got)
	}
	if params["limit"] != float64(0) {
		t.Fatalf("parameter set mutated in place")
	}
}

func TestBindParamsReportsEditPaths(t *testing.T) {
	root := js.Object("",
		js.Prop("q", js.String("")),
		js.Prop("opts", js.Object("", js.Prop("deep", js.Object("", js.Prop("on", js.Boolean("")))))),
		js.Prop("extra", js.Object("", js.Prop("x", js.String("")), js.Prop("y", js.String("")))),
	)
	params := map[string]any{
		"q":    "",
		"opts": map[string]any{"deep": map[string]any{"on": false}},
	}
	type edit struct {
		path string
		v    any
	}
	var got []edit
	fields := form.BindParams(root, params, func(p toolform.Path, v any) {
		got = append(got, edit{p.String(), v})
	})

	tests := []struct {
		path string
		text string
		want edit
	}{
		{"q", "hello", edit{"q", "hello"}},
		{"opts.deep.on", "true", edit{"opts.deep.on", true}},
		// extra is absent, so the whole synthesized object is reported once
		{"extra.x", "1", edit{"extra", map[string]any{"x": "1"}}},
	}
	for _, tt := range tests {
		got = nil
		f, ok := form.FindParam(fields, toolform.ParsePath(tt.path))
		if !ok {
			t.Fatalf("%s not rendered", tt.path)
		}
		if err := f.Input(tt.text); err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		if len(got) != 1 || !reflect.DeepEqual(got[0], tt.want) {
			t.Fatalf("%s: edits = %#v, want %#v", tt.path, got, tt.want)
		}
	}
	if params["q"] != "" || params["opts"].(map[string]any)["deep"].(map[string]any)["on"] != false {
		t.Fatalf("parameter set mutated in place")
	}
}
