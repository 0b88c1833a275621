package jsonschema_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	js "github.com/reoring/toolform/jsonschema"
)

const toolSchemaJSON = `{
  "type": "object",
  "description": "search options",
  "properties": {
    "zeta":  {"type": "string", "description": "last letter"},
    "alpha": {"type": "object", "properties": {"deep": {"type": ["boolean", "null"]}, "n": {"type": "integer"}}},
    "tags":  {"type": "array", "items": {"type": "string"}},
    "mode":  {"enum": ["a", "b"]},
    "count": {"type": "number"}
  },
  "required": ["zeta"]
}`

func TestParse_PreservesPropertyOrder(t *testing.T) {
	n, err := js.Parse([]byte(toolSchemaJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n.Kind() != js.KindObject || !n.HasProperties() {
		t.Fatalf("expected object with properties, got %v", n.Kind())
	}
	var names []string
	for _, p := range n.Properties() {
		names = append(names, p.Name)
	}
	want := []string{"zeta", "alpha", "tags", "mode", "count"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("order = %v, want %v", names, want)
	}
	alpha, _ := n.Property("alpha")
	var inner []string
	for _, p := range alpha.Properties() {
		inner = append(inner, p.Name)
	}
	if !reflect.DeepEqual(inner, []string{"deep", "n"}) {
		t.Fatalf("nested order = %v", inner)
	}
}

func TestFromSchema_Kinds(t *testing.T) {
	n, err := js.Parse([]byte(toolSchemaJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cases := map[string]js.Kind{
		"zeta":  js.KindString,
		"alpha": js.KindObject,
		"tags":  js.KindArray,
		"mode":  js.KindOther,
		"count": js.KindNumber,
	}
	for name, want := range cases {
		p, ok := n.Property(name)
		if !ok {
			t.Fatalf("missing property %s", name)
		}
		if p.Kind() != want {
			t.Fatalf("%s: kind=%v want %v", name, p.Kind(), want)
		}
	}
	alpha, _ := n.Property("alpha")
	deep, _ := alpha.Property("deep")
	if deep.Kind() != js.KindBoolean {
		t.Fatalf("nullable boolean should reduce to boolean, got %v", deep.Kind())
	}
	tags, _ := n.Property("tags")
	if tags.Items() == nil || tags.Items().Kind() != js.KindString {
		t.Fatalf("array items not converted")
	}
	if n.Description() != "search options" {
		t.Fatalf("description lost: %q", n.Description())
	}
}

func TestFromSchema_UndeclaredShapes(t *testing.T) {
	obj := js.FromSchema(&js.Schema{Type: js.Types{"object"}})
	if obj.Kind() != js.KindObject || obj.HasProperties() {
		t.Fatalf("object without properties must not report declared properties")
	}
	empty := js.FromSchema(&js.Schema{Type: js.Types{"object"}, Properties: js.NewProperties()})
	if !empty.HasProperties() {
		t.Fatalf("empty properties keyword counts as declared")
	}
	arr := js.FromSchema(&js.Schema{Type: js.Types{"array"}})
	if arr.Kind() != js.KindArray || arr.Items() != nil {
		t.Fatalf("array without items should have nil items")
	}
	multi := js.FromSchema(&js.Schema{Type: js.Types{"string", "number"}})
	if multi.Kind() != js.KindOther {
		t.Fatalf("multi-type schema should be other, got %v", multi.Kind())
	}
	if js.FromSchema(nil).Kind() != js.KindOther {
		t.Fatalf("nil schema should be other")
	}
}

func TestProperties_MarshalKeepsOrder(t *testing.T) {
	s, err := js.ParseSchema([]byte(toolSchemaJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(out)
	if strings.Index(text, `"zeta"`) > strings.Index(text, `"alpha"`) {
		t.Fatalf("marshal reordered properties: %s", text)
	}
	if !strings.Contains(text, `"type":"object"`) {
		t.Fatalf("single type should encode as a string: %s", text)
	}
	if !strings.Contains(text, `"type":["boolean","null"]`) {
		t.Fatalf("type list should encode as an array: %s", text)
	}
}

func TestParseYAML_PreservesOrder(t *testing.T) {
	doc := `
type: object
properties:
  second:
    type: boolean
  first:
    type: string
    description: comes later alphabetically
  list:
    type: array
    items:
      type: number
`
	n, err := js.ParseYAML([]byte(doc))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	var names []string
	for _, p := range n.Properties() {
		names = append(names, p.Name)
	}
	if !reflect.DeepEqual(names, []string{"second", "first", "list"}) {
		t.Fatalf("yaml order = %v", names)
	}
	first, _ := n.Property("first")
	if first.Description() != "comes later alphabetically" {
		t.Fatalf("description lost")
	}
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	jp := filepath.Join(dir, "tool.json")
	yp := filepath.Join(dir, "tool.yml")
	if err := os.WriteFile(jp, []byte(`{"type":"boolean"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(yp, []byte("type: integer\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if n, err := js.Load(jp); err != nil || n.Kind() != js.KindBoolean {
		t.Fatalf("json load: kind=%v err=%v", n.Kind(), err)
	}
	if n, err := js.Load(yp); err != nil || n.Kind() != js.KindInteger {
		t.Fatalf("yaml load: kind=%v err=%v", n.Kind(), err)
	}
	if _, err := js.Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestConstructors_GenerateSchema(t *testing.T) {
	n := js.Object("root",
		js.Prop("b", js.Boolean("flag")),
		js.Prop("xs", js.Array("", js.Integer(""))),
	)
	s := n.Schema()
	if s.Properties.Len() != 2 || !reflect.DeepEqual(s.Properties.Names(), []string{"b", "xs"}) {
		t.Fatalf("generated properties wrong: %v", s.Properties.Names())
	}
	xs, _ := s.Properties.Get("xs")
	if xs.Items == nil || xs.Items.Type.Single() != "integer" {
		t.Fatalf("generated items wrong: %+v", xs)
	}
}
