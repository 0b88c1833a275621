package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Properties is the "properties" keyword with declaration order preserved.
// Order drives display order, so decoding never goes through a plain map
// alone.
type Properties struct {
	names  []string
	byName map[string]*Schema
}

// NewProperties returns an empty, declared property set.
func NewProperties() *Properties {
	return &Properties{byName: map[string]*Schema{}}
}

// Set adds or replaces a property. New names are appended to the order.
func (p *Properties) Set(name string, s *Schema) *Properties {
	if p.byName == nil {
		p.byName = map[string]*Schema{}
	}
	if _, ok := p.byName[name]; !ok {
		p.names = append(p.names, name)
	}
	p.byName[name] = s
	return p
}

// Get returns the schema for name.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.byName[name]
	return s, ok
}

// Len returns the number of declared properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Names returns the property names in declaration order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Each calls fn for every property in declaration order.
func (p *Properties) Each(fn func(name string, s *Schema)) {
	if p == nil {
		return
	}
	for _, n := range p.names {
		fn(n, p.byName[n])
	}
}

func (p *Properties) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.byName[n])
		if err != nil {
			return nil, fmt.Errorf("jsonschema: property %q: %w", n, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Properties) UnmarshalJSON(b []byte) error {
	var values map[string]*Schema
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	if values == nil {
		return nil
	}
	order, err := objectKeyOrder(b)
	if err != nil {
		return err
	}
	p.names = make([]string, 0, len(values))
	p.byName = make(map[string]*Schema, len(values))
	for _, n := range order {
		if _, seen := p.byName[n]; seen {
			continue
		}
		p.names = append(p.names, n)
		p.byName[n] = values[n]
	}
	return nil
}

func (p Properties) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, n := range p.names {
		var v yaml.Node
		if err := v.Encode(p.byName[n]); err != nil {
			return nil, fmt.Errorf("jsonschema: property %q: %w", n, err)
		}
		out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n}, &v)
	}
	return out, nil
}

func (p *Properties) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("jsonschema: line %d: properties must be a mapping", n.Line)
	}
	p.names = make([]string, 0, len(n.Content)/2)
	p.byName = make(map[string]*Schema, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		var s Schema
		if err := val.Decode(&s); err != nil {
			return fmt.Errorf("jsonschema: property %q: %w", key.Value, err)
		}
		p.Set(key.Value, &s)
	}
	return nil
}

// objectKeyOrder walks the token stream of a JSON object and returns its
// top-level keys in input order.
func objectKeyOrder(b []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	var (
		keys         []string
		depth        int
		expectingKey bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return keys, nil
		}
		if err != nil {
			return nil, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				if depth == 0 && v == '{' {
					expectingKey = true
				}
				depth++
			case '}', ']':
				depth--
				if depth == 1 {
					expectingKey = true
				}
			}
		case string:
			if depth != 1 {
				continue
			}
			if expectingKey {
				keys = append(keys, v)
				expectingKey = false
				continue
			}
			expectingKey = true
		default:
			if depth == 1 {
				expectingKey = true
			}
		}
	}
}
