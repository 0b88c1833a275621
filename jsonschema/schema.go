// Package jsonschema models the JSON Schema subset understood by toolform.
//
// Schema is the wire form exchanged with MCP servers and loaded from files.
// Node is the closed union the rest of the module dispatches on.
package jsonschema

// Schema is a minimal JSON Schema representation. Only the keywords needed to
// classify a node are interpreted; the rest round-trip so that the generic
// editor receives the schema unmodified.
type Schema struct {
	// Core
	Type        Types  `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Const       any    `json:"const,omitempty" yaml:"const,omitempty"`
	Ref         string `json:"$ref,omitempty" yaml:"$ref,omitempty"`

	// Object
	Properties           *Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string    `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties any         `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
}

// Clone returns a shallow copy of s with its own Type and Required slices.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Type = append(Types(nil), s.Type...)
	c.Required = append([]string(nil), s.Required...)
	return &c
}
