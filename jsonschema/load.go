package jsonschema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseSchema decodes a JSON document into a wire schema.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("jsonschema: invalid JSON: %w", err)
	}
	return &s, nil
}

// ParseSchemaYAML decodes the first YAML document into a wire schema.
func ParseSchemaYAML(data []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var s Schema
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("jsonschema: invalid YAML: %w", err)
	}
	return &s, nil
}

// Parse decodes a JSON schema document into a node tree.
func Parse(data []byte) (*Node, error) {
	s, err := ParseSchema(data)
	if err != nil {
		return nil, err
	}
	return FromSchema(s), nil
}

// ParseYAML decodes a YAML schema document into a node tree.
func ParseYAML(data []byte) (*Node, error) {
	s, err := ParseSchemaYAML(data)
	if err != nil {
		return nil, err
	}
	return FromSchema(s), nil
}

// LoadSchema reads a schema file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseSchemaYAML(data)
	default:
		return ParseSchema(data)
	}
}

// Load reads a schema file into a node tree.
func Load(path string) (*Node, error) {
	s, err := LoadSchema(path)
	if err != nil {
		return nil, err
	}
	return FromSchema(s), nil
}
