package jsonschema

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Types holds the "type" keyword, which may be a single string or a list.
type Types []string

// Single returns the only non-"null" member, or "" when there is none or more
// than one.
func (t Types) Single() string {
	out := ""
	for _, s := range t {
		if s == "null" {
			continue
		}
		if out != "" {
			return ""
		}
		out = s
	}
	return out
}

func (t Types) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

func (t *Types) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*t = Types{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("jsonschema: type must be a string or an array of strings: %w", err)
	}
	*t = many
	return nil
}

func (t Types) MarshalYAML() (any, error) {
	if len(t) == 1 {
		return t[0], nil
	}
	return []string(t), nil
}

func (t *Types) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*t = Types{n.Value}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := n.Decode(&many); err != nil {
			return err
		}
		*t = many
		return nil
	default:
		return fmt.Errorf("jsonschema: line %d: type must be a string or a list of strings", n.Line)
	}
}
