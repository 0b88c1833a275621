// Package synth derives default value trees from schema nodes.
package synth

import (
	"github.com/reoring/toolform/fallback"
	js "github.com/reoring/toolform/jsonschema"
)

// Synthesizer produces default values. Shapes it does not specialize are
// delegated to the fallback editor's Default.
type Synthesizer struct {
	Fallback fallback.Editor
}

// New returns a Synthesizer bound to fb. A nil fb uses fallback.Default.
func New(fb fallback.Editor) *Synthesizer {
	if fb == nil {
		fb = fallback.Default
	}
	return &Synthesizer{Fallback: fb}
}

// Synthesize returns the default value for n. It is total and deterministic.
func (s *Synthesizer) Synthesize(n *js.Node) any {
	switch n.Kind() {
	case js.KindBoolean:
		return false
	case js.KindString:
		return ""
	case js.KindNumber, js.KindInteger:
		return float64(0)
	case js.KindObject:
		props := n.Properties()
		out := make(map[string]any, len(props))
		for _, p := range props {
			out[p.Name] = s.Synthesize(p.Node)
		}
		return out
	case js.KindArray:
		// items are never materialized
		return []any{}
	default:
		return s.fallback().Default(n)
	}
}

// Parameters seeds a parameter set: one default per top-level property of
// root. Non-object roots yield an empty set.
func (s *Synthesizer) Parameters(root *js.Node) map[string]any {
	if root.Kind() != js.KindObject {
		return map[string]any{}
	}
	out, _ := s.Synthesize(root).(map[string]any)
	return out
}

func (s *Synthesizer) fallback() fallback.Editor {
	if s == nil || s.Fallback == nil {
		return fallback.Default
	}
	return s.Fallback
}

var std = New(nil)

// Synthesize uses the default synthesizer.
func Synthesize(n *js.Node) any { return std.Synthesize(n) }

// Parameters uses the default synthesizer.
func Parameters(root *js.Node) map[string]any { return std.Parameters(root) }
