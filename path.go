package toolform

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: a property name or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns a property-name segment.
func Key(name string) Segment { return Segment{Key: name} }

// Index returns an index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// String renders the segment as it appears in display ids.
func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path addresses a node from the root schema. It is empty only at the root and
// its length equals the nesting depth of the addressed node.
type Path []Segment

// Field returns a new path extended by a property name. The receiver is never
// aliased by the result.
func (p Path) Field(name string) Path {
	return append(append(make(Path, 0, len(p)+1), p...), Key(name))
}

// Index returns a new path extended by an array index.
func (p Path) Index(i int) Path {
	return append(append(make(Path, 0, len(p)+1), p...), Index(i))
}

// Len reports the depth of the path.
func (p Path) Len() int { return len(p) }

// Key returns the last segment rendered as text, or "" at the root.
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1].String()
}

// String joins the segments with dots (for example "options.tags.0").
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Pointer renders the path as an RFC 6901 JSON Pointer.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.Key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// Equal reports whether both paths address the same node.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Issue creates an Issue located at this path. kv is a flat list of parameter
// key/value pairs.
func (p Path) Issue(code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = map[string]any{}
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: m}
}

// ParsePath parses a dot-separated display path. Segments made only of digits
// become index segments; everything else is a property name.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		if i, err := strconv.Atoi(part); err == nil && i >= 0 && part == strconv.Itoa(i) {
			out = append(out, Index(i))
			continue
		}
		out = append(out, Key(part))
	}
	return out
}
