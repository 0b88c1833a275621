package jsonschema

// Kind enumerates the schema shapes the core specializes. Anything outside
// the list is KindOther and goes to the generic editor.
type Kind int

const (
	KindOther Kind = iota
	KindBoolean
	KindString
	KindNumber
	KindInteger
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "other"
	}
}

// Property is a named child of an object node.
type Property struct {
	Name string
	Node *Node
}

// Prop is shorthand for Property{Name: name, Node: n}.
func Prop(name string, n *Node) Property { return Property{Name: name, Node: n} }

// Node is an immutable schema node. Its kind is fixed at construction.
type Node struct {
	kind        Kind
	description string
	props       []Property
	declared    bool // properties keyword present (possibly empty)
	items       *Node
	source      *Schema
}

// Kind returns the node kind.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindOther
	}
	return n.kind
}

// Description returns the optional human-readable description.
func (n *Node) Description() string {
	if n == nil {
		return ""
	}
	return n.description
}

// HasProperties reports whether an object node declares properties at all.
// An empty declaration counts.
func (n *Node) HasProperties() bool { return n != nil && n.kind == KindObject && n.declared }

// Properties returns the declared properties in declaration order.
func (n *Node) Properties() []Property {
	if n == nil {
		return nil
	}
	return append([]Property(nil), n.props...)
}

// Property looks up a declared property by name.
func (n *Node) Property(name string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, p := range n.props {
		if p.Name == name {
			return p.Node, true
		}
	}
	return nil, false
}

// Items returns the item node of an array, or nil.
func (n *Node) Items() *Node {
	if n == nil {
		return nil
	}
	return n.items
}

// Schema returns the wire schema the node was derived from. Nodes built with
// the constructors get an equivalent generated schema.
func (n *Node) Schema() *Schema {
	if n == nil {
		return nil
	}
	return n.source
}

func leaf(kind Kind, typ, desc string) *Node {
	return &Node{kind: kind, description: desc, source: &Schema{Type: Types{typ}, Description: desc}}
}

// Boolean returns a boolean node.
func Boolean(desc string) *Node { return leaf(KindBoolean, "boolean", desc) }

// String returns a string node.
func String(desc string) *Node { return leaf(KindString, "string", desc) }

// Number returns a number node.
func Number(desc string) *Node { return leaf(KindNumber, "number", desc) }

// Integer returns an integer node.
func Integer(desc string) *Node { return leaf(KindInteger, "integer", desc) }

// Object returns an object node with the given properties declared in order.
func Object(desc string, props ...Property) *Node {
	src := &Schema{Type: Types{"object"}, Description: desc, Properties: NewProperties()}
	n := &Node{kind: KindObject, description: desc, declared: true, source: src}
	for _, p := range props {
		n.props = append(n.props, p)
		src.Properties.Set(p.Name, p.Node.Schema())
	}
	return n
}

// Array returns an array node. items may be nil.
func Array(desc string, items *Node) *Node {
	return &Node{
		kind:        KindArray,
		description: desc,
		items:       items,
		source:      &Schema{Type: Types{"array"}, Description: desc, Items: items.Schema()},
	}
}

// Other wraps a schema the core does not specialize.
func Other(s *Schema) *Node {
	n := &Node{kind: KindOther, source: s}
	if s != nil {
		n.description = s.Description
	}
	return n
}

// FromSchema converts a wire schema into a node tree. It never fails: shapes
// outside the supported subset become KindOther.
func FromSchema(s *Schema) *Node {
	if s == nil {
		return Other(nil)
	}
	n := &Node{description: s.Description, source: s}
	switch s.Type.Single() {
	case "boolean":
		n.kind = KindBoolean
	case "string":
		n.kind = KindString
	case "number":
		n.kind = KindNumber
	case "integer":
		n.kind = KindInteger
	case "object":
		n.kind = KindObject
		if s.Properties != nil {
			n.declared = true
			n.props = make([]Property, 0, s.Properties.Len())
			s.Properties.Each(func(name string, ps *Schema) {
				n.props = append(n.props, Property{Name: name, Node: FromSchema(ps)})
			})
		}
	case "array":
		n.kind = KindArray
		if s.Items != nil {
			n.items = FromSchema(s.Items)
		}
	default:
		n.kind = KindOther
	}
	return n
}
