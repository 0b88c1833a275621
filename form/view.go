package form

// View is a serializable description of a rendered field.
type View struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Widget      string `json:"widget"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Text        string `json:"text"`
	Checked     bool   `json:"checked,omitempty"`
	Children    []View `json:"children,omitempty"`
}

// Widget names used in View.
const (
	WidgetCheckbox = "checkbox"
	WidgetTextarea = "textarea"
	WidgetNumber   = "number"
	WidgetGroup    = "group"
	WidgetJSON     = "json"
)

// Describe converts a field tree into views.
func Describe(f Field) View {
	v := View{ID: f.ID(), Text: f.Display()}
	switch t := f.(type) {
	case *BoolField:
		v.Widget, v.Label, v.Checked = WidgetCheckbox, t.Label, t.Checked
	case *TextField:
		v.Widget, v.Placeholder = WidgetTextarea, t.Placeholder
	case *NumberField:
		v.Widget, v.Placeholder = WidgetNumber, t.Placeholder
	case *ObjectField:
		v.Widget, v.Label = WidgetGroup, t.Title
		for _, p := range t.Properties {
			c := Describe(p.Field)
			c.Name = p.Name
			v.Children = append(v.Children, c)
		}
	default:
		v.Widget = WidgetJSON
	}
	return v
}

// DescribeParams describes top-level parameter fields.
func DescribeParams(params []Property) []View {
	out := make([]View, 0, len(params))
	for _, p := range params {
		v := Describe(p.Field)
		v.Name = p.Name
		out = append(out, v)
	}
	return out
}
