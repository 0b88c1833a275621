// Package result validates MCP tool call results and turns them into render
// plans.
package result

import (
	json "github.com/goccy/go-json"

	"github.com/reoring/toolform"
)

// CallToolResult is a validated current-format tool result.
type CallToolResult struct {
	Content []Content
	IsError bool
	Meta    map[string]any
}

// Content is one validated content item.
type Content struct {
	Type     string // text, image or resource
	Text     string
	Data     string // base64, image only
	MimeType string
	Resource *ResourceContents
	// Raw is the item as received, unknown keys included.
	Raw map[string]any
}

// ResourceContents is the embedded resource of a resource item. Exactly one
// of Text and Blob is set.
type ResourceContents struct {
	URI      string
	MimeType string
	Text     *string
	Blob     *string // base64
	Raw      map[string]any
}

// PlanKind is the outcome of classification.
type PlanKind string

const (
	PlanNone    PlanKind = "none"
	PlanResult  PlanKind = "result"
	PlanInvalid PlanKind = "invalid"
	PlanLegacy  PlanKind = "legacy"
)

// DirectiveKind says how one content item is shown.
type DirectiveKind string

const (
	DirectiveText     DirectiveKind = "text"
	DirectiveImage    DirectiveKind = "image"
	DirectiveAudio    DirectiveKind = "audio"
	DirectiveResource DirectiveKind = "resource"
)

// Directive renders one content item.
type Directive struct {
	Kind DirectiveKind `json:"kind"`
	// Text is the item text for DirectiveText.
	Text string `json:"text,omitempty"`
	// Error selects error styling; it follows the result's isError flag.
	Error bool `json:"error,omitempty"`
	// Source is a data URI for images and audio.
	Source   string `json:"src,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	// Resource is the raw resource object for DirectiveResource.
	Resource map[string]any `json:"resource,omitempty"`
}

// Plan is the render-ready breakdown of a payload.
type Plan struct {
	Kind       PlanKind    `json:"kind"`
	IsError    bool        `json:"isError,omitempty"`
	Directives []Directive `json:"directives,omitempty"`
	// Raw is the whole payload for PlanInvalid and the toolResult value for
	// PlanLegacy.
	Raw    any             `json:"raw,omitempty"`
	Issues toolform.Issues `json:"issues,omitempty"`
}

// MarshalJSON always writes raw for invalid and legacy plans, so a null
// legacy toolResult stays distinguishable from a plan without one.
func (p Plan) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind       PlanKind        `json:"kind"`
		IsError    bool            `json:"isError,omitempty"`
		Directives []Directive     `json:"directives,omitempty"`
		Raw        json.RawMessage `json:"raw,omitempty"`
		Issues     toolform.Issues `json:"issues,omitempty"`
	}
	w := wire{Kind: p.Kind, IsError: p.IsError, Directives: p.Directives, Issues: p.Issues}
	if p.Raw != nil || p.Kind == PlanInvalid || p.Kind == PlanLegacy {
		raw, err := json.Marshal(p.Raw)
		if err != nil {
			return nil, err
		}
		w.Raw = raw
	}
	return json.Marshal(w)
}

// Empty reports whether there is nothing to show.
func (p Plan) Empty() bool { return p.Kind == PlanNone || p.Kind == "" }

// Title is the heading shown above the plan.
func (p Plan) Title() string {
	switch p.Kind {
	case PlanResult:
		if p.IsError {
			return "Tool Result: Error"
		}
		return "Tool Result: Success"
	case PlanInvalid:
		return "Invalid Tool Result"
	case PlanLegacy:
		return "Tool Result (Legacy)"
	default:
		return ""
	}
}
