package result

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Classify maps a decoded payload to a plan. The first matching rule wins:
// a content field selects strict validation, a toolResult field selects the
// legacy view, anything else (nil included) has nothing to show. Validation
// failures become a PlanInvalid; Classify never fails.
func Classify(payload any) Plan {
	obj, ok := payload.(map[string]any)
	if !ok {
		return Plan{Kind: PlanNone}
	}
	if _, ok := obj["content"]; ok {
		res, iss := Validate(obj)
		if len(iss) > 0 {
			return Plan{Kind: PlanInvalid, Raw: payload, Issues: iss}
		}
		return render(res)
	}
	if legacy, ok := obj["toolResult"]; ok {
		return Plan{Kind: PlanLegacy, Raw: legacy}
	}
	return Plan{Kind: PlanNone}
}

// ClassifyJSON decodes data and classifies it. Only malformed JSON is an
// error.
func ClassifyJSON(data []byte) (Plan, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return Plan{}, fmt.Errorf("result: decode payload: %w", err)
	}
	return Classify(payload), nil
}

func render(res *CallToolResult) Plan {
	p := Plan{Kind: PlanResult, IsError: res.IsError, Directives: make([]Directive, 0, len(res.Content))}
	for _, c := range res.Content {
		switch c.Type {
		case "text":
			p.Directives = append(p.Directives, Directive{Kind: DirectiveText, Text: c.Text, Error: res.IsError})
		case "image":
			p.Directives = append(p.Directives, Directive{Kind: DirectiveImage, MimeType: c.MimeType, Source: DataURI(c.MimeType, c.Data)})
		case "resource":
			p.Directives = append(p.Directives, resourceDirective(c.Resource))
		}
	}
	return p
}

func resourceDirective(rc *ResourceContents) Directive {
	if strings.HasPrefix(rc.MimeType, "audio/") {
		blob := ""
		if rc.Blob != nil {
			blob = *rc.Blob
		}
		return Directive{Kind: DirectiveAudio, MimeType: rc.MimeType, Source: DataURI(rc.MimeType, blob)}
	}
	return Directive{Kind: DirectiveResource, MimeType: rc.MimeType, Resource: rc.Raw}
}

// DataURI builds a base64 data URI.
func DataURI(mimeType, data string) string {
	return "data:" + mimeType + ";base64," + data
}
