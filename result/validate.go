package result

import (
	"encoding/base64"

	"github.com/reoring/toolform"
	"github.com/reoring/toolform/i18n"
)

// Validate checks payload against the current tool result shape. All issues
// are collected; unknown keys pass through.
func Validate(payload any) (*CallToolResult, toolform.Issues) {
	var root toolform.Path
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, toolform.Issues{invalidType(root, "object", payload)}
	}
	var iss toolform.Issues
	out := &CallToolResult{}

	if v, present := obj["_meta"]; present {
		if m, ok := v.(map[string]any); ok {
			out.Meta = m
		} else {
			iss = toolform.AppendIssues(iss, invalidType(root.Field("_meta"), "object", v))
		}
	}
	if v, present := obj["isError"]; present {
		if b, ok := v.(bool); ok {
			out.IsError = b
		} else {
			iss = toolform.AppendIssues(iss, invalidType(root.Field("isError"), "boolean", v))
		}
	}

	cp := root.Field("content")
	raw, present := obj["content"]
	switch items, ok := raw.([]any); {
	case !present:
		iss = toolform.AppendIssues(iss, required(cp))
	case !ok:
		iss = toolform.AppendIssues(iss, invalidType(cp, "array", raw))
	default:
		out.Content = make([]Content, 0, len(items))
		for i, item := range items {
			c, itemIssues := validateContent(cp.Index(i), item)
			iss = toolform.AppendIssues(iss, itemIssues...)
			if len(itemIssues) == 0 {
				out.Content = append(out.Content, c)
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func validateContent(p toolform.Path, v any) (Content, toolform.Issues) {
	m, ok := v.(map[string]any)
	if !ok {
		return Content{}, toolform.Issues{invalidType(p, "object", v)}
	}
	c := Content{Raw: m}
	tp := p.Field("type")
	tv, present := m["type"]
	if !present || tv == nil {
		return c, toolform.Issues{tp.Issue(toolform.CodeDiscriminatorMissing, i18n.T(toolform.CodeDiscriminatorMissing, nil), "allowed", variants)}
	}
	tag, ok := tv.(string)
	if !ok {
		return c, toolform.Issues{invalidType(tp, "string", tv)}
	}
	c.Type = tag

	var iss toolform.Issues
	switch tag {
	case "text":
		c.Text, iss = str(p, m, "text", iss)
	case "image":
		c.Data, iss = base64Str(p, m, "data", iss)
		c.MimeType, iss = str(p, m, "mimeType", iss)
	case "resource":
		var rc *ResourceContents
		rc, iss = validateResource(p.Field("resource"), m["resource"], iss)
		c.Resource = rc
	default:
		it := tp.Issue(toolform.CodeDiscriminatorUnknown, i18n.T(toolform.CodeDiscriminatorUnknown, nil), "allowed", variants, "got", tag)
		it.Hint = "unknown variant: '" + tag + "'"
		iss = toolform.AppendIssues(iss, it)
	}
	return c, iss
}

var variants = []string{"text", "image", "resource"}

func validateResource(p toolform.Path, v any, iss toolform.Issues) (*ResourceContents, toolform.Issues) {
	if v == nil {
		return nil, toolform.AppendIssues(iss, required(p))
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, toolform.AppendIssues(iss, invalidType(p, "object", v))
	}
	rc := &ResourceContents{Raw: m}
	rc.URI, iss = str(p, m, "uri", iss)
	if mt, present := m["mimeType"]; present {
		if s, ok := mt.(string); ok {
			rc.MimeType = s
		} else {
			iss = toolform.AppendIssues(iss, invalidType(p.Field("mimeType"), "string", mt))
		}
	}
	// text contents win over blob contents, as in the protocol's union order
	if t, ok := m["text"].(string); ok {
		rc.Text = &t
		return rc, iss
	}
	if _, present := m["blob"]; present {
		var b string
		before := len(iss)
		b, iss = base64Str(p, m, "blob", iss)
		if len(iss) == before {
			rc.Blob = &b
		}
		return rc, iss
	}
	it := p.Issue(toolform.CodeInvalidUnion, i18n.T(toolform.CodeInvalidUnion, nil), "expected", []string{"text", "blob"})
	it.Hint = "resource needs a string text or a base64 blob"
	return rc, toolform.AppendIssues(iss, it)
}

func str(p toolform.Path, m map[string]any, key string, iss toolform.Issues) (string, toolform.Issues) {
	v, present := m[key]
	if !present {
		return "", toolform.AppendIssues(iss, required(p.Field(key)))
	}
	s, ok := v.(string)
	if !ok {
		return "", toolform.AppendIssues(iss, invalidType(p.Field(key), "string", v))
	}
	return s, iss
}

func base64Str(p toolform.Path, m map[string]any, key string, iss toolform.Issues) (string, toolform.Issues) {
	before := len(iss)
	s, iss := str(p, m, key, iss)
	if len(iss) > before {
		return "", iss
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		it := p.Field(key).Issue(toolform.CodeInvalidFormat, i18n.T(toolform.CodeInvalidFormat, map[string]string{"expected": "base64"}), "format", "base64")
		it.Hint = err.Error()
		return "", toolform.AppendIssues(iss, it)
	}
	return s, iss
}

func required(p toolform.Path) toolform.Issue {
	return toolform.IssueAt(p, toolform.CodeRequired, i18n.T(toolform.CodeRequired, nil), nil)
}

func invalidType(p toolform.Path, expected string, got any) toolform.Issue {
	it := p.Issue(toolform.CodeInvalidType, i18n.T(toolform.CodeInvalidType, map[string]string{"expected": expected}),
		"expected", expected, "got", typeName(got))
	it.Hint = "expected " + expected
	return it
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}
