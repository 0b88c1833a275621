// Package toolform is the schema-directed core of an MCP tool inspector.
//
// It provides:
//
// - Default value synthesis from a JSON-Schema subset (synth)
// - An editable value tree that mirrors the schema with copy-on-write updates (form)
// - Validation and classification of tool call results into render plans (result)
// - A single-flight invocation controller and tool catalog (invoke)
//
// Design policy:
// - Keep the shared error model (Issue/Issues) and Path in the root package.
// - Put the schema model under jsonschema/, the generic editor under fallback/,
//   MCP wire types under protocol/ and the HTTP client under mcpclient/.
// - The CLI lives in cmd/toolform.
//
// Typical usage:
//
//	node, err := jsonschema.Load("tool.json")
//	params := synth.Parameters(node)
//	field := form.Render(node, nil, params, func(v any) { params = v.(map[string]any) })
//	plan := result.Classify(payload)
package toolform
