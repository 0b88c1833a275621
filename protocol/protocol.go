// Package protocol holds the MCP wire types the inspector exchanges with a
// server over JSON-RPC 2.0.
package protocol

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"

	"github.com/reoring/toolform/jsonschema"
)

// Version is the MCP protocol revision sent during initialization.
const Version = "2025-03-26"

// JSONRPCVersion is the only JSON-RPC revision spoken.
const JSONRPCVersion = "2.0"

// Method names.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodListTools   = "tools/list"
	MethodCallTool    = "tools/call"
)

// Tool is one entry of a tools/list page.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"inputSchema,omitempty"`
}

// Input returns the tool's parameter schema as a node tree.
func (t *Tool) Input() *jsonschema.Node {
	if t == nil || t.InputSchema == nil {
		return jsonschema.Object("")
	}
	return jsonschema.FromSchema(t.InputSchema)
}

// ListToolsParams are the tools/list params; Cursor selects the page.
type ListToolsParams struct {
	Cursor string `json:"cursor,omitempty"`
}

// ListToolsResult is one page; an empty NextCursor means no further pages.
type ListToolsResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// CallToolParams are the tools/call params.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Implementation names a client or server and its version.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams open a session.
type InitializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      Implementation `json:"clientInfo"`
}

// InitializeResult is the server side of the handshake.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities,omitempty"`
	ServerInfo      Implementation `json:"serverInfo"`
	Instructions    string         `json:"instructions,omitempty"`
}

// Request is a JSON-RPC request. A nil ID makes it a notification.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// NewRequest builds a request with the JSON-RPC version filled in.
func NewRequest(id any, method string, params any) Request {
	return Request{JSONRPC: JSONRPCVersion, ID: id, Method: method, Params: params}
}

// Response is a JSON-RPC response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// RPCError is the error member of a response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// SanitizeArguments returns a copy of args with NaN and infinite numbers
// replaced by nil, the way a browser serializes them. Containers are copied;
// args itself is never modified.
func SanitizeArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	return sanitize(args).(map[string]any)
}

func sanitize(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil
		}
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = sanitize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = sanitize(e)
		}
		return out
	default:
		return v
	}
}
