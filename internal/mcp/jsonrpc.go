// ABOUTME: JSON-RPC 2.0 envelopes, error codes and MCP method payloads.
// ABOUTME: Response holds a raw result so bytes round-trip without reordering.

package mcp

import (
	"encoding/json"
	"fmt"
)

// Version is the only JSON-RPC version accepted or produced.
const Version = "2.0"

// MCP methods handled by the bridge.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
)

// Standard JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// zeroID is echoed when a request carries no usable id.
var zeroID = json.RawMessage("0")

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the JSON-RPC error object. It doubles as a Go error so a code
// supplied upstream survives being passed along unmodified.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// ToolInfo is one entry of a tools/list result.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResult is the result for tools/list.
type ListToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

// CallToolParams are the params for tools/call.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// EchoID returns id unchanged, or 0 when it is absent or null.
func EchoID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 || string(id) == "null" {
		return zeroID
	}
	return id
}

// NewResult builds a successful response. The result is serialized eagerly
// so the response can be written identically by every delivery mode.
func NewResult(id json.RawMessage, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return &Response{
		JSONRPC: Version,
		ID:      EchoID(id),
		Result:  raw,
	}, nil
}

// NewError builds an error response.
func NewError(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      EchoID(id),
		Error:   &Error{Code: code, Message: message},
	}
}

// Valid reports whether exactly one of result and error is populated.
func (r *Response) Valid() bool {
	hasResult := len(r.Result) > 0
	return hasResult != (r.Error != nil)
}
