// ABOUTME: Translates MCP tool-call replies into agent action responses.
// ABOUTME: Failures still produce a well-formed envelope with an {"error": ...} body.

package action

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/2389/agentcore-bridge/internal/mcp"
)

// NewResponse builds the response envelope for inv with the given body.
// Session attributes are copied from the invocation, defaulting to empty.
func NewResponse(inv *Invocation, body string) *Response {
	resp := &Response{
		MessageVersion:          MessageVersion,
		SessionAttributes:       map[string]string{},
		PromptSessionAttributes: map[string]string{},
	}
	resp.Response.FunctionResponse.ResponseBody.Text.Body = body

	if inv == nil {
		return resp
	}
	resp.Response.ActionGroup = inv.ActionGroup
	resp.Response.Function = inv.Function
	for k, v := range inv.SessionAttributes {
		resp.SessionAttributes[k] = v
	}
	for k, v := range inv.PromptSessionAttributes {
		resp.PromptSessionAttributes[k] = v
	}
	return resp
}

// ErrorResponse builds a response whose body is {"error": msg}.
func ErrorResponse(inv *Invocation, msg string) *Response {
	body, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		body = []byte(`{"error":"Unknown error"}`)
	}
	return NewResponse(inv, string(body))
}

// FromMCP translates a JSON-RPC reply into the agent response for inv.
func FromMCP(inv *Invocation, reply *mcp.Response) *Response {
	if reply.Error != nil {
		return ErrorResponse(inv, "MCP Error: "+reply.Error.Message)
	}
	return NewResponse(inv, ResultText(reply.Result))
}

// ResultText renders a tools/call result as a single string. When the result
// carries a content array, each segment's text is joined by newlines; a
// segment with no text contributes its own JSON. Any other result is returned
// as its JSON serialization.
func ResultText(result json.RawMessage) string {
	if len(result) == 0 {
		return "null"
	}

	content := gjson.GetBytes(result, "content")
	if !content.IsArray() {
		return compact(result)
	}

	segments := content.Array()
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		text := seg.Get("text")
		switch {
		case text.Type == gjson.String && text.Str != "":
			parts = append(parts, text.Str)
		case text.Type == gjson.JSON, text.Type == gjson.True,
			text.Type == gjson.Number && text.Num != 0:
			parts = append(parts, text.Raw)
		default:
			parts = append(parts, compact(json.RawMessage(seg.Raw)))
		}
	}
	return strings.Join(parts, "\n")
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
