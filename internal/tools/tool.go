// ABOUTME: Tool types: a static descriptor plus the in-process handler that runs it.
// ABOUTME: Handlers receive the raw argument object and return a ToolResult.

package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2389/agentcore-bridge/internal/mcp"
)

// Handler executes a tool. Returning an error is equivalent to returning an
// isError result carrying the error text.
type Handler func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error)

// Descriptor is the read-only catalog entry advertised by tools/list.
type Descriptor struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Info converts the descriptor to its tools/list wire form.
func (d Descriptor) Info() mcp.ToolInfo {
	schema := d.InputSchema
	if len(schema) == 0 {
		schema = emptyObjectSchema
	}
	return mcp.ToolInfo{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: schema,
	}
}

// Tool pairs a descriptor with its handler.
type Tool struct {
	Descriptor Descriptor
	Handler    Handler

	// Timeout bounds one execution. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds a tool execution when the tool sets none.
const DefaultTimeout = 30 * time.Second

var emptyObjectSchema = json.RawMessage(`{"type":"object"}`)
