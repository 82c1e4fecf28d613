// ABOUTME: Execute runs a tool handler and always yields a ToolResult.
// ABOUTME: Errors, panics and nil results become isError results before returning.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/agentcore-bridge/internal/mcp"
)

// Execute runs t with args under the tool's timeout. It never returns nil
// and never panics; every failure is reported as an isError result.
func Execute(ctx context.Context, t *Tool, args json.RawMessage) (result *mcp.ToolResult) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			result = mcp.ErrorResult(fmt.Sprintf("Error: tool %s panicked: %v", t.Descriptor.Name, r))
		}
	}()

	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}

	res, err := t.Handler(ctx, args)
	if err != nil {
		return mcp.ErrorResult(fmt.Sprintf("Error: %s", err.Error()))
	}
	if res == nil {
		return mcp.ErrorResult(fmt.Sprintf("Error: tool %s returned no result", t.Descriptor.Name))
	}
	return res
}
