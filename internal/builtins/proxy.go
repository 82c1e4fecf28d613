// ABOUTME: Proxy pack forwards configured tools to a remote AWS MCP server.
// ABOUTME: Remote names carry the aws___ prefix; replies are mapped back to ToolResults.

package builtins

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/2389/agentcore-bridge/internal/config"
	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/tools"
	"github.com/2389/agentcore-bridge/internal/transport"
)

// RemotePrefix namespaces tools on the AWS MCP server.
const RemotePrefix = "aws___"

// ToolCaller issues tools/call against the remote server. *mcp.Client implements it.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, arguments map[string]any) (*mcp.Response, error)
}

type searchDocumentationArgs struct {
	SearchPhrase string `json:"search_phrase" jsonschema:"description=Search phrase"`
	Limit        int    `json:"limit,omitempty" jsonschema:"description=Maximum number of results"`
}

type readDocumentationArgs struct {
	URL        string `json:"url" jsonschema:"description=Documentation page URL"`
	MaxLength  int    `json:"max_length,omitempty" jsonschema:"description=Maximum characters to return"`
	StartIndex int    `json:"start_index,omitempty" jsonschema:"description=Character offset to start from"`
}

type recommendArgs struct {
	URL string `json:"url" jsonschema:"description=Documentation page URL"`
}

type callAWSArgs struct {
	CLICommand string `json:"cli_command" jsonschema:"description=AWS CLI command to run"`
}

type suggestCommandsArgs struct {
	Query string `json:"query" jsonschema:"description=What you want to do"`
}

type proxySpec struct {
	description string
	schema      json.RawMessage
}

// Known remote tools; anything else gets a generic description and an open schema.
var proxySpecs = map[string]proxySpec{
	"search_documentation": {"Search AWS documentation", tools.SchemaFor[searchDocumentationArgs]()},
	"read_documentation":   {"Read an AWS documentation page and convert it to markdown", tools.SchemaFor[readDocumentationArgs]()},
	"recommend":            {"Get content recommendations for an AWS documentation page", tools.SchemaFor[recommendArgs]()},
	"call_aws":             {"Execute an AWS CLI command", tools.SchemaFor[callAWSArgs]()},
	"suggest_aws_commands": {"Suggest AWS CLI commands for a natural-language request", tools.SchemaFor[suggestCommandsArgs]()},
}

var openSchema = json.RawMessage(`{"type":"object","additionalProperties":true}`)

// RemoteName returns the name the remote server knows tool by.
func RemoteName(tool string) string {
	if strings.HasPrefix(tool, RemotePrefix) {
		return tool
	}
	return RemotePrefix + tool
}

// ProxyPack returns one forwarding tool per configured name.
func ProxyPack(cfg config.ProxyConfig, caller ToolCaller) []*tools.Tool {
	out := make([]*tools.Tool, 0, len(cfg.Tools))
	for _, name := range cfg.Tools {
		spec, ok := proxySpecs[strings.TrimPrefix(name, RemotePrefix)]
		if !ok {
			spec = proxySpec{
				description: "Proxy to AWS MCP tool " + RemoteName(name),
				schema:      openSchema,
			}
		}
		out = append(out, &tools.Tool{
			Descriptor: tools.Descriptor{
				Name:        name,
				Description: spec.description,
				InputSchema: spec.schema,
			},
			Handler: proxyHandler(caller, RemoteName(name)),
			Timeout: cfg.Timeout,
		})
	}
	return out
}

func proxyHandler(caller ToolCaller, remote string) tools.Handler {
	return func(ctx context.Context, args json.RawMessage) (*mcp.ToolResult, error) {
		arguments := map[string]any{}
		if err := tools.DecodeArgs(args, &arguments); err != nil {
			return nil, err
		}

		resp, err := caller.CallTool(ctx, remote, arguments)
		if err != nil {
			var statusErr *transport.StatusError
			if errors.As(err, &statusErr) {
				return mcp.ErrorResult(fmt.Sprintf("AWS MCP Server error: %d - %s",
					statusErr.StatusCode, string(statusErr.Body))), nil
			}
			return nil, err
		}

		if resp.Error != nil {
			return mcp.ErrorResult("MCP Error: " + resp.Error.Message), nil
		}
		return proxyResult(resp.Result), nil
	}
}

// proxyResult relays the remote result's content segments, or the whole
// result as one segment when it has none.
func proxyResult(result json.RawMessage) *mcp.ToolResult {
	content := gjson.GetBytes(result, "content")
	if !content.IsArray() {
		var buf bytes.Buffer
		if len(result) == 0 || json.Compact(&buf, result) != nil {
			return mcp.TextResult("null")
		}
		return mcp.TextResult(buf.String())
	}

	out := &mcp.ToolResult{
		IsError: gjson.GetBytes(result, "isError").Bool(),
		Content: []mcp.Content{},
	}
	for _, seg := range content.Array() {
		text := seg.Get("text")
		var s string
		switch {
		case text.Type == gjson.String:
			s = text.Str
		case text.Exists():
			s = text.Raw
		}
		out.Content = append(out.Content, mcp.Content{Type: mcp.ContentTypeText, Text: s})
	}
	return out
}
