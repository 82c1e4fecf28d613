// Package mcp holds the Model Context Protocol wire contracts shared by the
// client and server sides of the bridge.
//
// # Protocol
//
// MCP uses JSON-RPC 2.0. Two methods are spoken here:
//
//	{"jsonrpc": "2.0", "id": 1, "method": "tools/list", "params": {}}
//	{"jsonrpc": "2.0", "id": 2, "method": "tools/call",
//	 "params": {"name": "current-time-target-v2___getCurrentTime", "arguments": {}}}
//
// A Response carries exactly one of result or error. Tool execution output is
// a ToolResult: an ordered list of text segments plus an optional isError flag.
//
// # Components
//
//   - Request, Response, Error: JSON-RPC envelopes and the standard error codes
//   - ToolResult, Content: tool execution output
//   - NewToolCallRequest, ClockIDs: outbound request construction
//   - Client: signed HTTP client for a remote MCP endpoint
package mcp
