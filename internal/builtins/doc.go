// Package builtins provides the tools served by the gateway tool target.
//
// # Tool Packs
//
// Clock pack (tools.clock):
//
//   - getCurrentTime: current wall time, e.g. "2024-01-01 12:00:00 JST"
//
// Proxy pack (tools.proxy), disabled by default:
//
//   - one tool per configured name, forwarded to the AWS MCP server as
//     aws___<name> over a SigV4-signed client
//
// # Registration
//
// Build the registry once at process start:
//
//	reg, err := builtins.Load(ctx, cfg.Tools, logger)
//
// or, with an explicit remote caller:
//
//	reg, err := builtins.Catalog(cfg.Tools, client)
//
// # Failure Mapping
//
// Proxy tools report remote failures as isError results:
//
//   - non-2xx reply: "AWS MCP Server error: <status> - <body>"
//   - JSON-RPC error: "MCP Error: <message>"
//   - anything else: "Error: <message>"
package builtins
