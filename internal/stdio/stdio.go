// ABOUTME: Serves the static tool registry as an MCP server over stdin/stdout.
// ABOUTME: Protocol handling is delegated to mcp-go; execution goes through tools.Execute.

package stdio

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	bridgemcp "github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/metrics"
	"github.com/2389/agentcore-bridge/internal/tools"
)

// ServerName is advertised during MCP initialization.
const ServerName = "agentcore-bridge"

// Server exposes a registry through mcp-go.
type Server struct {
	mcpServer *server.MCPServer
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New registers every tool in reg with a new MCP server.
func New(reg *tools.Registry, version string, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcpServer: server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false)),
		metrics:   m,
		logger:    logger,
	}

	for _, name := range reg.Names() {
		tool, _ := reg.Lookup(name)
		desc := tool.Descriptor.Info()
		s.mcpServer.AddTool(
			mcp.NewToolWithRawSchema(desc.Name, desc.Description, desc.InputSchema),
			s.handler(tool),
		)
	}
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Listen serves JSON-RPC on in/out until ctx is cancelled or in is closed.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(slogWriter{s.logger}, "", 0))
	return stdio.Listen(ctx, in, out)
}

func (s *Server) handler(tool *tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}

		start := time.Now()
		res := tools.Execute(ctx, tool, args)
		elapsed := time.Since(start)

		s.metrics.ObserveTool(tool.Descriptor.Name, res.IsError, elapsed)
		s.logger.Info("tool executed",
			"tool_name", tool.Descriptor.Name,
			"is_error", res.IsError,
			"duration", elapsed,
		)
		return toCallToolResult(res), nil
	}
}

func toCallToolResult(res *bridgemcp.ToolResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(res.Content))
	for _, c := range res.Content {
		content = append(content, mcp.NewTextContent(c.Text))
	}
	return &mcp.CallToolResult{
		Content: content,
		IsError: res.IsError,
	}
}

// slogWriter forwards mcp-go's stdlib logger output into slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Write(p []byte) (int, error) {
	w.logger.Error("stdio server", "message", string(p))
	return len(p), nil
}
