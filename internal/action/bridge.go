// ABOUTME: Bridge forwards one agent invocation to the gateway as a namespaced tools/call.
// ABOUTME: Handle never fails: every error path yields a well-formed action response.

package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/metrics"
	"github.com/2389/agentcore-bridge/internal/toolname"
	"github.com/2389/agentcore-bridge/internal/transport"
)

// ToolCaller issues a tools/call against the gateway. *mcp.Client implements it.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, arguments map[string]any) (*mcp.Response, error)
}

// Config holds configuration for a Bridge.
type Config struct {
	// Target is the gateway target that namespaces every forwarded tool name.
	Target  string
	Caller  ToolCaller
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Bridge translates action-group invocations into gateway tool calls.
type Bridge struct {
	target  string
	caller  ToolCaller
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewBridge creates a Bridge.
func NewBridge(cfg Config) (*Bridge, error) {
	if cfg.Target == "" {
		return nil, errors.New("target name is required")
	}
	if cfg.Caller == nil {
		return nil, errors.New("tool caller is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		target:  cfg.Target,
		caller:  cfg.Caller,
		metrics: cfg.Metrics,
		logger:  logger,
	}, nil
}

// Handle forwards inv and translates the reply. At most one forward attempt
// is made; retries are the caller's concern.
func (b *Bridge) Handle(ctx context.Context, inv *Invocation) (resp *Response) {
	requestID := uuid.New().String()
	start := time.Now()
	log := b.logger.With("request_id", requestID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic handling action invocation", "panic", r)
			resp = ErrorResponse(inv, fmt.Sprintf("%v", r))
			b.metrics.ObserveForward("panic", time.Since(start))
		}
	}()

	if inv == nil {
		return ErrorResponse(nil, "empty invocation")
	}

	name := toolname.Namespace(b.target, inv.Function)
	args := CoerceArguments(inv.Parameters)

	log.Info("forwarding tool call",
		"action_group", inv.ActionGroup,
		"function", inv.Function,
		"tool_name", name,
		"session_id", inv.SessionID,
		"arg_count", len(args),
	)

	reply, err := b.caller.CallTool(ctx, name, args)
	if err != nil {
		msg := forwardErrorMessage(err)
		log.Error("gateway call failed", "tool_name", name, "error", err)
		b.metrics.ObserveForward("transport_error", time.Since(start))
		return ErrorResponse(inv, msg)
	}

	if reply.Error != nil {
		log.Warn("gateway returned MCP error",
			"tool_name", name,
			"code", reply.Error.Code,
			"error", reply.Error.Message,
		)
		b.metrics.ObserveForward("mcp_error", time.Since(start))
		return FromMCP(inv, reply)
	}

	b.metrics.ObserveForward("ok", time.Since(start))
	log.Debug("tool call completed", "tool_name", name, "duration", time.Since(start))
	return FromMCP(inv, reply)
}

func forwardErrorMessage(err error) string {
	var statusErr *transport.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Gateway call failed: %d %s", statusErr.StatusCode, statusErr.Reason())
	}
	return err.Error()
}
