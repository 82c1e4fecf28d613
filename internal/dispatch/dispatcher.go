// ABOUTME: Dispatcher classifies inbound tool-target events and runs them against the registry.
// ABOUTME: Buffered and streamed delivery share one payload function and emit identical bytes.

package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/metrics"
	"github.com/2389/agentcore-bridge/internal/toolname"
	"github.com/2389/agentcore-bridge/internal/tools"
)

// Classification paths, also used as log and metric labels.
const (
	PathGateway  = "gateway"
	PathJSONRPC  = "jsonrpc"
	PathEnvelope = "envelope"
	PathInvalid  = "invalid"
)

const (
	msgMissingToolName = "Missing tool name in gateway context"
	msgEmptyRequest    = "Invalid Request: empty or unrecognized event"
	msgMissingJSONRPC  = "Invalid Request: missing jsonrpc 2.0"
	msgMethodNotFound  = "Method not found"
)

// Invocation is one inbound event plus its out-of-band metadata.
type Invocation struct {
	// Event is the raw event: a tool argument object, a JSON-RPC request,
	// or an envelope with a body field.
	Event json.RawMessage

	// Metadata carries the client context, if any.
	Metadata json.RawMessage
}

// Config holds configuration for a Dispatcher.
type Config struct {
	Registry *tools.Registry
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Dispatcher routes events to tools. It holds no per-invocation state and is
// safe for concurrent use.
type Dispatcher struct {
	registry *tools.Registry
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Registry == nil {
		return nil, errors.New("tool registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: cfg.Registry,
		metrics:  cfg.Metrics,
		logger:   logger,
	}, nil
}

// Encode is buffered delivery: the serialized payload for inv.
func (d *Dispatcher) Encode(ctx context.Context, inv Invocation) []byte {
	return d.payload(ctx, inv)
}

// Stream is streamed delivery: it writes the serialized payload for inv to w
// and then closes w.
func (d *Dispatcher) Stream(ctx context.Context, inv Invocation, w io.WriteCloser) error {
	data := d.payload(ctx, inv)
	_, writeErr := w.Write(data)
	closeErr := w.Close()
	if writeErr != nil {
		return fmt.Errorf("writing response: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing response: %w", closeErr)
	}
	return nil
}

func (d *Dispatcher) payload(ctx context.Context, inv Invocation) []byte {
	out := d.Dispatch(ctx, inv)
	data, err := json.Marshal(out)
	if err != nil {
		d.logger.Error("encoding dispatch result", "error", err)
		data, _ = json.Marshal(mcp.NewError(nil, mcp.CodeInternalError, "Internal error: "+err.Error()))
	}
	return data
}

// Dispatch classifies inv and returns either a *mcp.ToolResult (gateway
// metadata path) or a *mcp.Response (every other path). It never returns nil.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) (out any) {
	requestID := uuid.New().String()
	log := d.logger.With("request_id", requestID)
	path := PathInvalid

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic dispatching event", "path", path, "panic", r)
			out = mcp.NewError(nil, mcp.CodeInternalError, fmt.Sprintf("Internal error: %v", r))
		}
		d.metrics.ObserveDispatch(path, outcome(out))
	}()

	if name := GatewayToolName(inv.Metadata); name != "" {
		path = PathGateway
		log.Info("dispatching gateway tool call", "path", path, "tool_name", name)
		return d.gatewayCall(ctx, log, name, inv.Event)
	}

	event := gjson.ParseBytes(inv.Event)
	if !event.IsObject() {
		log.Warn("unrecognized event", "path", path)
		return mcp.NewError(nil, mcp.CodeInvalidRequest, msgEmptyRequest)
	}

	if v := event.Get("jsonrpc"); v.Type == gjson.String && v.Str == mcp.Version {
		path = PathJSONRPC
		log.Debug("dispatching raw JSON-RPC event", "path", path)
		return d.process(ctx, log, inv.Event)
	}

	if body := event.Get("body"); body.Exists() && body.Type != gjson.Null && !(body.Type == gjson.String && body.Str == "") {
		path = PathEnvelope
		log.Debug("dispatching enveloped body", "path", path)
		if body.Type == gjson.String {
			return d.process(ctx, log, json.RawMessage(body.Str))
		}
		return d.process(ctx, log, json.RawMessage(body.Raw))
	}

	log.Warn("unrecognized event", "path", path)
	return mcp.NewError(nil, mcp.CodeInvalidRequest, msgEmptyRequest)
}

// ProcessRequest handles one JSON-RPC request body.
func (d *Dispatcher) ProcessRequest(ctx context.Context, body json.RawMessage) (resp *mcp.Response) {
	log := d.logger.With("request_id", uuid.New().String())
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic processing request", "panic", r)
			resp = mcp.NewError(nil, mcp.CodeInternalError, fmt.Sprintf("Internal error: %v", r))
		}
	}()
	return d.process(ctx, log, body)
}

func (d *Dispatcher) process(ctx context.Context, log *slog.Logger, body json.RawMessage) *mcp.Response {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return mcp.NewError(nil, mcp.CodeInvalidRequest, msgMissingJSONRPC)
		}
		log.Warn("request body is not valid JSON", "error", err)
		return mcp.NewError(nil, mcp.CodeInternalError, "Internal error: "+err.Error())
	}
	if fields == nil {
		return mcp.NewError(nil, mcp.CodeInvalidRequest, msgEmptyRequest)
	}

	id := fields["id"]

	var version string
	if err := json.Unmarshal(fields["jsonrpc"], &version); err != nil || version != mcp.Version {
		log.Warn("rejecting request without jsonrpc 2.0")
		return mcp.NewError(id, mcp.CodeInvalidRequest, msgMissingJSONRPC)
	}

	var method string
	_ = json.Unmarshal(fields["method"], &method)

	switch method {
	case mcp.MethodToolsList:
		return d.listTools(id)
	case mcp.MethodToolsCall:
		return d.callTool(ctx, log, id, fields["params"])
	default:
		log.Warn("method not found", "method", method)
		return mcp.NewError(id, mcp.CodeMethodNotFound, msgMethodNotFound)
	}
}

func (d *Dispatcher) listTools(id json.RawMessage) *mcp.Response {
	descs := d.registry.Descriptors()
	infos := make([]mcp.ToolInfo, len(descs))
	for i, desc := range descs {
		infos[i] = desc.Info()
	}
	return d.result(id, mcp.ListToolsResult{Tools: infos})
}

func (d *Dispatcher) callTool(ctx context.Context, log *slog.Logger, id, rawParams json.RawMessage) *mcp.Response {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if len(rawParams) > 0 {
		if err := json.Unmarshal(rawParams, &params); err != nil {
			return mcp.NewError(id, mcp.CodeInternalError, "Internal error: "+err.Error())
		}
	}

	tool, ok := d.registry.Lookup(toolname.Resolve(params.Name))
	if !ok {
		log.Warn("tool not found", "tool_name", params.Name)
		return mcp.NewError(id, mcp.CodeMethodNotFound, msgMethodNotFound+": "+params.Name)
	}

	return d.result(id, d.execute(ctx, log, tool, params.Arguments))
}

func (d *Dispatcher) gatewayCall(ctx context.Context, log *slog.Logger, fullName string, args json.RawMessage) *mcp.ToolResult {
	name := toolname.Resolve(fullName)
	if name == "" {
		return mcp.ErrorResult(msgMissingToolName)
	}
	tool, ok := d.registry.Lookup(name)
	if !ok {
		log.Warn("tool not found", "tool_name", name)
		return mcp.ErrorResult(msgMethodNotFound + ": " + name)
	}
	return d.execute(ctx, log, tool, args)
}

func (d *Dispatcher) execute(ctx context.Context, log *slog.Logger, tool *tools.Tool, args json.RawMessage) *mcp.ToolResult {
	start := time.Now()
	res := tools.Execute(ctx, tool, args)
	elapsed := time.Since(start)

	d.metrics.ObserveTool(tool.Descriptor.Name, res.IsError, elapsed)
	log.Info("tool executed",
		"tool_name", tool.Descriptor.Name,
		"is_error", res.IsError,
		"duration", elapsed,
	)
	return res
}

func (d *Dispatcher) result(id json.RawMessage, v any) *mcp.Response {
	resp, err := mcp.NewResult(id, v)
	if err != nil {
		return mcp.NewError(id, mcp.CodeInternalError, "Internal error: "+err.Error())
	}
	return resp
}

func outcome(out any) string {
	switch v := out.(type) {
	case *mcp.Response:
		if v != nil && v.Error != nil {
			return "error"
		}
	case *mcp.ToolResult:
		if v != nil && v.IsError {
			return "error"
		}
	}
	return "ok"
}
