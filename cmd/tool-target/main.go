// ABOUTME: Lambda entry point for the gateway tool target.
// ABOUTME: Dispatches gateway-metadata, JSON-RPC and enveloped events, optionally streaming.

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/2389/agentcore-bridge/internal/builtins"
	"github.com/2389/agentcore-bridge/internal/config"
	"github.com/2389/agentcore-bridge/internal/dispatch"
	"github.com/2389/agentcore-bridge/internal/logging"
	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/metrics"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger := logging.New(config.Default().Logging, os.Stdout)
		logger.Error("tool target config invalid", "error", err)
		lambda.Start(misconfiguredHandler(err))
		return
	}

	logger := logging.New(cfg.Logging, os.Stdout)

	d, err := setup(cfg, logger)
	if err != nil {
		logger.Error("tool target misconfigured", "error", err)
		lambda.Start(misconfiguredHandler(err))
		return
	}

	if cfg.Lambda.ResponseStreaming {
		lambda.Start(streamingHandler(d, logger))
	} else {
		lambda.Start(bufferedHandler(d))
	}
}

func setup(cfg *config.Config, logger *slog.Logger) (*dispatch.Dispatcher, error) {
	reg, err := builtins.Load(context.Background(), cfg.Tools, logger)
	if err != nil {
		return nil, err
	}

	d, err := dispatch.New(dispatch.Config{Registry: reg, Metrics: metrics.New(), Logger: logger})
	if err != nil {
		return nil, err
	}

	logger.Info("tool target ready",
		"tools", reg.Names(),
		"streaming", cfg.Lambda.ResponseStreaming,
	)
	return d, nil
}

// misconfiguredHandler answers every event with a failure in the shape its
// path expects: an isError ToolResult for gateway-metadata events, a -32603
// JSON-RPC error otherwise.
func misconfiguredHandler(err error) func(context.Context, json.RawMessage) (json.RawMessage, error) {
	msg := err.Error()
	return func(ctx context.Context, event json.RawMessage) (json.RawMessage, error) {
		var out any = mcp.NewError(nil, mcp.CodeInternalError, "Internal error: "+msg)
		if dispatch.GatewayToolName(invocation(ctx, event).Metadata) != "" {
			out = mcp.ErrorResult("Error: " + msg)
		}
		return json.Marshal(out)
	}
}

func bufferedHandler(d *dispatch.Dispatcher) func(context.Context, json.RawMessage) (json.RawMessage, error) {
	return func(ctx context.Context, event json.RawMessage) (json.RawMessage, error) {
		return d.Encode(ctx, invocation(ctx, event)), nil
	}
}

func streamingHandler(d *dispatch.Dispatcher, logger *slog.Logger) func(context.Context, json.RawMessage) (*events.LambdaFunctionURLStreamingResponse, error) {
	return func(ctx context.Context, event json.RawMessage) (*events.LambdaFunctionURLStreamingResponse, error) {
		pr, pw := io.Pipe()
		inv := invocation(ctx, event)

		go func() {
			if err := d.Stream(ctx, inv, pw); err != nil {
				logger.Warn("streaming response", "error", err)
			}
		}()

		return &events.LambdaFunctionURLStreamingResponse{
			StatusCode: http.StatusOK,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       pr,
		}, nil
	}
}

// invocation pairs the event with gateway metadata from the Lambda client context.
func invocation(ctx context.Context, event json.RawMessage) dispatch.Invocation {
	inv := dispatch.Invocation{Event: event}
	if lc, ok := lambdacontext.FromContext(ctx); ok && len(lc.ClientContext.Custom) > 0 {
		inv.Metadata = dispatch.NewMetadata(dispatch.KeyClientContext, lc.ClientContext.Custom)
	}
	return inv
}
