// ABOUTME: Lambda entry point for the agent action group.
// ABOUTME: Forwards each function call to the gateway as a namespaced tools/call.

package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/2389/agentcore-bridge/internal/action"
	"github.com/2389/agentcore-bridge/internal/config"
	"github.com/2389/agentcore-bridge/internal/logging"
	"github.com/2389/agentcore-bridge/internal/metrics"
)

type handlerFunc func(context.Context, action.Invocation) (*action.Response, error)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger := logging.New(config.Default().Logging, os.Stdout)
		logger.Error("action bridge config invalid", "error", err)
		lambda.Start(misconfiguredHandler(err))
		return
	}

	logger := logging.New(cfg.Logging, os.Stdout)

	bridge, err := action.Load(context.Background(), cfg, metrics.New(), logger)
	if err != nil {
		logger.Error("action bridge misconfigured", "error", err)
		lambda.Start(misconfiguredHandler(err))
		return
	}

	logger.Info("action bridge ready",
		"gateway", cfg.Gateway.MCPURL(),
		"target", cfg.Gateway.Target,
	)

	lambda.Start(bridgeHandler(bridge))
}

func bridgeHandler(bridge *action.Bridge) handlerFunc {
	return func(ctx context.Context, inv action.Invocation) (*action.Response, error) {
		return bridge.Handle(ctx, &inv), nil
	}
}

// misconfiguredHandler answers every invocation with an error body naming err,
// so the agent still receives a well-formed response.
func misconfiguredHandler(err error) handlerFunc {
	msg := err.Error()
	return func(_ context.Context, inv action.Invocation) (*action.Response, error) {
		return action.ErrorResponse(&inv, msg), nil
	}
}
