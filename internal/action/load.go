// ABOUTME: Builds a Bridge wired to the signed gateway client described by config.
// ABOUTME: Shared by the Lambda entry point and the local replay command.

package action

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/2389/agentcore-bridge/internal/config"
	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/metrics"
	"github.com/2389/agentcore-bridge/internal/transport"
)

// NewGatewayClient builds the SigV4-signed MCP client for the configured gateway.
func NewGatewayClient(ctx context.Context, cfg config.GatewayConfig, logger *slog.Logger) (*mcp.Client, error) {
	signer, err := transport.LoadSigV4(ctx, cfg.Service, cfg.Region, cfg.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("loading gateway credentials: %w", err)
	}
	return mcp.NewClient(mcp.ClientConfig{
		URL:       cfg.MCPURL(),
		Transport: signer,
		Logger:    logger,
	})
}

// Load validates the gateway settings and builds a Bridge over a signed client.
func Load(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*Bridge, error) {
	if err := cfg.RequireGateway(); err != nil {
		return nil, err
	}
	client, err := NewGatewayClient(ctx, cfg.Gateway, logger)
	if err != nil {
		return nil, err
	}
	return NewBridge(Config{
		Target:  cfg.Gateway.Target,
		Caller:  client,
		Metrics: m,
		Logger:  logger,
	})
}
