// ABOUTME: Catalog assembles the static tool registry from configuration.
// ABOUTME: Built once at process start and shared by every delivery surface.

package builtins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/2389/agentcore-bridge/internal/config"
	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/tools"
	"github.com/2389/agentcore-bridge/internal/transport"
)

// ErrProxyCallerRequired is returned when the proxy pack is enabled without a caller.
var ErrProxyCallerRequired = errors.New("proxy tools enabled but no remote caller configured")

// Catalog builds the registry for cfg. proxy may be nil when the proxy pack
// is disabled.
func Catalog(cfg config.ToolsConfig, proxy ToolCaller) (*tools.Registry, error) {
	var all []*tools.Tool

	if cfg.Clock.Enabled {
		all = append(all, ClockPack(cfg.Clock)...)
	}
	if cfg.Proxy.Enabled {
		if proxy == nil {
			return nil, ErrProxyCallerRequired
		}
		all = append(all, ProxyPack(cfg.Proxy, proxy)...)
	}

	reg, err := tools.NewRegistry(all...)
	if err != nil {
		return nil, fmt.Errorf("building tool registry: %w", err)
	}
	return reg, nil
}

// NewProxyClient builds the signed MCP client the proxy pack forwards through.
// It returns nil, nil when the proxy pack is disabled.
func NewProxyClient(ctx context.Context, cfg config.ProxyConfig, logger *slog.Logger) (*mcp.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	signer, err := transport.LoadSigV4(ctx, cfg.Service, cfg.Region, cfg.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("loading AWS MCP credentials: %w", err)
	}
	return mcp.NewClient(mcp.ClientConfig{
		URL:       cfg.Endpoint,
		Transport: signer,
		Logger:    logger,
	})
}

// Load builds the proxy client when needed and assembles the registry.
func Load(ctx context.Context, cfg config.ToolsConfig, logger *slog.Logger) (*tools.Registry, error) {
	var caller ToolCaller
	client, err := NewProxyClient(ctx, cfg.Proxy, logger)
	if err != nil {
		return nil, err
	}
	if client != nil {
		caller = client
	}
	return Catalog(cfg, caller)
}
