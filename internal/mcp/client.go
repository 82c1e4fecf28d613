// ABOUTME: HTTP client for a remote MCP endpoint over the signed transport.
// ABOUTME: One forward attempt per call; no retries.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/2389/agentcore-bridge/internal/transport"
)

// ClientConfig holds configuration for a Client.
type ClientConfig struct {
	URL       string
	Transport transport.Transport
	IDs       IDSource
	Logger    *slog.Logger
}

// Client calls tools on a remote MCP endpoint.
type Client struct {
	url       string
	transport transport.Transport
	ids       IDSource
	logger    *slog.Logger
}

// NewClient creates a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("endpoint URL is required")
	}
	if cfg.Transport == nil {
		return nil, errors.New("transport is required")
	}

	ids := cfg.IDs
	if ids == nil {
		ids = NewClockIDs()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		url:       cfg.URL,
		transport: cfg.Transport,
		ids:       ids,
		logger:    logger,
	}, nil
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Call sends req and decodes the JSON-RPC response. Transport failures and
// non-2xx replies are returned as errors; a JSON-RPC error object is not an
// error here and is left on the response with its code intact.
func (c *Client) Call(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	c.logger.Debug("sending MCP request",
		"url", c.url,
		"method", req.Method,
		"id", string(req.ID),
	)

	reply, err := c.transport.Post(ctx, c.url, body)
	if err != nil {
		return nil, err
	}
	if err := reply.Err(); err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(reply.Body, &resp); err != nil {
		return nil, fmt.Errorf("decoding MCP response: %w", err)
	}

	if resp.Error != nil {
		c.logger.Debug("MCP error response",
			"method", req.Method,
			"code", resp.Error.Code,
			"message", resp.Error.Message,
		)
	}
	return &resp, nil
}

// CallTool invokes tools/call for name with arguments.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (*Response, error) {
	req, err := NewToolCallRequest(c.ids.Next(), name, arguments)
	if err != nil {
		return nil, fmt.Errorf("encoding arguments: %w", err)
	}
	return c.Call(ctx, req)
}

// ListTools invokes tools/list.
func (c *Client) ListTools(ctx context.Context) (*Response, error) {
	return c.Call(ctx, NewListToolsRequest(c.ids.Next()))
}
