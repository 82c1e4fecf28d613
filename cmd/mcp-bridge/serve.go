// ABOUTME: serve and stdio commands expose the tool registry to MCP clients.
// ABOUTME: serve prints the startup banner; stdio keeps stdout clean for JSON-RPC.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/agentcore-bridge/internal/builtins"
	"github.com/2389/agentcore-bridge/internal/dispatch"
	"github.com/2389/agentcore-bridge/internal/logging"
	"github.com/2389/agentcore-bridge/internal/metrics"
	"github.com/2389/agentcore-bridge/internal/server"
	"github.com/2389/agentcore-bridge/internal/stdio"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool registry over HTTP",
	Long: `Starts an HTTP server exposing the dispatcher:

  POST /mcp          buffered JSON-RPC or gateway-metadata calls
  POST /mcp/stream   same payload, flushed as it is written
  GET  /health       liveness
  GET  /metrics      Prometheus metrics (when enabled)

Gateway metadata may be supplied in the X-Amz-Client-Context header.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cyan := color.New(color.FgCyan)
		cyan.Print(banner)
		gray := color.New(color.FgHiBlack)
		gray.Printf("    version: %s\n\n", version)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.HTTPAddr = addr
		}

		logger := logging.New(cfg.Logging, os.Stdout)

		var m *metrics.Metrics
		if cfg.Metrics.Enabled {
			m = metrics.New()
		}

		reg, err := builtins.Load(ctx, cfg.Tools, logger)
		if err != nil {
			return err
		}

		d, err := dispatch.New(dispatch.Config{Registry: reg, Metrics: m, Logger: logger})
		if err != nil {
			return fmt.Errorf("creating dispatcher: %w", err)
		}

		srv, err := server.New(server.Config{
			Addr:        cfg.Server.HTTPAddr,
			Dispatcher:  d,
			Metrics:     m,
			MetricsPath: cfg.Metrics.Path,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		green := color.New(color.FgGreen)
		green.Print("    ▶ ")
		fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
		green.Print("    ▶ ")
		fmt.Printf("Tools:     ")
		cyan.Printf("%d", reg.Len())
		fmt.Printf(" %v\n", reg.Names())
		if m != nil {
			green.Print("    ▶ ")
			fmt.Printf("Metrics:   %s\n", cfg.Metrics.Path)
		}
		fmt.Println()

		return srv.Run(ctx)
	},
}

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the tool registry as an MCP server on stdin/stdout",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// stdout carries JSON-RPC; logs go to stderr.
		logger := logging.New(cfg.Logging, os.Stderr)

		reg, err := builtins.Load(ctx, cfg.Tools, logger)
		if err != nil {
			return err
		}

		logger.Info("starting stdio MCP server", "tools", reg.Names())
		return stdio.New(reg, version, nil, logger).Listen(ctx, os.Stdin, os.Stdout)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.http_addr)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stdioCmd)
}
