// ABOUTME: Entry point for mcp-bridge, the operator CLI
// ABOUTME: Serves the tool registry over HTTP or stdio and probes the gateway

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389/agentcore-bridge/internal/config"
)

// version is set at build time.
var version = "dev"

const banner = `
                       _          _     _
  _ __ ___   ___ _ __ | |__  _ __(_) __| | __ _  ___
 | '_ ' _ \ / __| '_ \| '_ \| '__| |/ _' |/ _' |/ _ \
 | | | | | | (__| |_) | |_) | |  | | (_| | (_| |  __/
 |_| |_| |_|\___| .__/|_.__/|_|  |_|\__,_|\__, |\___|
                |_|                       |___/
`

var rootCmd = &cobra.Command{
	Use:           "mcp-bridge",
	Short:         "Bridge agent action groups and MCP tool targets",
	Long:          `mcp-bridge serves the built-in tool registry over HTTP or stdio and probes a SigV4-protected MCP gateway.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (YAML or TOML); defaults to $MCP_BRIDGE_CONFIG, then environment variables")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath returns the config file to load, or "" to use the environment.
// Priority: --config flag > MCP_BRIDGE_CONFIG env var.
func getConfigPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return os.Getenv("MCP_BRIDGE_CONFIG")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := getConfigPath(cmd)
	if path == "" {
		cfg, err := config.FromEnv()
		if err != nil {
			return nil, fmt.Errorf("loading config from environment: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
