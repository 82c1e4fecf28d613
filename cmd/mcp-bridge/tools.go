// ABOUTME: tools list and tools call probe the configured gateway with signed requests.
// ABOUTME: Responses are printed as received so upstream error codes stay visible.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/agentcore-bridge/internal/action"
	"github.com/2389/agentcore-bridge/internal/logging"
	"github.com/2389/agentcore-bridge/internal/mcp"
	"github.com/2389/agentcore-bridge/internal/toolname"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Probe the gateway's MCP endpoint",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tools exposed by the gateway",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := gatewayClient(cmd)
		if err != nil {
			return err
		}

		resp, err := client.ListTools(cmd.Context())
		if err != nil {
			return fmt.Errorf("tools/list: %w", err)
		}

		if names, _ := cmd.Flags().GetBool("names"); names && resp.Error == nil {
			var result mcp.ListToolsResult
			if err := json.Unmarshal(resp.Result, &result); err != nil {
				return fmt.Errorf("decoding tools/list result: %w", err)
			}
			cyan := color.New(color.FgCyan)
			for _, t := range result.Tools {
				cyan.Print(t.Name)
				fmt.Printf("  %s\n", t.Description)
			}
			return nil
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

var toolsCallCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Call a tool through the gateway",
	Long: `Calls a tool with tools/call. The name is namespaced with the configured
target unless --raw is given or it already contains the separator.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		name := args[0]
		raw, _ := cmd.Flags().GetBool("raw")
		if !raw && !strings.Contains(name, toolname.Separator) {
			if cfg.Gateway.Target == "" {
				return fmt.Errorf("gateway target is required to namespace %q (or pass --raw)", name)
			}
			name = toolname.Namespace(cfg.Gateway.Target, name)
		}

		arguments := map[string]any{}
		if argJSON, _ := cmd.Flags().GetString("args"); argJSON != "" {
			if err := json.Unmarshal([]byte(argJSON), &arguments); err != nil {
				return fmt.Errorf("parsing --args: %w", err)
			}
		}

		client, err := gatewayClient(cmd)
		if err != nil {
			return err
		}

		color.New(color.FgHiBlack).Fprintf(cmd.ErrOrStderr(), "tools/call %s -> %s\n", name, client.URL())

		resp, err := client.CallTool(cmd.Context(), name, arguments)
		if err != nil {
			return fmt.Errorf("tools/call: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func gatewayClient(cmd *cobra.Command) (*mcp.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Gateway.Endpoint == "" {
		return nil, fmt.Errorf("gateway endpoint is required")
	}
	logger := logging.New(cfg.Logging, os.Stderr)
	return action.NewGatewayClient(cmd.Context(), cfg.Gateway, logger)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	toolsListCmd.Flags().Bool("names", false, "print tool names and descriptions only")
	toolsCallCmd.Flags().String("args", "", "tool arguments as a JSON object")
	toolsCallCmd.Flags().Bool("raw", false, "send the tool name without the target prefix")

	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsCallCmd)
	rootCmd.AddCommand(toolsCmd)
}
