// ABOUTME: action replays a captured agent invocation through the action bridge.
// ABOUTME: Prints the response envelope the Lambda would have returned.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389/agentcore-bridge/internal/action"
	"github.com/2389/agentcore-bridge/internal/logging"
	"github.com/2389/agentcore-bridge/internal/metrics"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Run the action bridge against a captured agent invocation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("event")
		inv, err := readInvocation(path, cmd.InOrStdin())
		if err != nil {
			return err
		}

		logger := logging.New(cfg.Logging, os.Stderr)
		bridge, err := action.Load(cmd.Context(), cfg, metrics.New(), logger)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), bridge.Handle(cmd.Context(), inv))
	},
}

// readInvocation decodes an invocation from path, or from stdin when path is "-".
func readInvocation(path string, stdin io.Reader) (*action.Invocation, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading event: %w", err)
	}

	var inv action.Invocation
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parsing event: %w", err)
	}
	return &inv, nil
}

func init() {
	actionCmd.Flags().StringP("event", "e", "-", "agent invocation JSON file (- for stdin)")
	rootCmd.AddCommand(actionCmd)
}
