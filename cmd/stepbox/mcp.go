// ABOUTME: CLI mcp command: serve the Model Context Protocol over stdio.
// ABOUTME: Exposes read-only tools and resources for AI assistants.
package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stepbox/stepbox/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server over stdio so AI assistants can
read your challenge data. All tools are read-only; changes go through the
regular CLI commands.

CLAUDE DESKTOP CONFIGURATION:

  Add to claude_desktop_config.json:

  {
    "mcpServers": {
      "stepbox": {
        "command": "stepbox",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_challenges   every challenge with status and dates
  get_stats         progress and phases for the active challenge
  get_beat_log      the daily log, whole or for one day
  list_rewards      rewards for a challenge

AVAILABLE RESOURCES:

  stepbox://summary    active challenge overview
  stepbox://today      today's beat and its log entries
  stepbox://snapshot   full data export as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := mcp.NewServer(trk)
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		logger.Info("mcp server starting on stdio")
		if err := srv.Serve(ctx); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
