// ABOUTME: Root Cobra command for stepbox CLI.
// ABOUTME: Opens the store and tracker in PersistentPreRunE, closes after.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stepbox/stepbox/internal/config"
	"github.com/stepbox/stepbox/internal/events"
	"github.com/stepbox/stepbox/internal/store"
	boxsync "github.com/stepbox/stepbox/internal/sync"
	"github.com/stepbox/stepbox/internal/tracker"
)

var (
	appConfig *config.Config
	dataStore store.Store
	bus       *events.MemoryBus
	trk       *tracker.Tracker
	logger    *log.Logger

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "stepbox",
	Short: "Daily challenge tracker",
	Long: `stepBox tracks daily challenges: fixed-length campaigns of one beat per day.

QUICK START:

  $ stepbox challenge create "75 days of running" --days 75   # Start a challenge
  $ stepbox log 1 "ran 5km in the rain"                       # Log day 1
  $ stepbox stats                                             # See progress
  $ stepbox reward add "New running shoes"                    # Plan a reward

CHALLENGES:

  One challenge is active at a time. Creating your first challenge activates
  it; switch with 'stepbox challenge activate <id>'. Deleting a challenge
  removes its daily log and rewards with it.

SYNC:

  Push your data to a stepBox sync server (one-way, best effort):

  $ stepbox sync config --server https://sync.example.com
  $ stepbox sync now

MCP INTEGRATION:

  Run 'stepbox mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "stepbox": { "command": "stepbox", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data lives in a local badger store at ~/.local/share/stepbox.
  Config is at ~/.config/stepbox/config.json.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger = log.New(os.Stderr)
		if verbose {
			logger.SetLevel(log.DebugLevel)
		} else {
			logger.SetLevel(log.WarnLevel)
		}

		var err error
		appConfig, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dataStore, err = appConfig.OpenStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}

		// The serve command runs over the bare store; no tracker needed.
		if cmd.Name() == "serve" {
			return nil
		}

		opts := []tracker.Option{tracker.WithLogger(logger)}
		syncCfg, err := boxsync.LoadConfig()
		if err != nil {
			logger.Warn("sync config unreadable, sync disabled", "err", err)
		} else if syncCfg.IsConfigured() {
			opts = append(opts, tracker.WithSyncClient(boxsync.NewClient(syncCfg.Server, logger)))
		}

		bus = events.NewMemoryBus()
		trk, err = tracker.New(dataStore, bus, appConfig.GetUserID(), opts...)
		if err != nil {
			dataStore.Close()
			return fmt.Errorf("load tracker: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dataStore != nil {
			return dataStore.Close()
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
