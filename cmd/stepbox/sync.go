// ABOUTME: CLI sync commands: configure the sync server, push a snapshot,
// ABOUTME: and show sync status.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	boxsync "github.com/stepbox/stepbox/internal/sync"
)

var (
	syncServer   string
	syncUser     string
	syncAutoSync bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync data to a stepBox server",
	Long: `Push your local data to a stepBox sync server. Sync is one-way: the
local store is the source of truth and the server upserts what it receives.

Examples:
  stepbox sync config --server https://sync.example.com
  stepbox sync now
  stepbox sync status`,
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Push everything to the sync server",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := trk.SyncToDatabase(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		if report.Summary.TotalFailed == 0 {
			color.Green("✓ Synced %d records", report.Summary.TotalSynced)
		} else {
			color.Yellow("⚠ Synced %d records, %d failed",
				report.Summary.TotalSynced, report.Summary.TotalFailed)
		}

		faint := color.New(color.Faint)
		for _, entity := range []string{
			boxsync.EntityChallenges, boxsync.EntityBeats, boxsync.EntityDetails,
			boxsync.EntityRewards, boxsync.EntityStatements,
		} {
			res, ok := report.Results[entity]
			if !ok {
				continue
			}
			line := fmt.Sprintf("  %s %d ok", padRight(entity, 24), res.Success)
			if res.Failed > 0 {
				line += color.YellowString(", %d failed", res.Failed)
			}
			fmt.Println(line)
			for _, e := range res.Errors {
				fmt.Printf("    %s\n", faint.Sprint(e))
			}
		}
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := boxsync.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to read sync config: %w", err)
		}

		faint := color.New(color.Faint)
		if !cfg.IsConfigured() {
			fmt.Println("Sync is not configured. Run 'stepbox sync config --server <url>'.")
			return nil
		}
		fmt.Printf("Server     %s\n", cfg.Server)
		if cfg.UserID != "" {
			fmt.Printf("User       %s\n", cfg.UserID)
		}
		fmt.Printf("Device     %s\n", faint.Sprint(cfg.DeviceID))
		fmt.Printf("Auto-sync  %v\n", cfg.AutoSync)
		return nil
	},
}

var syncConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure the sync server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := boxsync.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to read sync config: %w", err)
		}

		if syncServer != "" {
			cfg.Server = syncServer
		}
		if syncUser != "" {
			cfg.UserID = syncUser
		}
		if cmd.Flags().Changed("auto") {
			cfg.AutoSync = syncAutoSync
		}
		if !cfg.IsConfigured() {
			return fmt.Errorf("no server set: pass --server <url>")
		}

		if err := boxsync.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save sync config: %w", err)
		}
		color.Green("✓ Sync configured for %s", cfg.Server)
		return nil
	},
}

func init() {
	syncConfigCmd.Flags().StringVar(&syncServer, "server", "", "sync server base URL")
	syncConfigCmd.Flags().StringVar(&syncUser, "user", "", "user id on the sync server")
	syncConfigCmd.Flags().BoolVar(&syncAutoSync, "auto", false, "push automatically after changes")

	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncConfigCmd)
	rootCmd.AddCommand(syncCmd)
}
