// ABOUTME: CLI export command: dump all data as json, yaml, csv, or markdown.
// ABOUTME: Writes to stdout or a file with -o.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stepbox/stepbox/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export all data",
	Long: `Export every challenge, its daily log, rewards, and statements.

Formats: json, yaml, csv, markdown

Examples:
  stepbox export json                      # full backup to stdout
  stepbox export markdown -o progress.md   # human-readable report
  stepbox export csv -o log.csv            # one row per challenge day`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "csv", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := trk.Snapshot()
		if err != nil {
			return fmt.Errorf("failed to read data: %w", err)
		}
		now := time.Now()

		var out []byte
		switch args[0] {
		case "json":
			out, err = export.JSON(export.FromSnapshot(snap, now))
		case "yaml":
			out, err = export.YAML(snap, now)
		case "csv":
			out, err = export.CSV(snap)
		case "markdown", "md":
			out = []byte(export.Markdown(snap, now))
		default:
			return fmt.Errorf("unknown format %q (want json, yaml, csv, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput == "" {
			fmt.Print(string(out))
			return nil
		}
		if err := os.WriteFile(exportOutput, out, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		color.Green("✓ Exported to %s", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
