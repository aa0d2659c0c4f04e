// ABOUTME: CLI stats command: completion progress and phase breakdown
// ABOUTME: for the active challenge.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress for the active challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := trk.CurrentChallenge()
		if !ok {
			return fmt.Errorf("no active challenge")
		}

		stats := trk.Stats()
		faint := color.New(color.Faint)

		fmt.Printf("%s\n", color.New(color.Bold).Sprint(c.Title))
		fmt.Printf("%s\n", faint.Sprintf("%s to %s",
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02")))
		fmt.Println()
		fmt.Printf("  Days logged   %d / %d (%.0f%%)\n",
			stats.CompletedBeats, stats.TotalBeats, stats.CompletionPercent())
		fmt.Printf("  Rewards       %d\n", stats.RewardsCount)
		fmt.Println()

		fmt.Println("  Phases")
		for _, p := range trk.Phases() {
			marker := faint.Sprint("·")
			if p.IsActive {
				marker = color.YellowString("▶")
			}
			label := fmt.Sprintf("phase %d", p.Number)
			if p.IsFinal {
				label = "final"
			}
			fmt.Printf("  %s %s %s\n", marker,
				padRight(label, 10),
				faint.Sprintf("days %d-%d", p.StartDay, p.EndDay))
		}

		if !c.StartDate.After(time.Now()) {
			return nil
		}
		fmt.Println()
		fmt.Printf("  Starts %s.\n", c.StartDate.Format("2006-01-02"))
		return nil
	},
}

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "Show the phase breakdown for the active challenge",
	Long: `Show the phases of the active challenge. Short challenges get a main
phase and a final day; a 365-day challenge is split into quarters plus the
final day. A phase is active while it still has unfinished days you have
already reached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := trk.CurrentChallenge()
		if !ok {
			return fmt.Errorf("no active challenge")
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s\n", color.New(color.Bold).Sprint(c.Title))
		for _, p := range trk.Phases() {
			marker := faint.Sprint("·")
			if p.IsActive {
				marker = color.YellowString("▶")
			}
			label := fmt.Sprintf("phase %d", p.Number)
			if p.IsFinal {
				label = "final"
			}
			fmt.Printf("%s %s %s\n", marker,
				padRight(label, 10),
				faint.Sprintf("days %d-%d", p.StartDay, p.EndDay))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(phasesCmd)
}
