// ABOUTME: CLI commands for the daily log: add, show, edit, and remove
// ABOUTME: beat details on the active challenge.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	logCategory string
)

var logCmd = &cobra.Command{
	Use:     "log <day> <content...>",
	Aliases: []string{"l"},
	Short:   "Log what you did on a day",
	Long: `Add a log entry to a day of the active challenge. A day with at least
one entry counts as completed; removing the last entry reverts it.

Examples:
  stepbox log 1 "ran 5km in the rain"
  stepbox log 12 "rest day stretching" --category recovery
  stepbox log show            # the full daily log
  stepbox log show 12         # one day's entries`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := strconv.Atoi(args[0])
		if err != nil || day < 1 {
			return fmt.Errorf("invalid day number: %s", args[0])
		}
		content := strings.TrimSpace(strings.Join(args[1:], " "))
		if content == "" {
			return fmt.Errorf("log entry must not be empty")
		}

		beat, ok := trk.BeatByDay(day)
		if !ok {
			c, hasCurrent := trk.CurrentChallenge()
			if !hasCurrent {
				return fmt.Errorf("no active challenge")
			}
			return fmt.Errorf("day %d is outside %q (1-%d)", day, c.Title, c.Duration)
		}

		d, err := trk.AddBeatDetail(beat.ID, content, logCategory)
		if err != nil {
			return fmt.Errorf("failed to log entry: %w", err)
		}

		color.Green("✓ Logged day %d", day)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(d.ID.String()[:8]),
			content)
		return nil
	},
}

var logShowCmd = &cobra.Command{
	Use:   "show [day]",
	Short: "Show the daily log",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := trk.CurrentChallenge()
		if !ok {
			return fmt.Errorf("no active challenge")
		}

		var only int
		if len(args) == 1 {
			day, err := strconv.Atoi(args[0])
			if err != nil || day < 1 {
				return fmt.Errorf("invalid day number: %s", args[0])
			}
			only = day
		}

		faint := color.New(color.Faint)
		printed := 0
		for _, b := range trk.Beats() {
			if only > 0 && b.DayNumber != only {
				continue
			}
			details := trk.DetailsForBeat(b.ID)
			if len(details) == 0 && only == 0 {
				continue
			}
			mark := faint.Sprint("·")
			if len(details) > 0 {
				mark = color.GreenString("✓")
			}
			fmt.Printf("%s day %s %s\n", mark,
				padRight(strconv.Itoa(b.DayNumber), 4),
				faint.Sprint(b.Date.Format("2006-01-02")))
			for _, d := range details {
				category := ""
				if d.Category != nil && *d.Category != "" {
					category = faint.Sprintf(" [%s]", *d.Category)
				}
				fmt.Printf("    %s %s%s\n",
					faint.Sprint(d.ID.String()[:8]), d.Content, category)
			}
			printed++
		}
		if printed == 0 {
			fmt.Printf("Nothing logged yet for %q.\n", c.Title)
		}
		return nil
	},
}

var logEditCmd = &cobra.Command{
	Use:   "edit <entry-id> <content...>",
	Short: "Rewrite a log entry",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveDetailID(args[0])
		if err != nil {
			return err
		}
		content := strings.TrimSpace(strings.Join(args[1:], " "))
		if content == "" {
			return fmt.Errorf("log entry must not be empty")
		}

		found, err := trk.UpdateBeatDetail(id, &content, nil)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}
		if !found {
			return fmt.Errorf("entry not found: %s", args[0])
		}
		color.Green("✓ Updated entry")
		return nil
	},
}

var logRmCmd = &cobra.Command{
	Use:   "rm <entry-id>",
	Short: "Remove a log entry",
	Long: `Remove a log entry by ID or ID prefix. When a day loses its last
entry it reverts to incomplete.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveDetailID(args[0])
		if err != nil {
			return err
		}
		found, err := trk.DeleteBeatDetail(id)
		if err != nil {
			return fmt.Errorf("failed to remove entry: %w", err)
		}
		if !found {
			return fmt.Errorf("entry not found: %s", args[0])
		}
		color.Green("✓ Removed entry")
		return nil
	},
}

// resolveDetailID matches a full detail id or an unambiguous prefix within
// the active challenge's log.
func resolveDetailID(idOrPrefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return id, nil
	}

	var found uuid.UUID
	matches := 0
	for _, d := range trk.Details() {
		if strings.HasPrefix(d.ID.String(), idOrPrefix) {
			found = d.ID
			matches++
		}
	}
	if matches == 0 {
		return uuid.Nil, fmt.Errorf("entry not found: %s", idOrPrefix)
	}
	if matches > 1 {
		return uuid.Nil, fmt.Errorf("ambiguous prefix %s: matches multiple entries", idOrPrefix)
	}
	return found, nil
}

func init() {
	logCmd.Flags().StringVarP(&logCategory, "category", "c", "", "entry category")

	logCmd.AddCommand(logShowCmd)
	logCmd.AddCommand(logEditCmd)
	logCmd.AddCommand(logRmCmd)
	rootCmd.AddCommand(logCmd)
}
