// ABOUTME: CLI commands for challenge lifecycle: create, list, activate,
// ABOUTME: update, and delete with cascade.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stepbox/stepbox/internal/tracker"
)

var (
	challengeDays  int
	challengeStart string
	challengeDesc  string

	updateTitle string
	updateDesc  string

	deleteYes bool
)

var challengeCmd = &cobra.Command{
	Use:     "challenge",
	Aliases: []string{"ch"},
	Short:   "Manage challenges",
}

var challengeCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new challenge",
	Long: `Create a new challenge with one beat per day.

The first challenge you create becomes active automatically. Additional
challenges start inactive; switch with 'stepbox challenge activate'.

Examples:
  stepbox challenge create "75 days of running" --days 75
  stepbox challenge create "Dry January" --days 31 --start 2026-01-01
  stepbox challenge create "Year of reading" --days 365 --description "One chapter a day"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		if challengeStart != "" {
			t, err := time.Parse("2006-01-02", challengeStart)
			if err != nil {
				return fmt.Errorf("invalid start date: %s (want YYYY-MM-DD)", challengeStart)
			}
			start = t
		}

		c, err := trk.CreateChallenge(args[0], challengeDesc, challengeDays, start)
		if err != nil {
			return fmt.Errorf("failed to create challenge: %w", err)
		}

		color.Green("✓ Created %q", c.Title)
		fmt.Printf("  %s %d days, %s to %s\n",
			color.New(color.Faint).Sprint(c.ID.String()[:8]),
			c.Duration,
			c.StartDate.Format("2006-01-02"),
			c.EndDate.Format("2006-01-02"))
		if c.IsActive() {
			fmt.Println("  This challenge is now active.")
		}
		return nil
	},
}

var challengeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		challenges := trk.Challenges()
		if len(challenges) == 0 {
			fmt.Println("No challenges yet. Create one with 'stepbox challenge create'.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, c := range challenges {
			marker := " "
			if c.IsActive() {
				marker = color.GreenString("●")
			}
			status := string(c.Status)
			if status == "" {
				status = "inactive"
			}
			fmt.Printf("%s %s %s %s %s\n",
				marker,
				faint.Sprint(c.ID.String()[:8]),
				padRight(c.Title, 28),
				padRight(status, 10),
				faint.Sprintf("%d days from %s", c.Duration, c.StartDate.Format("2006-01-02")))
		}
		return nil
	},
}

var challengeActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Make a challenge the active one",
	Long: `Make the given challenge the single active challenge.

The previously active challenge becomes inactive, and the daily log, stats,
and rewards commands switch to the new one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveChallengeID(args[0])
		if err != nil {
			return err
		}
		if err := trk.SetChallengeActive(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to activate challenge: %w", err)
		}
		c, ok := trk.CurrentChallenge()
		if !ok || c.ID != id {
			return fmt.Errorf("challenge not found: %s", args[0])
		}
		color.Green("✓ %q is now active", c.Title)
		return nil
	},
}

var challengeUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a challenge's title or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if updateTitle == "" && updateDesc == "" {
			return fmt.Errorf("nothing to update: pass --title and/or --description")
		}
		id, err := resolveChallengeID(args[0])
		if err != nil {
			return err
		}

		upd := tracker.ChallengeUpdate{}
		if updateTitle != "" {
			upd.Title = &updateTitle
		}
		if updateDesc != "" {
			upd.Description = &updateDesc
		}
		found, err := trk.UpdateChallenge(id, upd)
		if err != nil {
			return fmt.Errorf("failed to update challenge: %w", err)
		}
		if !found {
			return fmt.Errorf("challenge not found: %s", args[0])
		}
		color.Green("✓ Updated challenge")
		return nil
	},
}

var challengeDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a challenge and its daily log",
	Long: `Delete a challenge. Its beats, daily log entries, and rewards are
removed with it. If the deleted challenge was active, the next remaining
challenge is promoted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveChallengeID(args[0])
		if err != nil {
			return err
		}
		title, ok := challengeTitle(id)
		if !ok {
			return fmt.Errorf("challenge not found: %s", args[0])
		}

		if !deleteYes {
			fmt.Printf("Delete %q and its entire daily log? [y/N] ", title)
			var answer string
			fmt.Scanln(&answer)
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := trk.DeleteChallenge(id); err != nil {
			return fmt.Errorf("failed to delete challenge: %w", err)
		}
		color.Green("✓ Deleted %q", title)
		return nil
	},
}

// resolveChallengeID matches a full challenge id or an unambiguous prefix.
func resolveChallengeID(idOrPrefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return id, nil
	}

	var found uuid.UUID
	matches := 0
	for _, c := range trk.Challenges() {
		if strings.HasPrefix(c.ID.String(), idOrPrefix) {
			found = c.ID
			matches++
		}
	}
	if matches == 0 {
		return uuid.Nil, fmt.Errorf("challenge not found: %s", idOrPrefix)
	}
	if matches > 1 {
		return uuid.Nil, fmt.Errorf("ambiguous prefix %s: matches multiple challenges", idOrPrefix)
	}
	return found, nil
}

func challengeTitle(id uuid.UUID) (string, bool) {
	for _, c := range trk.Challenges() {
		if c.ID == id {
			return c.Title, true
		}
	}
	return "", false
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	challengeCreateCmd.Flags().IntVarP(&challengeDays, "days", "d", 75, "challenge length in days")
	challengeCreateCmd.Flags().StringVar(&challengeStart, "start", "", "start date (YYYY-MM-DD), defaults to today")
	challengeCreateCmd.Flags().StringVar(&challengeDesc, "description", "", "challenge description")

	challengeUpdateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	challengeUpdateCmd.Flags().StringVar(&updateDesc, "description", "", "new description")

	challengeDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation")

	challengeCmd.AddCommand(challengeCreateCmd)
	challengeCmd.AddCommand(challengeListCmd)
	challengeCmd.AddCommand(challengeActivateCmd)
	challengeCmd.AddCommand(challengeUpdateCmd)
	challengeCmd.AddCommand(challengeDeleteCmd)
	rootCmd.AddCommand(challengeCmd)
}
