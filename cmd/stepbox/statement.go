// ABOUTME: CLI commands for motivational statements.
// ABOUTME: Add, list, and remove, optionally scoped to a challenge.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stepbox/stepbox/internal/tracker"
)

var (
	statementWhy       string
	statementCollab    string
	statementChallenge string
)

var statementCmd = &cobra.Command{
	Use:     "statement",
	Aliases: []string{"why"},
	Short:   "Manage motivational statements",
}

var statementAddCmd = &cobra.Command{
	Use:   "add <title> <statement>",
	Short: "Add a motivational statement",
	Long: `Add a motivational statement. Statements belong to you, not to any one
challenge, unless you scope them with --challenge.

Examples:
  stepbox statement add "Why I run" "I want to feel strong at 60"
  stepbox statement add "The deal" "No skipping weekends" --challenge 3fa2
  stepbox statement add "Team effort" "We report in daily" --collaboration "running club"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := tracker.StatementOptions{
			Why:           statementWhy,
			Collaboration: statementCollab,
		}
		if statementChallenge != "" {
			id, err := resolveChallengeID(statementChallenge)
			if err != nil {
				return err
			}
			opts.ChallengeID = &id
		}

		s, err := trk.AddStatement(args[0], args[1], opts)
		if err != nil {
			return fmt.Errorf("failed to add statement: %w", err)
		}
		color.Green("✓ Added statement %q", s.Title)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(s.ID.String()[:8]))
		return nil
	},
}

var statementListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List motivational statements",
	RunE: func(cmd *cobra.Command, args []string) error {
		statements := trk.Statements()
		if len(statements) == 0 {
			fmt.Println("No statements yet.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range statements {
			scope := "all challenges"
			if s.ChallengeID != nil {
				scope = "challenge " + s.ChallengeID.String()[:8]
				if title, ok := challengeTitle(*s.ChallengeID); ok {
					scope = title
				}
			}
			fmt.Printf("%s %s %s\n",
				faint.Sprint(s.ID.String()[:8]),
				padRight(s.Title, 24),
				faint.Sprint(scope))
			fmt.Printf("  %s\n", s.Statement)
			if s.Why != nil && *s.Why != "" {
				fmt.Printf("  %s %s\n", faint.Sprint("why:"), *s.Why)
			}
		}
		return nil
	},
}

var statementRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveStatementID(args[0])
		if err != nil {
			return err
		}
		found, err := trk.DeleteStatement(id)
		if err != nil {
			return fmt.Errorf("failed to remove statement: %w", err)
		}
		if !found {
			return fmt.Errorf("statement not found: %s", args[0])
		}
		color.Green("✓ Removed statement")
		return nil
	},
}

func resolveStatementID(idOrPrefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return id, nil
	}

	var found uuid.UUID
	matches := 0
	for _, s := range trk.Statements() {
		if strings.HasPrefix(s.ID.String(), idOrPrefix) {
			found = s.ID
			matches++
		}
	}
	if matches == 0 {
		return uuid.Nil, fmt.Errorf("statement not found: %s", idOrPrefix)
	}
	if matches > 1 {
		return uuid.Nil, fmt.Errorf("ambiguous prefix %s: matches multiple statements", idOrPrefix)
	}
	return found, nil
}

func init() {
	statementAddCmd.Flags().StringVar(&statementWhy, "why", "", "deeper reason behind the statement")
	statementAddCmd.Flags().StringVar(&statementCollab, "collaboration", "", "who is in on it with you")
	statementAddCmd.Flags().StringVar(&statementChallenge, "challenge", "", "scope to a challenge id or prefix")

	statementCmd.AddCommand(statementAddCmd)
	statementCmd.AddCommand(statementListCmd)
	statementCmd.AddCommand(statementRmCmd)
	rootCmd.AddCommand(statementCmd)
}
