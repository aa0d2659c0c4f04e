// ABOUTME: CLI commands for rewards on the active challenge.
// ABOUTME: Plan, list, achieve with proof, and remove.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	rewardDesc  string
	rewardProof string
)

var rewardCmd = &cobra.Command{
	Use:   "reward",
	Short: "Manage rewards for the active challenge",
}

var rewardAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Plan a reward",
	Long: `Plan a reward for finishing the active challenge.

Examples:
  stepbox reward add "New running shoes"
  stepbox reward add "Weekend trip" --description "If I make it past day 50"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := trk.CurrentChallenge()
		if !ok {
			return fmt.Errorf("no active challenge")
		}
		r, err := trk.AddReward(c.ID, args[0], rewardDesc)
		if err != nil {
			return fmt.Errorf("failed to add reward: %w", err)
		}
		color.Green("✓ Planned reward %q", r.Title)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(r.ID.String()[:8]))
		return nil
	},
}

var rewardListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List rewards",
	RunE: func(cmd *cobra.Command, args []string) error {
		rewards := trk.Rewards()
		if len(rewards) == 0 {
			fmt.Println("No rewards planned.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range rewards {
			status := string(r.Status)
			if r.AchievedAt != nil {
				status = color.GreenString("achieved %s", r.AchievedAt.Format("2006-01-02"))
			}
			fmt.Printf("%s %s %s\n",
				faint.Sprint(r.ID.String()[:8]),
				padRight(r.Title, 28),
				status)
		}
		return nil
	},
}

var rewardAchieveCmd = &cobra.Command{
	Use:   "achieve <id>",
	Short: "Mark a reward achieved",
	Long: `Mark a reward achieved, optionally recording a proof URL.

Examples:
  stepbox reward achieve 3fa2
  stepbox reward achieve 3fa2 --proof https://photos.example.com/shoes.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveRewardID(args[0])
		if err != nil {
			return err
		}
		found, err := trk.AchieveReward(id, rewardProof)
		if err != nil {
			return fmt.Errorf("failed to achieve reward: %w", err)
		}
		if !found {
			return fmt.Errorf("reward not found: %s", args[0])
		}
		color.Green("✓ Reward achieved!")
		return nil
	},
}

var rewardRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a reward",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveRewardID(args[0])
		if err != nil {
			return err
		}
		found, err := trk.DeleteReward(id)
		if err != nil {
			return fmt.Errorf("failed to remove reward: %w", err)
		}
		if !found {
			return fmt.Errorf("reward not found: %s", args[0])
		}
		color.Green("✓ Removed reward")
		return nil
	},
}

func resolveRewardID(idOrPrefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return id, nil
	}

	var found uuid.UUID
	matches := 0
	for _, r := range trk.Rewards() {
		if strings.HasPrefix(r.ID.String(), idOrPrefix) {
			found = r.ID
			matches++
		}
	}
	if matches == 0 {
		return uuid.Nil, fmt.Errorf("reward not found: %s", idOrPrefix)
	}
	if matches > 1 {
		return uuid.Nil, fmt.Errorf("ambiguous prefix %s: matches multiple rewards", idOrPrefix)
	}
	return found, nil
}

func init() {
	rewardAddCmd.Flags().StringVar(&rewardDesc, "description", "", "reward description")
	rewardAchieveCmd.Flags().StringVar(&rewardProof, "proof", "", "proof URL")

	rewardCmd.AddCommand(rewardAddCmd)
	rewardCmd.AddCommand(rewardListCmd)
	rewardCmd.AddCommand(rewardAchieveCmd)
	rewardCmd.AddCommand(rewardRmCmd)
	rootCmd.AddCommand(rewardCmd)
}
