// ABOUTME: CLI commands for the support network.
// ABOUTME: Add, list, and remove allies with contact handles.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stepbox/stepbox/internal/models"
	"github.com/stepbox/stepbox/internal/tracker"
)

var (
	allyRole     string
	allyPhone    string
	allyTelegram string
	allySlack    string
	allyDiscord  string
	allyNotify   []string
)

var allyCmd = &cobra.Command{
	Use:   "ally",
	Short: "Manage your support network",
}

var allyAddCmd = &cobra.Command{
	Use:   "add <name> <email>",
	Short: "Add an ally",
	Long: `Add a person to your support network. Allies span all challenges.

Examples:
  stepbox ally add "Sam Okafor" sam@example.com --role accountability
  stepbox ally add "Ria Patel" ria@example.com --telegram @ria --role cheerleader
  stepbox ally add "Jo Lind" jo@example.com --notify email,telegram`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := tracker.AllyOptions{
			Role:            allyRole,
			Phone:           allyPhone,
			TelegramHandle:  allyTelegram,
			SlackHandle:     allySlack,
			DiscordUsername: allyDiscord,
		}
		if len(allyNotify) > 0 {
			prefs, err := parseNotifyChannels(allyNotify)
			if err != nil {
				return err
			}
			opts.Preferences = prefs
		}

		a, err := trk.AddAlly(args[0], args[1], opts)
		if err != nil {
			return fmt.Errorf("failed to add ally: %w", err)
		}
		color.Green("✓ Added %s to your support network", a.Name)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(a.ID.String()[:8]), a.Email)
		return nil
	},
}

var allyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List allies",
	RunE: func(cmd *cobra.Command, args []string) error {
		allies := trk.Allies()
		if len(allies) == 0 {
			fmt.Println("No allies yet. Add one with 'stepbox ally add'.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, a := range allies {
			role := ""
			if a.Role != nil && *a.Role != "" {
				role = *a.Role
			}
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(a.ID.String()[:8]),
				padRight(a.Name, 22),
				padRight(role, 14),
				faint.Sprint(a.Email))
		}
		return nil
	},
}

var allyRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an ally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveAllyID(args[0])
		if err != nil {
			return err
		}
		found, err := trk.DeleteAlly(id)
		if err != nil {
			return fmt.Errorf("failed to remove ally: %w", err)
		}
		if !found {
			return fmt.Errorf("ally not found: %s", args[0])
		}
		color.Green("✓ Removed ally")
		return nil
	},
}

func parseNotifyChannels(channels []string) (*models.NotificationPreferences, error) {
	prefs := &models.NotificationPreferences{}
	for _, ch := range channels {
		switch strings.ToLower(strings.TrimSpace(ch)) {
		case "email":
			prefs.Email = true
		case "sms":
			prefs.SMS = true
		case "phone":
			prefs.Phone = true
		case "telegram":
			prefs.Telegram = true
		case "slack":
			prefs.Slack = true
		case "discord":
			prefs.Discord = true
		case "push":
			prefs.Push = true
		default:
			return nil, fmt.Errorf("unknown notification channel %q", ch)
		}
	}
	return prefs, nil
}

func resolveAllyID(idOrPrefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return id, nil
	}

	var found uuid.UUID
	matches := 0
	for _, a := range trk.Allies() {
		if strings.HasPrefix(a.ID.String(), idOrPrefix) {
			found = a.ID
			matches++
		}
	}
	if matches == 0 {
		return uuid.Nil, fmt.Errorf("ally not found: %s", idOrPrefix)
	}
	if matches > 1 {
		return uuid.Nil, fmt.Errorf("ambiguous prefix %s: matches multiple allies", idOrPrefix)
	}
	return found, nil
}

func init() {
	allyAddCmd.Flags().StringVar(&allyRole, "role", "", "their role (accountability, cheerleader, ...)")
	allyAddCmd.Flags().StringVar(&allyPhone, "phone", "", "phone number")
	allyAddCmd.Flags().StringVar(&allyTelegram, "telegram", "", "telegram handle")
	allyAddCmd.Flags().StringVar(&allySlack, "slack", "", "slack handle")
	allyAddCmd.Flags().StringVar(&allyDiscord, "discord", "", "discord username")
	allyAddCmd.Flags().StringSliceVar(&allyNotify, "notify", nil, "notification channels (email, sms, phone, telegram, slack, discord, push)")

	allyCmd.AddCommand(allyAddCmd)
	allyCmd.AddCommand(allyListCmd)
	allyCmd.AddCommand(allyRmCmd)
	rootCmd.AddCommand(allyCmd)
}
