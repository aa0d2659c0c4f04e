// ABOUTME: Ally model for support-network contacts.
// ABOUTME: Notification channels are a closed struct of booleans, not an open map.
package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreferences holds the per-channel notification switches for an
// ally. A closed record type gives compile-time coverage of every channel.
type NotificationPreferences struct {
	Email    bool `json:"email"`
	SMS      bool `json:"sms"`
	Phone    bool `json:"phone"`
	Telegram bool `json:"telegram"`
	Slack    bool `json:"slack"`
	Discord  bool `json:"discord"`
	Push     bool `json:"push"`
}

// Ally is a support-network contact. Allies belong to a user and are
// independent of any challenge.
type Ally struct {
	ID                      uuid.UUID
	UserID                  string
	Name                    string
	Email                   string
	Role                    *string
	Phone                   *string
	TelegramHandle          *string
	SlackHandle             *string
	DiscordUsername         *string
	NotificationPreferences NotificationPreferences
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// NewAlly creates an ally with generated UUID and email notifications on.
func NewAlly(userID, name, email string) *Ally {
	now := time.Now()
	return &Ally{
		ID:                      uuid.New(),
		UserID:                  userID,
		Name:                    name,
		Email:                   email,
		NotificationPreferences: NotificationPreferences{Email: true},
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// WithRole sets the ally's role.
func (a *Ally) WithRole(role string) *Ally {
	a.Role = &role
	return a
}
