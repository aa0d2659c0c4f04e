// ABOUTME: Challenge model and status lifecycle for goal campaigns.
// ABOUTME: A challenge spans a fixed number of daily beats from its start date.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChallengeStatus represents the lifecycle state of a challenge.
// The zero value means the challenge is inert (neither active nor archived).
type ChallengeStatus string

const (
	StatusNone      ChallengeStatus = ""
	StatusActive    ChallengeStatus = "active"
	StatusCompleted ChallengeStatus = "completed"
	StatusPaused    ChallengeStatus = "paused"
	StatusArchived  ChallengeStatus = "archived"
)

// IsValidChallengeStatus checks if a string is a known challenge status.
func IsValidChallengeStatus(s string) bool {
	switch ChallengeStatus(s) {
	case StatusNone, StatusActive, StatusCompleted, StatusPaused, StatusArchived:
		return true
	}
	return false
}

// Challenge represents a goal-tracking campaign with a fixed day count.
// At most one challenge per user may have StatusActive at any time.
type Challenge struct {
	ID          uuid.UUID
	UserID      string
	Title       string
	Description *string
	Duration    int
	Status      ChallengeStatus
	IsDefault   bool
	StartDate   time.Time
	EndDate     time.Time
	TemplateID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewChallenge creates a challenge with generated UUID and derived end date.
// EndDate is startDate + duration - 1 day; this derivation happens only here,
// edits after creation leave EndDate as given.
func NewChallenge(userID, title string, duration int, startDate time.Time) (*Challenge, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("challenge title must not be empty")
	}
	if duration < 1 {
		return nil, fmt.Errorf("challenge duration must be at least 1 day, got %d", duration)
	}
	now := time.Now()
	return &Challenge{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Duration:  duration,
		StartDate: startDate,
		EndDate:   startDate.AddDate(0, 0, duration-1),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// WithDescription sets the description.
func (c *Challenge) WithDescription(desc string) *Challenge {
	c.Description = &desc
	return c
}

// WithTemplateID records the template the challenge was created from.
func (c *Challenge) WithTemplateID(id string) *Challenge {
	c.TemplateID = &id
	return c
}

// IsActive reports whether the challenge is the user's active campaign.
func (c *Challenge) IsActive() bool {
	return c.Status == StatusActive
}
