// ABOUTME: MotivationalStatement model for why-I-started reminders.
// ABOUTME: Statements are user-global unless bound to a single challenge.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MotivationalStatement is a user-authored motivation. A nil ChallengeID makes
// the statement user-global; otherwise it is scoped to one challenge.
type MotivationalStatement struct {
	ID            uuid.UUID
	UserID        string
	ChallengeID   *uuid.UUID
	Title         string
	Statement     string
	Why           *string
	Collaboration *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewStatement creates a user-global motivational statement.
func NewStatement(userID, title, statement string) *MotivationalStatement {
	now := time.Now()
	return &MotivationalStatement{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Statement: statement,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithChallenge scopes the statement to a single challenge.
func (s *MotivationalStatement) WithChallenge(challengeID uuid.UUID) *MotivationalStatement {
	s.ChallengeID = &challengeID
	return s
}

// WithWhy sets the underlying reason.
func (s *MotivationalStatement) WithWhy(why string) *MotivationalStatement {
	s.Why = &why
	return s
}

// WithCollaboration sets the collaboration note.
func (s *MotivationalStatement) WithCollaboration(c string) *MotivationalStatement {
	s.Collaboration = &c
	return s
}
