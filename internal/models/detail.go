// ABOUTME: BeatDetail model for free-text entries logged against a beat.
// ABOUTME: Presence of at least one detail marks the owning beat complete.
package models

import (
	"time"

	"github.com/google/uuid"
)

// BeatDetail is a logged entry attached to a beat. Content is free text;
// Category is an optional free-text tag.
type BeatDetail struct {
	ID        uuid.UUID
	BeatID    uuid.UUID
	UserID    string
	Content   string
	Category  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBeatDetail creates a detail with generated UUID and current timestamps.
// Callers are expected to reject empty or whitespace-only content before
// constructing a detail.
func NewBeatDetail(beatID uuid.UUID, userID, content string) *BeatDetail {
	now := time.Now()
	return &BeatDetail{
		ID:        uuid.New(),
		BeatID:    beatID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithCategory sets the category tag.
func (d *BeatDetail) WithCategory(category string) *BeatDetail {
	d.Category = &category
	return d
}
