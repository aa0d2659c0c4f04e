// ABOUTME: Reward model for challenge completion incentives.
// ABOUTME: Rewards move planned -> active -> achieved; achieving stamps proof and time.
package models

import (
	"time"

	"github.com/google/uuid"
)

// RewardStatus represents the state of a reward.
type RewardStatus string

const (
	RewardPlanned  RewardStatus = "planned"
	RewardActive   RewardStatus = "active"
	RewardAchieved RewardStatus = "achieved"
)

// IsValidRewardStatus checks if a string is a known reward status.
func IsValidRewardStatus(s string) bool {
	switch RewardStatus(s) {
	case RewardPlanned, RewardActive, RewardAchieved:
		return true
	}
	return false
}

// Reward is an incentive scoped to a single challenge.
type Reward struct {
	ID          uuid.UUID
	ChallengeID uuid.UUID
	UserID      string
	Title       string
	Description *string
	Status      RewardStatus
	ProofURL    *string
	AchievedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewReward creates a reward in the planned state.
func NewReward(challengeID uuid.UUID, userID, title string) *Reward {
	now := time.Now()
	return &Reward{
		ID:          uuid.New(),
		ChallengeID: challengeID,
		UserID:      userID,
		Title:       title,
		Status:      RewardPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithDescription sets the description.
func (r *Reward) WithDescription(desc string) *Reward {
	r.Description = &desc
	return r
}

// Achieve marks the reward achieved at the given time, recording proof if any.
func (r *Reward) Achieve(at time.Time, proofURL string) {
	r.Status = RewardAchieved
	r.AchievedAt = &at
	if proofURL != "" {
		r.ProofURL = &proofURL
	}
	r.UpdatedAt = at
}
