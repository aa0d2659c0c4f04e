// ABOUTME: Storage key builders for the stepBox key space.
// ABOUTME: Keys are derived from userId and, where scoped, challengeId.
package store

import (
	"fmt"

	"github.com/google/uuid"
)

// Key builders for every collection in the store. The layout is part of the
// storage contract: one JSON array value per key, except the default-challenge
// pointer which holds a bare challenge id string.
func ChallengesKey(userID string) string {
	return fmt.Sprintf("challenges:%s", userID)
}

func BeatsKey(userID string, challengeID uuid.UUID) string {
	return fmt.Sprintf("beats:%s:%s", userID, challengeID)
}

func BeatDetailsKey(userID string, challengeID uuid.UUID) string {
	return fmt.Sprintf("beatDetails:%s:%s", userID, challengeID)
}

func RewardsKey(userID string, challengeID uuid.UUID) string {
	return fmt.Sprintf("rewards:%s:%s", userID, challengeID)
}

func StatementsKey(userID string) string {
	return fmt.Sprintf("statements:%s", userID)
}

func AlliesKey(userID string) string {
	return fmt.Sprintf("allies:%s", userID)
}

func DefaultChallengeKey(userID string) string {
	return fmt.Sprintf("defaultChallenge:%s", userID)
}
