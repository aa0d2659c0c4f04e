// ABOUTME: Beat model and deterministic beat generation from challenge parameters.
// ABOUTME: A beat is one calendar day within a challenge, numbered 1..duration.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// beatNamespace is the fixed namespace for deterministic beat IDs.
var beatNamespace = uuid.MustParse("8f3c1d9a-6b2e-4f70-9c45-d1a0b7e25c18")

// Beat represents one calendar day within a challenge.
//
// IsCompleted and CompletedAt are legacy fields kept for compatibility with
// the stored record shape; completion for stats purposes is derived from the
// presence of at least one BeatDetail referencing the beat.
type Beat struct {
	ID          uuid.UUID
	ChallengeID uuid.UUID
	UserID      string
	Date        time.Time
	DayNumber   int
	IsCompleted bool
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeatID derives the beat UUID as a pure function of challenge and day number.
// Regenerating beats for the same challenge always yields identical IDs, so a
// second generation pass can never introduce duplicate semantic beats.
func BeatID(challengeID uuid.UUID, dayNumber int) uuid.UUID {
	return uuid.NewSHA1(beatNamespace, []byte(fmt.Sprintf("%s:%d", challengeID, dayNumber)))
}

// GenerateBeats produces the full ordered beat sequence for a challenge.
// Pure and idempotent: day i (0-based) gets DayNumber i+1 and
// Date = StartDate + i calendar days. AddDate keeps dates correct across DST
// transitions where 24h multiples would drift.
func GenerateBeats(c Challenge) []Beat {
	now := time.Now()
	beats := make([]Beat, 0, c.Duration)
	for i := 0; i < c.Duration; i++ {
		beats = append(beats, Beat{
			ID:          BeatID(c.ID, i+1),
			ChallengeID: c.ID,
			UserID:      c.UserID,
			Date:        c.StartDate.AddDate(0, 0, i),
			DayNumber:   i + 1,
			IsCompleted: false,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return beats
}
