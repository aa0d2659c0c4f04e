// ABOUTME: Pure completion stats and phase segmentation for grid display.
// ABOUTME: Completion derives from detail presence, never the legacy beat flag.
package tracker

import (
	"time"

	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/models"
)

// Stats are the derived counters for one challenge.
type Stats struct {
	TotalBeats     int `json:"totalBeats"`
	CompletedBeats int `json:"completedBeats"`
	RewardsCount   int `json:"rewardsCount"`
}

// CompletionPercent returns completed beats as a percentage of total.
func (s Stats) CompletionPercent() float64 {
	if s.TotalBeats == 0 {
		return 0
	}
	return float64(s.CompletedBeats) / float64(s.TotalBeats) * 100
}

// CompletedBeatIDs returns the set of beat ids that have at least one detail.
func CompletedBeatIDs(details []models.BeatDetail) map[uuid.UUID]bool {
	completed := make(map[uuid.UUID]bool, len(details))
	for _, d := range details {
		completed[d.BeatID] = true
	}
	return completed
}

// CalculateStats computes the challenge counters. A beat counts as completed
// iff at least one detail references its id.
func CalculateStats(beats []models.Beat, details []models.BeatDetail, rewards []models.Reward) Stats {
	completed := CompletedBeatIDs(details)
	s := Stats{TotalBeats: len(beats), RewardsCount: len(rewards)}
	for _, b := range beats {
		if completed[b.ID] {
			s.CompletedBeats++
		}
	}
	return s
}

// Phase is a display-oriented grouping of consecutive beats.
type Phase struct {
	Number   int  `json:"number"`
	StartDay int  `json:"startDay"`
	EndDay   int  `json:"endDay"`
	IsFinal  bool `json:"isFinal"`
	IsActive bool `json:"isActive"`
}

// Phases segments a challenge for grid display. The final day is always its
// own phase so the UI can give it distinct treatment. 365-day challenges get
// four 91-day phases plus the final day, capping any grid at 91 cells; every
// other multi-day duration gets one long phase plus the final day.
func Phases(c models.Challenge, beats []models.Beat, details []models.BeatDetail, now time.Time) []Phase {
	var phases []Phase
	switch {
	case c.Duration <= 1:
		phases = []Phase{{Number: 1, StartDay: 1, EndDay: 1, IsFinal: true}}
	case c.Duration == 365:
		phases = []Phase{
			{Number: 1, StartDay: 1, EndDay: 91},
			{Number: 2, StartDay: 92, EndDay: 182},
			{Number: 3, StartDay: 183, EndDay: 273},
			{Number: 4, StartDay: 274, EndDay: 364},
			{Number: 5, StartDay: 365, EndDay: 365, IsFinal: true},
		}
	default:
		phases = []Phase{
			{Number: 1, StartDay: 1, EndDay: c.Duration - 1},
			{Number: 2, StartDay: c.Duration, EndDay: c.Duration, IsFinal: true},
		}
	}

	elapsed := elapsedDays(c.StartDate, now)
	completed := CompletedBeatIDs(details)
	for i := range phases {
		phases[i].IsActive = phaseHasOutstandingWork(phases[i], beats, completed, elapsed)
	}
	return phases
}

// phaseHasOutstandingWork reports whether any beat in the phase's day range
// is a present-or-past day still missing a detail.
func phaseHasOutstandingWork(p Phase, beats []models.Beat, completed map[uuid.UUID]bool, elapsed int) bool {
	for _, b := range beats {
		if b.DayNumber < p.StartDay || b.DayNumber > p.EndDay {
			continue
		}
		if !completed[b.ID] && b.DayNumber <= elapsed {
			return true
		}
	}
	return false
}

// elapsedDays counts calendar days from the start date through now,
// inclusive: 1 on the start date itself, 0 before it.
func elapsedDays(start, now time.Time) int {
	sy, sm, sd := start.Date()
	ny, nm, nd := now.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	n := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	if n.Before(s) {
		return 0
	}
	return int(n.Sub(s).Hours()/24) + 1
}
