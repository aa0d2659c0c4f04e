// ABOUTME: Tests for beat generation and deterministic beat IDs.
// ABOUTME: Covers day numbering, calendar date arithmetic, and idempotence.
package models

import (
	"testing"
	"time"
)

func mustChallenge(t *testing.T, title string, duration int, start time.Time) *Challenge {
	t.Helper()
	c, err := NewChallenge("user-1", title, duration, start)
	if err != nil {
		t.Fatalf("NewChallenge: %v", err)
	}
	return c
}

func TestGenerateBeatsCount(t *testing.T) {
	tests := []struct {
		name     string
		duration int
	}{
		{"single day", 1},
		{"one week", 7},
		{"hundred days", 100},
		{"full year", 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustChallenge(t, "test", tt.duration, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
			beats := GenerateBeats(*c)

			if len(beats) != tt.duration {
				t.Fatalf("len(beats) = %d, want %d", len(beats), tt.duration)
			}
			seen := make(map[int]bool)
			for i, b := range beats {
				if b.DayNumber != i+1 {
					t.Errorf("beats[%d].DayNumber = %d, want %d", i, b.DayNumber, i+1)
				}
				if seen[b.DayNumber] {
					t.Errorf("duplicate day number %d", b.DayNumber)
				}
				seen[b.DayNumber] = true
				if b.IsCompleted {
					t.Errorf("beats[%d] generated as completed", i)
				}
			}
		})
	}
}

func TestGenerateBeatsHundredDayScenario(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := mustChallenge(t, "100 Days", 100, start)
	beats := GenerateBeats(*c)

	if len(beats) != 100 {
		t.Fatalf("len(beats) = %d, want 100", len(beats))
	}
	if !beats[0].Date.Equal(start) {
		t.Errorf("beat #1 date = %v, want %v", beats[0].Date, start)
	}
	want100 := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	if !beats[99].Date.Equal(want100) {
		t.Errorf("beat #100 date = %v, want %v", beats[99].Date, want100)
	}
}

func TestGenerateBeatsCalendarArithmetic(t *testing.T) {
	// Crossing a DST boundary must still advance exactly one calendar day.
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skip("tzdata not available")
	}
	start := time.Date(2025, 3, 8, 0, 0, 0, 0, loc) // DST starts 2025-03-09
	c := mustChallenge(t, "dst", 3, start)
	beats := GenerateBeats(*c)

	for i, b := range beats {
		if b.Date.Day() != 8+i {
			t.Errorf("beats[%d].Date day = %d, want %d", i, b.Date.Day(), 8+i)
		}
		if b.Date.Hour() != 0 {
			t.Errorf("beats[%d].Date hour = %d, want 0", i, b.Date.Hour())
		}
	}
}

func TestGenerateBeatsIdempotent(t *testing.T) {
	c := mustChallenge(t, "repeat", 14, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	first := GenerateBeats(*c)
	second := GenerateBeats(*c)

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("beat %d regenerated with different id: %s vs %s", i+1, first[i].ID, second[i].ID)
		}
		if !first[i].Date.Equal(second[i].Date) {
			t.Errorf("beat %d regenerated with different date", i+1)
		}
	}
}

func TestBeatIDDeterministic(t *testing.T) {
	c1 := mustChallenge(t, "a", 5, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	c2 := mustChallenge(t, "b", 5, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	if BeatID(c1.ID, 1) != BeatID(c1.ID, 1) {
		t.Error("same challenge and day produced different ids")
	}
	if BeatID(c1.ID, 1) == BeatID(c1.ID, 2) {
		t.Error("different days produced the same id")
	}
	if BeatID(c1.ID, 1) == BeatID(c2.ID, 1) {
		t.Error("different challenges produced the same id")
	}
}
