// ABOUTME: Tests for Challenge construction and validation.
// ABOUTME: Covers end date derivation and rejected inputs.
package models

import (
	"testing"
	"time"
)

func TestNewChallenge(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := NewChallenge("user-1", "100 Days", 100, start)
	if err != nil {
		t.Fatalf("NewChallenge: %v", err)
	}

	if c.ID.String() == "" {
		t.Error("expected UUID to be set")
	}
	if c.Status != StatusNone {
		t.Errorf("Status = %q, want inert", c.Status)
	}
	wantEnd := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	if !c.EndDate.Equal(wantEnd) {
		t.Errorf("EndDate = %v, want %v", c.EndDate, wantEnd)
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestNewChallengeSingleDayEndDate(t *testing.T) {
	start := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	c, err := NewChallenge("user-1", "one day", 1, start)
	if err != nil {
		t.Fatalf("NewChallenge: %v", err)
	}
	if !c.EndDate.Equal(start) {
		t.Errorf("EndDate = %v, want start date for 1-day challenge", c.EndDate)
	}
}

func TestNewChallengeRejectsInvalidInput(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		title    string
		duration int
	}{
		{"empty title", "", 30},
		{"whitespace title", "   ", 30},
		{"zero duration", "ok", 0},
		{"negative duration", "ok", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChallenge("user-1", tt.title, tt.duration, start); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestIsValidChallengeStatus(t *testing.T) {
	for _, s := range []string{"", "active", "completed", "paused", "archived"} {
		if !IsValidChallengeStatus(s) {
			t.Errorf("IsValidChallengeStatus(%q) = false, want true", s)
		}
	}
	if IsValidChallengeStatus("done") {
		t.Error("IsValidChallengeStatus(done) = true, want false")
	}
}
