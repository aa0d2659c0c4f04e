// ABOUTME: Round-trip tests for the record codec.
// ABOUTME: Encode-then-decode must be lossless to second precision for every entity.
package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// second-precision timestamps so RFC 3339 round-trips are exact
var (
	rtCreated = time.Date(2025, 2, 3, 10, 30, 0, 0, time.UTC)
	rtUpdated = time.Date(2025, 2, 4, 18, 45, 12, 0, time.UTC)
)

func TestChallengeRoundTrip(t *testing.T) {
	desc := "daily pages"
	tmpl := "tmpl-7"
	in := Challenge{
		ID:          uuid.New(),
		UserID:      "user-1",
		Title:       "Write every day",
		Description: &desc,
		Duration:    30,
		Status:      StatusActive,
		IsDefault:   true,
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC),
		TemplateID:  &tmpl,
		CreatedAt:   rtCreated,
		UpdatedAt:   rtUpdated,
	}

	out, err := ChallengeFromRecord(in.Record())
	if err != nil {
		t.Fatalf("ChallengeFromRecord: %v", err)
	}
	if out.ID != in.ID || out.Title != in.Title || out.Duration != in.Duration ||
		out.Status != in.Status || !out.IsDefault || *out.Description != desc ||
		*out.TemplateID != tmpl {
		t.Errorf("round trip mangled fields: %+v", out)
	}
	if !out.StartDate.Equal(in.StartDate) || !out.EndDate.Equal(in.EndDate) ||
		!out.CreatedAt.Equal(in.CreatedAt) || !out.UpdatedAt.Equal(in.UpdatedAt) {
		t.Errorf("round trip mangled dates: %+v", out)
	}
}

func TestChallengeRecordInertStatusOmitted(t *testing.T) {
	c := Challenge{ID: uuid.New(), Title: "x", Duration: 1,
		StartDate: rtCreated, EndDate: rtCreated, CreatedAt: rtCreated, UpdatedAt: rtCreated}
	data, err := EncodeChallenges([]Challenge{c})
	if err != nil {
		t.Fatalf("EncodeChallenges: %v", err)
	}
	if strings.Contains(string(data), `"status"`) {
		t.Errorf("inert status serialized: %s", data)
	}
}

func TestBeatRoundTrip(t *testing.T) {
	completedAt := time.Date(2025, 1, 5, 21, 0, 0, 0, time.UTC)
	challengeID := uuid.New()
	in := Beat{
		ID:          BeatID(challengeID, 5),
		ChallengeID: challengeID,
		UserID:      "user-1",
		Date:        time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		DayNumber:   5,
		IsCompleted: true,
		CompletedAt: &completedAt,
		CreatedAt:   rtCreated,
		UpdatedAt:   rtUpdated,
	}

	out, err := BeatFromRecord(in.Record())
	if err != nil {
		t.Fatalf("BeatFromRecord: %v", err)
	}
	if out.ID != in.ID || out.ChallengeID != in.ChallengeID || out.DayNumber != 5 || !out.IsCompleted {
		t.Errorf("round trip mangled fields: %+v", out)
	}
	if !out.Date.Equal(in.Date) || !out.CompletedAt.Equal(completedAt) {
		t.Errorf("round trip mangled dates: %+v", out)
	}
}

func TestBeatDetailRoundTrip(t *testing.T) {
	category := "fitness"
	in := BeatDetail{
		ID:        uuid.New(),
		BeatID:    uuid.New(),
		UserID:    "user-1",
		Content:   "ran 5k before work",
		Category:  &category,
		CreatedAt: rtCreated,
		UpdatedAt: rtUpdated,
	}

	out, err := BeatDetailFromRecord(in.Record())
	if err != nil {
		t.Fatalf("BeatDetailFromRecord: %v", err)
	}
	if out.ID != in.ID || out.BeatID != in.BeatID || out.Content != in.Content || *out.Category != category {
		t.Errorf("round trip mangled fields: %+v", out)
	}
}

func TestRewardRoundTrip(t *testing.T) {
	proof := "https://example.com/proof.jpg"
	achievedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	in := Reward{
		ID:          uuid.New(),
		ChallengeID: uuid.New(),
		UserID:      "user-1",
		Title:       "new shoes",
		Status:      RewardAchieved,
		ProofURL:    &proof,
		AchievedAt:  &achievedAt,
		CreatedAt:   rtCreated,
		UpdatedAt:   rtUpdated,
	}

	out, err := RewardFromRecord(in.Record())
	if err != nil {
		t.Fatalf("RewardFromRecord: %v", err)
	}
	if out.Status != RewardAchieved || *out.ProofURL != proof || !out.AchievedAt.Equal(achievedAt) {
		t.Errorf("round trip mangled fields: %+v", out)
	}
}

func TestStatementRoundTrip(t *testing.T) {
	challengeID := uuid.New()
	why := "health"
	in := MotivationalStatement{
		ID:          uuid.New(),
		UserID:      "user-1",
		ChallengeID: &challengeID,
		Title:       "remember why",
		Statement:   "I started this for my kids",
		Why:         &why,
		CreatedAt:   rtCreated,
		UpdatedAt:   rtUpdated,
	}

	out, err := StatementFromRecord(in.Record())
	if err != nil {
		t.Fatalf("StatementFromRecord: %v", err)
	}
	if *out.ChallengeID != challengeID || out.Statement != in.Statement || *out.Why != why {
		t.Errorf("round trip mangled fields: %+v", out)
	}
}

func TestStatementGlobalScope(t *testing.T) {
	in := *NewStatement("user-1", "global", "applies everywhere")
	in.CreatedAt, in.UpdatedAt = rtCreated, rtUpdated

	out, err := StatementFromRecord(in.Record())
	if err != nil {
		t.Fatalf("StatementFromRecord: %v", err)
	}
	if out.ChallengeID != nil {
		t.Errorf("global statement decoded with challenge scope %v", out.ChallengeID)
	}
}

func TestAllyRoundTrip(t *testing.T) {
	tg := "@sam"
	in := Ally{
		ID:             uuid.New(),
		UserID:         "user-1",
		Name:           "Sam",
		Email:          "sam@example.com",
		TelegramHandle: &tg,
		NotificationPreferences: NotificationPreferences{
			Email: true, Telegram: true, Push: true,
		},
		CreatedAt: rtCreated,
		UpdatedAt: rtUpdated,
	}

	out, err := AllyFromRecord(in.Record())
	if err != nil {
		t.Fatalf("AllyFromRecord: %v", err)
	}
	if out.Name != "Sam" || *out.TelegramHandle != tg {
		t.Errorf("round trip mangled fields: %+v", out)
	}
	if out.NotificationPreferences != in.NotificationPreferences {
		t.Errorf("prefs = %+v, want %+v", out.NotificationPreferences, in.NotificationPreferences)
	}
}

func TestDecodeEmptyCollections(t *testing.T) {
	cs, err := DecodeChallenges(nil)
	if err != nil {
		t.Fatalf("DecodeChallenges(nil): %v", err)
	}
	if len(cs) != 0 {
		t.Errorf("expected empty slice, got %d", len(cs))
	}

	bs, err := DecodeBeats([]byte("[]"))
	if err != nil {
		t.Fatalf("DecodeBeats([]): %v", err)
	}
	if len(bs) != 0 {
		t.Errorf("expected empty slice, got %d", len(bs))
	}
}
