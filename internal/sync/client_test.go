// ABOUTME: Tests for the sync client against a fake upsert endpoint.
// ABOUTME: Covers report decoding, transport failures, and payload totals.
package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/models"
)

func TestPayloadTotal(t *testing.T) {
	p := Payload{
		Challenges: make([]models.ChallengeRecord, 2),
		Beats:      make([]models.BeatRecord, 5),
		Rewards:    make([]models.RewardRecord, 1),
	}
	if p.Total() != 8 {
		t.Errorf("Total = %d, want 8", p.Total())
	}
}

func TestPushDecodesReport(t *testing.T) {
	var received Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != SyncPath {
			t.Errorf("path = %s, want %s", r.URL.Path, SyncPath)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		report := Report{
			Success: true,
			Results: map[string]EntityResult{
				EntityChallenges: {Success: 1, Errors: []string{}},
			},
			Summary: Summary{TotalSynced: 1},
		}
		_ = json.NewEncoder(w).Encode(report)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	p := Payload{Challenges: []models.ChallengeRecord{{ID: uuid.NewString(), Title: "x"}}}

	report, err := client.Push(context.Background(), p)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if !report.Success || report.Summary.TotalSynced != 1 {
		t.Errorf("report = %+v", report)
	}
	if len(received.Challenges) != 1 {
		t.Errorf("server received %d challenges, want 1", len(received.Challenges))
	}
}

func TestPushTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL, nil)
	if _, err := client.Push(context.Background(), Payload{}); err == nil {
		t.Error("expected transport error, got nil")
	}
}

func TestPushServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	if _, err := client.Push(context.Background(), Payload{}); err == nil {
		t.Error("expected error on 500 response, got nil")
	}
}
