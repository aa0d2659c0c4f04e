// ABOUTME: Tests for the sync server: upsert batches, idempotent replay,
// ABOUTME: per-record failure isolation, health check, and metrics auth.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stepbox/stepbox/internal/events"
	"github.com/stepbox/stepbox/internal/models"
	"github.com/stepbox/stepbox/internal/store"
	boxsync "github.com/stepbox/stepbox/internal/sync"
	"github.com/stepbox/stepbox/internal/tracker"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *store.MemoryStore) {
	t.Helper()
	if cfg == nil {
		cfg = &Config{}
	}
	st := store.NewMemoryStore()
	return New(st, cfg, nil), st
}

// buildPayload creates a realistic snapshot through a tracker and captures
// it through the real client so the wire format matches production traffic.
func buildPayload(t *testing.T) boxsync.Payload {
	t.Helper()

	var payload boxsync.Payload
	capture := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(boxsync.Report{Success: true})
	}))
	defer capture.Close()

	tr, err := tracker.New(store.NewMemoryStore(), events.NewMemoryBus(), "alice",
		tracker.WithSyncClient(boxsync.NewClient(capture.URL, nil)))
	if err != nil {
		t.Fatal(err)
	}
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := tr.CreateChallenge("Daily run", "", 7, start); err != nil {
		t.Fatal(err)
	}
	beat, _ := tr.BeatByDay(1)
	if _, err := tr.AddBeatDetail(beat.ID, "ran 2km", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.SyncToDatabase(t.Context()); err != nil {
		t.Fatal(err)
	}
	return payload
}

func postSync(t *testing.T, srv *Server, payload boxsync.Payload) boxsync.Report {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", boxsync.SyncPath, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync status = %d: %s", rec.Code, rec.Body.String())
	}
	var report boxsync.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	return report
}

func TestSyncUpsertsSnapshot(t *testing.T) {
	srv, st := newTestServer(t, nil)
	payload := buildPayload(t)

	report := postSync(t, srv, payload)
	if !report.Success {
		t.Fatalf("report = %+v", report)
	}
	if report.Summary.TotalSynced != payload.Total() {
		t.Errorf("synced = %d, want %d", report.Summary.TotalSynced, payload.Total())
	}

	data, err := st.Get(store.ChallengesKey("alice"))
	if err != nil {
		t.Fatalf("challenges not stored: %v", err)
	}
	challenges, err := models.DecodeChallenges(data)
	if err != nil || len(challenges) != 1 {
		t.Fatalf("stored challenges = %v, %v", challenges, err)
	}
	if challenges[0].Title != "Daily run" {
		t.Errorf("title = %q", challenges[0].Title)
	}

	data, err = st.Get(store.BeatsKey("alice", challenges[0].ID))
	if err != nil {
		t.Fatalf("beats not stored: %v", err)
	}
	beats, _ := models.DecodeBeats(data)
	if len(beats) != 7 {
		t.Errorf("stored beats = %d, want 7", len(beats))
	}

	data, err = st.Get(store.BeatDetailsKey("alice", challenges[0].ID))
	if err != nil {
		t.Fatalf("details not stored: %v", err)
	}
	details, _ := models.DecodeBeatDetails(data)
	if len(details) != 1 {
		t.Errorf("stored details = %d, want 1", len(details))
	}
}

func TestSyncReplayIsIdempotent(t *testing.T) {
	srv, st := newTestServer(t, nil)
	payload := buildPayload(t)

	postSync(t, srv, payload)
	before, err := st.Get(store.ChallengesKey("alice"))
	if err != nil {
		t.Fatal(err)
	}

	report := postSync(t, srv, payload)
	if !report.Success {
		t.Fatalf("replay report = %+v", report)
	}

	after, err := st.Get(store.ChallengesKey("alice"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("replaying the same payload changed stored state")
	}

	challenges, _ := models.DecodeChallenges(after)
	if len(challenges) != 1 {
		t.Errorf("challenges after replay = %d, want 1", len(challenges))
	}
}

func TestSyncBadRecordDoesNotPoisonBatch(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	payload := buildPayload(t)

	// Corrupt one challenge record; the beats and details must still land.
	payload.Challenges[0].StartDate = "not-a-date"

	report := postSync(t, srv, payload)
	if report.Success {
		t.Error("report should not be fully successful")
	}
	cres := report.Results[boxsync.EntityChallenges]
	if cres.Failed != 1 || len(cres.Errors) != 1 {
		t.Errorf("challenge result = %+v", cres)
	}
	bres := report.Results[boxsync.EntityBeats]
	if bres.Failed != 0 || bres.Success != 7 {
		t.Errorf("beat result = %+v", bres)
	}
	if report.Summary.TotalFailed != 1 {
		t.Errorf("total failed = %d, want 1", report.Summary.TotalFailed)
	}
}

func TestSyncDetailResolvesChallengeFromStoredBeats(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	payload := buildPayload(t)

	// First push the beats, then a detail-only batch referencing them.
	postSync(t, srv, payload)

	detailOnly := boxsync.Payload{BeatDetails: payload.BeatDetails}
	report := postSync(t, srv, detailOnly)
	if !report.Success {
		t.Fatalf("detail-only batch failed: %+v", report)
	}
	if report.Results[boxsync.EntityDetails].Success != 1 {
		t.Errorf("detail result = %+v", report.Results[boxsync.EntityDetails])
	}
}

func TestSyncRejectsMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	req := httptest.NewRequest("POST", boxsync.SyncPath, bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestListChallenges(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	payload := buildPayload(t)
	postSync(t, srv, payload)

	req := httptest.NewRequest("GET", "/api/v1/users/alice/challenges", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var records []models.ChallengeRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Title != "Daily run" {
		t.Errorf("records = %+v", records)
	}

	// Unknown users get an empty list, not an error.
	req = httptest.NewRequest("GET", "/api/v1/users/nobody/challenges", nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("unknown user status = %d", rec.Code)
	}
}

func TestMetricsBasicAuth(t *testing.T) {
	srv, _ := newTestServer(t, &Config{MetricsUser: "ops", MetricsPass: "secret"})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest("GET", "/metrics", nil)
	req.SetBasicAuth("ops", "secret")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}
}

func TestMetricsOpenWithoutCredentials(t *testing.T) {
	srv, _ := newTestServer(t, &Config{})
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
