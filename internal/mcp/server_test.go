// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stepbox/stepbox/internal/events"
	"github.com/stepbox/stepbox/internal/store"
	"github.com/stepbox/stepbox/internal/tracker"
)

// setupTracker builds a tracker with one active challenge and a logged day.
func setupTracker(t *testing.T) *tracker.Tracker {
	t.Helper()

	tr, err := tracker.New(store.NewMemoryStore(), events.NewMemoryBus(), "test-user")
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	start := time.Now().AddDate(0, 0, -2) // day 3 today
	c, err := tr.CreateChallenge("Read daily", "one chapter a day", 30, start)
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	beat, ok := tr.BeatByDay(1)
	if !ok {
		t.Fatal("beat for day 1 missing")
	}
	if _, err := tr.AddBeatDetail(beat.ID, "finished chapter one", "reading"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddReward(c.ID, "New bookshelf", ""); err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestNewServer(t *testing.T) {
	server, err := NewServer(setupTracker(t))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.tracker == nil {
		t.Error("Expected non-nil tracker")
	}
}

func TestHandleListChallenges(t *testing.T) {
	server, _ := NewServer(setupTracker(t))

	_, out, err := server.handleListChallenges(context.Background(), nil, struct{}{})
	if err != nil {
		t.Fatalf("handleListChallenges: %v", err)
	}
	challenges, ok := out.([]challengeOutput)
	if !ok || len(challenges) != 1 {
		t.Fatalf("output = %#v", out)
	}
	if challenges[0].Title != "Read daily" || challenges[0].Status != "active" {
		t.Errorf("challenge = %+v", challenges[0])
	}
	if challenges[0].Duration != 30 {
		t.Errorf("duration = %d", challenges[0].Duration)
	}
}

func TestHandleGetStats(t *testing.T) {
	server, _ := NewServer(setupTracker(t))

	_, out, err := server.handleGetStats(context.Background(), nil, struct{}{})
	if err != nil {
		t.Fatalf("handleGetStats: %v", err)
	}
	if out.Challenge != "Read daily" {
		t.Errorf("challenge = %q", out.Challenge)
	}
	if out.TotalBeats != 30 || out.CompletedBeats != 1 {
		t.Errorf("beats = %d/%d, want 1/30", out.CompletedBeats, out.TotalBeats)
	}
	if len(out.Phases) != 2 {
		t.Errorf("phases = %d, want 2", len(out.Phases))
	}
}

func TestHandleGetStatsNoActiveChallenge(t *testing.T) {
	tr, err := tracker.New(store.NewMemoryStore(), events.NewMemoryBus(), "empty-user")
	if err != nil {
		t.Fatal(err)
	}
	server, _ := NewServer(tr)

	if _, _, err := server.handleGetStats(context.Background(), nil, struct{}{}); err == nil {
		t.Error("expected error without an active challenge")
	}
}

func TestHandleGetBeatLog(t *testing.T) {
	server, _ := NewServer(setupTracker(t))
	ctx := context.Background()

	// Whole log: only the logged day appears.
	_, out, err := server.handleGetBeatLog(ctx, nil, beatLogInput{})
	if err != nil {
		t.Fatalf("handleGetBeatLog: %v", err)
	}
	log, ok := out.([]beatLogEntry)
	if !ok || len(log) != 1 {
		t.Fatalf("log = %#v", out)
	}
	if log[0].Day != 1 || !log[0].Completed {
		t.Errorf("entry = %+v", log[0])
	}

	// Single unlogged day.
	_, out, err = server.handleGetBeatLog(ctx, nil, beatLogInput{Day: 5})
	if err != nil {
		t.Fatalf("handleGetBeatLog(day 5): %v", err)
	}
	entry, ok := out.(beatLogEntry)
	if !ok {
		t.Fatalf("output = %#v", out)
	}
	if entry.Completed || len(entry.Details) != 0 {
		t.Errorf("day 5 entry = %+v", entry)
	}

	// Out-of-range day errors.
	if _, _, err := server.handleGetBeatLog(ctx, nil, beatLogInput{Day: 99}); err == nil {
		t.Error("expected error for day outside the challenge")
	}
}

func TestHandleListRewards(t *testing.T) {
	server, _ := NewServer(setupTracker(t))
	ctx := context.Background()

	_, out, err := server.handleListRewards(ctx, nil, listRewardsInput{})
	if err != nil {
		t.Fatalf("handleListRewards: %v", err)
	}
	rewards, ok := out.([]rewardOutput)
	if !ok || len(rewards) != 1 {
		t.Fatalf("output = %#v", out)
	}
	if rewards[0].Title != "New bookshelf" || rewards[0].Status != "planned" {
		t.Errorf("reward = %+v", rewards[0])
	}

	// Prefix lookup.
	c, _ := server.tracker.CurrentChallenge()
	prefix := c.ID.String()[:8]
	_, out, err = server.handleListRewards(ctx, nil, listRewardsInput{ChallengeID: prefix})
	if err != nil {
		t.Fatalf("handleListRewards(prefix): %v", err)
	}
	if rewards, ok := out.([]rewardOutput); !ok || len(rewards) != 1 {
		t.Errorf("prefix output = %#v", out)
	}

	// Unknown prefix errors.
	if _, _, err := server.handleListRewards(ctx, nil, listRewardsInput{ChallengeID: "ffffffff"}); err == nil {
		t.Error("expected error for unknown prefix")
	}
}

func TestSummaryResource(t *testing.T) {
	server, _ := NewServer(setupTracker(t))

	result, err := server.handleSummaryResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleSummaryResource: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != "stepbox://summary" {
		t.Fatalf("contents = %+v", result.Contents)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &decoded); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}
	challenge, ok := decoded["challenge"].(map[string]any)
	if !ok || challenge["title"] != "Read daily" {
		t.Errorf("challenge = %v", decoded["challenge"])
	}
	if decoded["rewards"] != float64(1) {
		t.Errorf("rewards = %v", decoded["rewards"])
	}
}

func TestTodayResource(t *testing.T) {
	server, _ := NewServer(setupTracker(t))

	result, err := server.handleTodayResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleTodayResource: %v", err)
	}
	text := result.Contents[0].Text
	// The challenge started two days ago, so today is day 3.
	if !strings.Contains(text, `"day": 3`) {
		t.Errorf("today resource = %s", text)
	}
}

func TestSnapshotResource(t *testing.T) {
	server, _ := NewServer(setupTracker(t))

	result, err := server.handleSnapshotResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleSnapshotResource: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &decoded); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if decoded["tool"] != "stepbox" {
		t.Errorf("tool = %v", decoded["tool"])
	}
	beats, ok := decoded["beats"].([]any)
	if !ok || len(beats) != 30 {
		t.Errorf("beats = %d entries, want 30", len(beats))
	}
}
