// ABOUTME: MCP tool implementations for stepBox progress inspection.
// ABOUTME: Read-only views over challenges, beats, stats, and rewards.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stepbox/stepbox/internal/models"
	"github.com/stepbox/stepbox/internal/tracker"
)

func (s *Server) registerTools() {
	// list_challenges
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_challenges",
		Description: "List the user's challenges with status and progress",
	}, s.handleListChallenges)

	// get_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get completion stats and phases for the active challenge",
	}, s.handleGetStats)

	// get_beat_log
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_beat_log",
		Description: "Get the daily log of the active challenge, optionally for one day",
	}, s.handleGetBeatLog)

	// list_rewards
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_rewards",
		Description: "List rewards for a challenge by ID or ID prefix (defaults to active)",
	}, s.handleListRewards)
}

// Tool input/output types

type challengeOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	Duration    int    `json:"duration"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description,omitempty"`
}

type statsOutput struct {
	Challenge         string          `json:"challenge"`
	TotalBeats        int             `json:"total_beats"`
	CompletedBeats    int             `json:"completed_beats"`
	CompletionPercent float64         `json:"completion_percent"`
	Rewards           int             `json:"rewards"`
	Phases            []tracker.Phase `json:"phases"`
}

type beatLogInput struct {
	Day int `json:"day,omitempty" jsonschema:"Day number to fetch, 0 for all logged days"`
}

type beatLogEntry struct {
	Day       int      `json:"day"`
	Date      string   `json:"date"`
	Completed bool     `json:"completed"`
	Details   []string `json:"details,omitempty"`
}

type listRewardsInput struct {
	ChallengeID string `json:"challenge_id,omitempty" jsonschema:"Challenge ID or prefix, defaults to the active challenge"`
}

type rewardOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	AchievedAt string `json:"achieved_at,omitempty"`
	ProofURL   string `json:"proof_url,omitempty"`
}

// Tool handlers

func (s *Server) handleListChallenges(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	challenges := s.tracker.Challenges()
	if len(challenges) == 0 {
		return nil, map[string]any{"message": "No challenges found."}, nil
	}

	out := make([]challengeOutput, 0, len(challenges))
	for _, c := range challenges {
		co := challengeOutput{
			ID:        c.ID.String()[:8],
			Title:     c.Title,
			Status:    string(c.Status),
			Duration:  c.Duration,
			StartDate: c.StartDate.Format("2006-01-02"),
			EndDate:   c.EndDate.Format("2006-01-02"),
		}
		if co.Status == "" {
			co.Status = "inactive"
		}
		if c.Description != nil {
			co.Description = *c.Description
		}
		out = append(out, co)
	}
	return nil, out, nil
}

func (s *Server) handleGetStats(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, statsOutput, error) {
	c, ok := s.tracker.CurrentChallenge()
	if !ok {
		return nil, statsOutput{}, fmt.Errorf("no active challenge")
	}

	stats := s.tracker.Stats()
	return nil, statsOutput{
		Challenge:         c.Title,
		TotalBeats:        stats.TotalBeats,
		CompletedBeats:    stats.CompletedBeats,
		CompletionPercent: stats.CompletionPercent(),
		Rewards:           stats.RewardsCount,
		Phases:            s.tracker.Phases(),
	}, nil
}

func (s *Server) handleGetBeatLog(ctx context.Context, req *mcp.CallToolRequest, input beatLogInput) (*mcp.CallToolResult, any, error) {
	if _, ok := s.tracker.CurrentChallenge(); !ok {
		return nil, nil, fmt.Errorf("no active challenge")
	}

	detailsFor := func(beatID uuid.UUID) []string {
		var out []string
		for _, d := range s.tracker.DetailsForBeat(beatID) {
			out = append(out, d.Content)
		}
		return out
	}

	if input.Day > 0 {
		beat, ok := s.tracker.BeatByDay(input.Day)
		if !ok {
			return nil, nil, fmt.Errorf("no beat for day %d", input.Day)
		}
		details := detailsFor(beat.ID)
		return nil, beatLogEntry{
			Day:       beat.DayNumber,
			Date:      beat.Date.Format("2006-01-02"),
			Completed: len(details) > 0,
			Details:   details,
		}, nil
	}

	var log []beatLogEntry
	for _, b := range s.tracker.Beats() {
		details := detailsFor(b.ID)
		if len(details) == 0 {
			continue
		}
		log = append(log, beatLogEntry{
			Day:       b.DayNumber,
			Date:      b.Date.Format("2006-01-02"),
			Completed: true,
			Details:   details,
		})
	}
	if len(log) == 0 {
		return nil, map[string]any{"message": "No days logged yet."}, nil
	}
	return nil, log, nil
}

func (s *Server) handleListRewards(ctx context.Context, req *mcp.CallToolRequest, input listRewardsInput) (*mcp.CallToolResult, any, error) {
	var rewards []models.Reward
	if input.ChallengeID == "" {
		c, ok := s.tracker.CurrentChallenge()
		if !ok {
			return nil, nil, fmt.Errorf("no active challenge")
		}
		var err error
		rewards, err = s.tracker.RewardsForChallenge(c.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("load rewards: %w", err)
		}
	} else {
		id, err := s.resolveChallengeID(input.ChallengeID)
		if err != nil {
			return nil, nil, err
		}
		rewards, err = s.tracker.RewardsForChallenge(id)
		if err != nil {
			return nil, nil, fmt.Errorf("load rewards: %w", err)
		}
	}

	if len(rewards) == 0 {
		return nil, map[string]any{"message": "No rewards found."}, nil
	}
	out := make([]rewardOutput, 0, len(rewards))
	for _, r := range rewards {
		ro := rewardOutput{
			ID:     r.ID.String()[:8],
			Title:  r.Title,
			Status: string(r.Status),
		}
		if r.AchievedAt != nil {
			ro.AchievedAt = r.AchievedAt.Format("2006-01-02")
		}
		if r.ProofURL != nil {
			ro.ProofURL = *r.ProofURL
		}
		out = append(out, ro)
	}
	return nil, out, nil
}

// resolveChallengeID matches a full id or an unambiguous prefix.
func (s *Server) resolveChallengeID(idOrPrefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return id, nil
	}

	var found uuid.UUID
	matches := 0
	for _, c := range s.tracker.Challenges() {
		if strings.HasPrefix(c.ID.String(), idOrPrefix) {
			found = c.ID
			matches++
		}
	}
	if matches == 0 {
		return uuid.Nil, fmt.Errorf("not found: %s", idOrPrefix)
	}
	if matches > 1 {
		return uuid.Nil, fmt.Errorf("ambiguous prefix %s: matches multiple challenges", idOrPrefix)
	}
	return found, nil
}
