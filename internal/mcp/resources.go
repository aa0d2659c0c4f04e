// ABOUTME: MCP resource implementations for stepBox.
// ABOUTME: Provides stepbox://summary, stepbox://today, and stepbox://snapshot.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stepbox/stepbox/internal/export"
)

func (s *Server) registerResources() {
	// stepbox://summary - active challenge dashboard
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "stepbox://summary",
		Name:        "Challenge Summary",
		Description: "Active challenge with stats, phases, and rewards",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// stepbox://today - today's beat and its log
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "stepbox://today",
		Name:        "Today's Beat",
		Description: "The current day of the active challenge and what was logged",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// stepbox://snapshot - full export of all user data
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "stepbox://snapshot",
		Name:        "Full Data Snapshot",
		Description: "Every challenge, beat, detail, reward, statement, and ally",
		MIMEType:    "application/json",
	}, s.handleSnapshotResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	c, ok := s.tracker.CurrentChallenge()
	if !ok {
		return resourceJSON("stepbox://summary", map[string]any{"message": "No active challenge."})
	}

	stats := s.tracker.Stats()
	rewards, err := s.tracker.RewardsForChallenge(c.ID)
	if err != nil {
		return nil, fmt.Errorf("load rewards: %w", err)
	}

	result := map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"challenge": map[string]any{
			"id":         c.ID.String()[:8],
			"title":      c.Title,
			"status":     string(c.Status),
			"duration":   c.Duration,
			"start_date": c.StartDate.Format("2006-01-02"),
			"end_date":   c.EndDate.Format("2006-01-02"),
		},
		"stats": map[string]any{
			"total_beats":        stats.TotalBeats,
			"completed_beats":    stats.CompletedBeats,
			"completion_percent": stats.CompletionPercent(),
		},
		"phases":  s.tracker.Phases(),
		"rewards": len(rewards),
	}
	return resourceJSON("stepbox://summary", result)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	c, ok := s.tracker.CurrentChallenge()
	if !ok {
		return resourceJSON("stepbox://today", map[string]any{"message": "No active challenge."})
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var result map[string]any
	for _, b := range s.tracker.Beats() {
		bd := b.Date
		if bd.Year() == today.Year() && bd.YearDay() == today.YearDay() {
			var details []string
			for _, d := range s.tracker.DetailsForBeat(b.ID) {
				details = append(details, d.Content)
			}
			result = map[string]any{
				"challenge": c.Title,
				"day":       b.DayNumber,
				"date":      bd.Format("2006-01-02"),
				"completed": len(details) > 0,
				"details":   details,
			}
			break
		}
	}
	if result == nil {
		result = map[string]any{
			"challenge": c.Title,
			"message":   "No beat scheduled for today.",
		}
	}
	return resourceJSON("stepbox://today", result)
}

func (s *Server) handleSnapshotResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snap, err := s.tracker.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	data, err := export.JSON(export.FromSnapshot(snap, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "stepbox://snapshot",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func resourceJSON(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
