// ABOUTME: Sync payload and result shapes shared by client and server.
// ABOUTME: All records travel in wire form with ISO-8601 date strings.
package sync

import "github.com/stepbox/stepbox/internal/models"

// Entity type names used as keys in the per-type result map.
const (
	EntityChallenges = "challenges"
	EntityBeats      = "beats"
	EntityDetails    = "beatDetails"
	EntityRewards    = "rewards"
	EntityStatements = "motivationalStatements"
)

// Payload is the full local snapshot submitted to the upsert endpoint.
type Payload struct {
	Challenges             []models.ChallengeRecord  `json:"challenges"`
	Beats                  []models.BeatRecord       `json:"beats"`
	BeatDetails            []models.BeatDetailRecord `json:"beatDetails"`
	Rewards                []models.RewardRecord     `json:"rewards"`
	MotivationalStatements []models.StatementRecord  `json:"motivationalStatements"`
}

// Total returns the number of records in the payload.
func (p Payload) Total() int {
	return len(p.Challenges) + len(p.Beats) + len(p.BeatDetails) +
		len(p.Rewards) + len(p.MotivationalStatements)
}

// EntityResult is the per-entity-type accounting for one sync batch. Records
// are attempted independently; one failure never aborts the batch.
type EntityResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// Summary totals a sync batch across entity types.
type Summary struct {
	TotalSynced int `json:"totalSynced"`
	TotalFailed int `json:"totalFailed"`
}

// Report is the upsert endpoint's response for one batch.
type Report struct {
	Success bool                    `json:"success"`
	Results map[string]EntityResult `json:"results"`
	Summary Summary                 `json:"summary"`
}
