// ABOUTME: Snapshot assembly and push to the remote sync server.
// ABOUTME: SyncToDatabase is explicit; pushBestEffort backs auto-sync hooks.
package tracker

import (
	"context"
	"fmt"

	"github.com/stepbox/stepbox/internal/models"
	boxsync "github.com/stepbox/stepbox/internal/sync"
)

// SyncToDatabase pushes the user's full snapshot to the sync server: every
// challenge with its beats, details, and rewards, plus all statements. The
// returned error covers transport-level failure only; per-record failures
// land in the Report.
func (t *Tracker) SyncToDatabase(ctx context.Context) (*boxsync.Report, error) {
	if t.syncClient == nil {
		return nil, fmt.Errorf("no sync server configured")
	}

	payload, err := t.buildPayload()
	if err != nil {
		return nil, err
	}
	return t.syncClient.Push(ctx, payload)
}

// buildPayload assembles the wire-form snapshot. It takes and releases the
// lock itself.
func (t *Tracker) buildPayload() (boxsync.Payload, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var p boxsync.Payload
	for _, c := range t.challenges {
		p.Challenges = append(p.Challenges, c.Record())

		beats, err := t.loadBeats(c.ID)
		if err != nil {
			return boxsync.Payload{}, err
		}
		for _, b := range beats {
			p.Beats = append(p.Beats, b.Record())
		}

		details, err := t.loadDetails(c.ID)
		if err != nil {
			return boxsync.Payload{}, err
		}
		for _, d := range details {
			p.BeatDetails = append(p.BeatDetails, d.Record())
		}

		rewards, err := t.loadRewards(c.ID)
		if err != nil {
			return boxsync.Payload{}, err
		}
		for _, r := range rewards {
			p.Rewards = append(p.Rewards, r.Record())
		}
	}
	for _, s := range t.statements {
		p.MotivationalStatements = append(p.MotivationalStatements, s.Record())
	}
	return p, nil
}

// pushBestEffort syncs after a local mutation when a sync client is wired.
// Failures are logged and swallowed: local state is the source of truth and
// a dead server must never block a write.
func (t *Tracker) pushBestEffort(ctx context.Context) {
	if t.syncClient == nil {
		return
	}
	payload, err := t.buildPayload()
	if err != nil {
		t.logger.Warn("sync snapshot failed", "err", err)
		return
	}
	if _, err := t.syncClient.Push(ctx, payload); err != nil {
		t.logger.Warn("background sync failed", "err", err)
	}
}

// Snapshot is the full set of user data in model form, for export and
// read-only consumers.
type Snapshot struct {
	UserID     string                         `json:"userId"`
	Challenges []models.Challenge             `json:"challenges"`
	Beats      []models.Beat                  `json:"beats"`
	Details    []models.BeatDetail            `json:"beatDetails"`
	Rewards    []models.Reward                `json:"rewards"`
	Statements []models.MotivationalStatement `json:"motivationalStatements"`
	Allies     []models.Ally                  `json:"allies"`
}

// Snapshot gathers every collection across all challenges.
func (t *Tracker) Snapshot() (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := &Snapshot{
		UserID:     t.userID,
		Challenges: append([]models.Challenge(nil), t.challenges...),
		Statements: append([]models.MotivationalStatement(nil), t.statements...),
		Allies:     append([]models.Ally(nil), t.allies...),
	}
	for _, c := range t.challenges {
		beats, err := t.loadBeats(c.ID)
		if err != nil {
			return nil, err
		}
		snap.Beats = append(snap.Beats, beats...)

		details, err := t.loadDetails(c.ID)
		if err != nil {
			return nil, err
		}
		snap.Details = append(snap.Details, details...)

		rewards, err := t.loadRewards(c.ID)
		if err != nil {
			return nil, err
		}
		snap.Rewards = append(snap.Rewards, rewards...)
	}
	return snap, nil
}
