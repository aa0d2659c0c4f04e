// ABOUTME: Challenge lifecycle manager: create, activate, repair, update, delete.
// ABOUTME: Enforces the at-most-one-active-challenge invariant per user.
package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/events"
	"github.com/stepbox/stepbox/internal/models"
	"github.com/stepbox/stepbox/internal/store"
)

// CreateChallenge creates a challenge and its full beat sequence. The new
// challenge becomes active automatically when the user has no other active
// challenge (which includes the first-challenge case).
func (t *Tracker) CreateChallenge(title, description string, duration int, startDate time.Time) (*models.Challenge, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, err := models.NewChallenge(t.userID, title, duration, startDate)
	if err != nil {
		return nil, err
	}
	if description != "" {
		c.WithDescription(description)
	}

	challenges, err := t.loadChallenges()
	if err != nil {
		return nil, err
	}

	activate := true
	for _, existing := range challenges {
		if existing.IsActive() {
			activate = false
			break
		}
	}
	if activate {
		c.Status = models.StatusActive
		c.IsDefault = true
	}

	beats := models.GenerateBeats(*c)
	if err := t.saveBeats(c.ID, beats); err != nil {
		return nil, err
	}

	challenges = append(challenges, *c)
	if err := t.saveChallenges(challenges); err != nil {
		return nil, err
	}

	if activate {
		if err := t.writeDefaultChallengeID(c.ID); err != nil {
			return nil, err
		}
		if err := t.loadChallengeData(c.ID, challenges); err != nil {
			return nil, err
		}
	}

	t.bus.Publish(events.Event{Name: events.ChallengeUpdated, Detail: c.ID.String()})
	return c, nil
}

// SetChallengeActive makes the target challenge the user's single active
// challenge. The status flip is one batch write over the whole collection so
// no observer can see two active challenges or none. The target becomes the
// default challenge, its dependent data is loaded, and a best-effort sync
// push fires; sync failures are logged, never returned.
func (t *Tracker) SetChallengeActive(ctx context.Context, id uuid.UUID) error {
	t.mu.Lock()

	challenges, err := t.loadChallenges()
	if err != nil {
		t.mu.Unlock()
		return err
	}
	if _, ok := findChallenge(challenges, id); !ok {
		// Stale id: leave state untouched.
		t.logger.Debug("setChallengeActive on unknown challenge", "id", id)
		t.mu.Unlock()
		return nil
	}

	now := t.now()
	for i := range challenges {
		if challenges[i].ID == id {
			challenges[i].Status = models.StatusActive
			challenges[i].IsDefault = true
		} else {
			challenges[i].Status = models.StatusNone
			challenges[i].IsDefault = false
		}
		challenges[i].UpdatedAt = now
	}

	if err := t.saveChallenges(challenges); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.writeDefaultChallengeID(id); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.loadChallengeData(id, challenges); err != nil {
		t.mu.Unlock()
		return err
	}
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.ChallengeUpdated, Detail: id.String()})
	t.pushBestEffort(ctx)
	return nil
}

// EnsureOnlyOneActive repairs the single-active invariant: more than one
// active keeps the first; zero active with at least one challenge promotes
// the first. Returns whether a repair was persisted.
func (t *Tracker) EnsureOnlyOneActive() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	challenges, err := t.loadChallenges()
	if err != nil {
		return false, err
	}
	if !repairActive(challenges, t.now()) {
		t.challenges = challenges
		return false, nil
	}
	if err := t.saveChallenges(challenges); err != nil {
		return false, err
	}
	return true, nil
}

// repairActive normalizes statuses in place and reports whether anything
// changed.
func repairActive(cs []models.Challenge, now time.Time) bool {
	changed := false
	seenActive := false
	for i := range cs {
		if cs[i].IsActive() {
			if seenActive {
				cs[i].Status = models.StatusNone
				cs[i].IsDefault = false
				cs[i].UpdatedAt = now
				changed = true
			}
			seenActive = true
		}
	}
	if !seenActive && len(cs) > 0 {
		cs[0].Status = models.StatusActive
		cs[0].IsDefault = true
		cs[0].UpdatedAt = now
		changed = true
	}
	return changed
}

// ChallengeUpdate carries optional field changes for UpdateChallenge. Nil
// fields are left untouched. EndDate is not re-derived from duration edits.
type ChallengeUpdate struct {
	Title       *string
	Description *string
	Duration    *int
	Status      *models.ChallengeStatus
	StartDate   *time.Time
	EndDate     *time.Time
	TemplateID  *string
}

// UpdateChallenge applies the update to the challenge with the given id.
// A stale id is a silent no-op; the returned bool reports whether the
// challenge was found.
func (t *Tracker) UpdateChallenge(id uuid.UUID, upd ChallengeUpdate) (bool, error) {
	t.mu.Lock()

	challenges, err := t.loadChallenges()
	if err != nil {
		t.mu.Unlock()
		return false, err
	}
	c, ok := findChallenge(challenges, id)
	if !ok {
		t.mu.Unlock()
		return false, nil
	}

	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Description != nil {
		c.Description = upd.Description
	}
	if upd.Duration != nil {
		c.Duration = *upd.Duration
	}
	if upd.Status != nil {
		c.Status = *upd.Status
	}
	if upd.StartDate != nil {
		c.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		c.EndDate = *upd.EndDate
	}
	if upd.TemplateID != nil {
		c.TemplateID = upd.TemplateID
	}
	c.UpdatedAt = t.now()

	if err := t.saveChallenges(challenges); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.ChallengeUpdated, Detail: id.String()})
	return true, nil
}

// DeleteChallenge removes a challenge and cascades to its beats, beat
// details, and rewards. When the deleted challenge was active and others
// remain, the first remaining challenge is promoted.
func (t *Tracker) DeleteChallenge(id uuid.UUID) error {
	t.mu.Lock()

	challenges, err := t.loadChallenges()
	if err != nil {
		t.mu.Unlock()
		return err
	}
	deleted, ok := findChallenge(challenges, id)
	if !ok {
		t.mu.Unlock()
		return nil
	}
	wasActive := deleted.IsActive()

	// Cascade before the challenge row disappears.
	if err := t.store.Delete(store.BeatsKey(t.userID, id)); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.store.Delete(store.BeatDetailsKey(t.userID, id)); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.store.Delete(store.RewardsKey(t.userID, id)); err != nil {
		t.mu.Unlock()
		return err
	}

	remaining := make([]models.Challenge, 0, len(challenges)-1)
	for _, c := range challenges {
		if c.ID != id {
			remaining = append(remaining, c)
		}
	}

	promotedID := uuid.Nil
	if wasActive && len(remaining) > 0 {
		remaining[0].Status = models.StatusActive
		remaining[0].IsDefault = true
		remaining[0].UpdatedAt = t.now()
		promotedID = remaining[0].ID
	}

	if err := t.saveChallenges(remaining); err != nil {
		t.mu.Unlock()
		return err
	}

	switch {
	case promotedID != uuid.Nil:
		if err := t.writeDefaultChallengeID(promotedID); err != nil {
			t.mu.Unlock()
			return err
		}
		if err := t.loadChallengeData(promotedID, remaining); err != nil {
			t.mu.Unlock()
			return err
		}
	case t.currentID == id:
		if err := t.clearDefaultChallengeID(); err != nil {
			t.mu.Unlock()
			return err
		}
		if err := t.loadChallengeData(uuid.Nil, remaining); err != nil {
			t.mu.Unlock()
			return err
		}
	}
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.ChallengeUpdated, Detail: id.String()})
	return nil
}
