// ABOUTME: Reward CRUD: load-modify-save-emit over the challenge's collection.
// ABOUTME: Achieving a reward stamps status, time, and optional proof URL.
package tracker

import (
	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/events"
	"github.com/stepbox/stepbox/internal/models"
)

// AddReward creates a reward scoped to the given challenge.
func (t *Tracker) AddReward(challengeID uuid.UUID, title, description string) (*models.Reward, error) {
	t.mu.Lock()

	rewards, err := t.loadRewards(challengeID)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}

	r := models.NewReward(challengeID, t.userID, title)
	if description != "" {
		r.WithDescription(description)
	}
	rewards = append(rewards, *r)

	if err := t.saveRewards(challengeID, rewards); err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.recomputeStats()
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.RewardAdded, Detail: r.ID.String()})
	return r, nil
}

// RewardsForChallenge returns the rewards stored for any challenge, loaded
// fresh from the store.
func (t *Tracker) RewardsForChallenge(challengeID uuid.UUID) ([]models.Reward, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadRewards(challengeID)
}

// RewardUpdate carries optional field changes for UpdateReward.
type RewardUpdate struct {
	Title       *string
	Description *string
	Status      *models.RewardStatus
	ProofURL    *string
}

// UpdateReward applies the update to a reward of the current challenge.
// A stale id is a silent no-op.
func (t *Tracker) UpdateReward(id uuid.UUID, upd RewardUpdate) (bool, error) {
	t.mu.Lock()

	if t.currentID == uuid.Nil {
		t.mu.Unlock()
		return false, nil
	}
	rewards, err := t.loadRewards(t.currentID)
	if err != nil {
		t.mu.Unlock()
		return false, err
	}

	found := false
	for i := range rewards {
		if rewards[i].ID == id {
			if upd.Title != nil {
				rewards[i].Title = *upd.Title
			}
			if upd.Description != nil {
				rewards[i].Description = upd.Description
			}
			if upd.Status != nil {
				rewards[i].Status = *upd.Status
			}
			if upd.ProofURL != nil {
				rewards[i].ProofURL = upd.ProofURL
			}
			rewards[i].UpdatedAt = t.now()
			found = true
			break
		}
	}
	if !found {
		t.mu.Unlock()
		return false, nil
	}

	if err := t.saveRewards(t.currentID, rewards); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.recomputeStats()
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.RewardUpdated, Detail: id.String()})
	return true, nil
}

// AchieveReward marks a reward of the current challenge achieved, recording
// proof if given. A stale id is a silent no-op.
func (t *Tracker) AchieveReward(id uuid.UUID, proofURL string) (bool, error) {
	t.mu.Lock()

	if t.currentID == uuid.Nil {
		t.mu.Unlock()
		return false, nil
	}
	rewards, err := t.loadRewards(t.currentID)
	if err != nil {
		t.mu.Unlock()
		return false, err
	}

	found := false
	for i := range rewards {
		if rewards[i].ID == id {
			rewards[i].Achieve(t.now(), proofURL)
			found = true
			break
		}
	}
	if !found {
		t.mu.Unlock()
		return false, nil
	}

	if err := t.saveRewards(t.currentID, rewards); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.recomputeStats()
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.RewardAchieved, Detail: id.String()})
	return true, nil
}

// DeleteReward removes a reward from the current challenge.
func (t *Tracker) DeleteReward(id uuid.UUID) (bool, error) {
	t.mu.Lock()

	if t.currentID == uuid.Nil {
		t.mu.Unlock()
		return false, nil
	}
	rewards, err := t.loadRewards(t.currentID)
	if err != nil {
		t.mu.Unlock()
		return false, err
	}

	remaining := make([]models.Reward, 0, len(rewards))
	found := false
	for _, r := range rewards {
		if r.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, r)
	}
	if !found {
		t.mu.Unlock()
		return false, nil
	}

	if err := t.saveRewards(t.currentID, remaining); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.recomputeStats()
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.RewardUpdated, Detail: id.String()})
	return true, nil
}
