// ABOUTME: Beat detail CRUD for the current challenge.
// ABOUTME: Detail presence drives derived completion; legacy beat flags follow it.
package tracker

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/events"
	"github.com/stepbox/stepbox/internal/models"
)

// AddBeatDetail appends a detail to a beat of the current challenge. The
// core accepts content as given; callers are expected to reject empty or
// whitespace-only input at the UI boundary. Emits detail-added, plus
// beat-completed when this is the beat's first detail.
func (t *Tracker) AddBeatDetail(beatID uuid.UUID, content, category string) (*models.BeatDetail, error) {
	t.mu.Lock()

	if t.currentID == uuid.Nil {
		t.mu.Unlock()
		return nil, fmt.Errorf("no challenge loaded")
	}

	details, err := t.loadDetails(t.currentID)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	wasComplete := hasDetailFor(details, beatID)

	d := models.NewBeatDetail(beatID, t.userID, content)
	if category != "" {
		d.WithCategory(category)
	}
	details = append(details, *d)

	if err := t.saveDetails(t.currentID, details); err != nil {
		t.mu.Unlock()
		return nil, err
	}
	if !wasComplete {
		if err := t.markBeatCompleted(beatID, true); err != nil {
			t.mu.Unlock()
			return nil, err
		}
	}
	t.recomputeStats()
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.DetailAdded, Detail: d.ID.String()})
	if !wasComplete {
		t.bus.Publish(events.Event{Name: events.BeatCompleted, Detail: beatID.String()})
	}
	return d, nil
}

// UpdateBeatDetail changes a detail's content and/or category. Nil fields
// are left untouched; a stale id is a silent no-op.
func (t *Tracker) UpdateBeatDetail(id uuid.UUID, content, category *string) (bool, error) {
	t.mu.Lock()

	if t.currentID == uuid.Nil {
		t.mu.Unlock()
		return false, nil
	}
	details, err := t.loadDetails(t.currentID)
	if err != nil {
		t.mu.Unlock()
		return false, err
	}

	found := false
	for i := range details {
		if details[i].ID == id {
			if content != nil {
				details[i].Content = *content
			}
			if category != nil {
				details[i].Category = category
			}
			details[i].UpdatedAt = t.now()
			found = true
			break
		}
	}
	if !found {
		t.mu.Unlock()
		return false, nil
	}

	if err := t.saveDetails(t.currentID, details); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.recomputeStats()
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.DetailUpdated, Detail: id.String()})
	return true, nil
}

// DeleteBeatDetail removes a detail. When the owning beat loses its last
// detail, the beat reverts to incomplete and beat-uncompleted fires.
func (t *Tracker) DeleteBeatDetail(id uuid.UUID) (bool, error) {
	t.mu.Lock()

	if t.currentID == uuid.Nil {
		t.mu.Unlock()
		return false, nil
	}
	details, err := t.loadDetails(t.currentID)
	if err != nil {
		t.mu.Unlock()
		return false, err
	}

	beatID := uuid.Nil
	remaining := make([]models.BeatDetail, 0, len(details))
	for _, d := range details {
		if d.ID == id {
			beatID = d.BeatID
			continue
		}
		remaining = append(remaining, d)
	}
	if beatID == uuid.Nil {
		t.mu.Unlock()
		return false, nil
	}

	if err := t.saveDetails(t.currentID, remaining); err != nil {
		t.mu.Unlock()
		return false, err
	}
	nowIncomplete := !hasDetailFor(remaining, beatID)
	if nowIncomplete {
		if err := t.markBeatCompleted(beatID, false); err != nil {
			t.mu.Unlock()
			return false, err
		}
	}
	t.recomputeStats()
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.DetailDeleted, Detail: id.String()})
	if nowIncomplete {
		t.bus.Publish(events.Event{Name: events.BeatUncompleted, Detail: beatID.String()})
	}
	return true, nil
}

// markBeatCompleted maintains the legacy isCompleted/completedAt fields so
// stored records stay coherent with derived completion. Caller holds the lock.
func (t *Tracker) markBeatCompleted(beatID uuid.UUID, completed bool) error {
	beats, err := t.loadBeats(t.currentID)
	if err != nil {
		return err
	}
	for i := range beats {
		if beats[i].ID == beatID {
			beats[i].IsCompleted = completed
			if completed {
				at := t.now()
				beats[i].CompletedAt = &at
			} else {
				beats[i].CompletedAt = nil
			}
			beats[i].UpdatedAt = t.now()
			return t.saveBeats(t.currentID, beats)
		}
	}
	// Detail referencing an unknown beat: nothing to flag.
	return nil
}

func hasDetailFor(details []models.BeatDetail, beatID uuid.UUID) bool {
	for _, d := range details {
		if d.BeatID == beatID {
			return true
		}
	}
	return false
}
