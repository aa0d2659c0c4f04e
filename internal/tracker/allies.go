// ABOUTME: Ally CRUD over the user-wide support-network collection.
// ABOUTME: Allies are independent of challenges.
package tracker

import (
	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/events"
	"github.com/stepbox/stepbox/internal/models"
)

// AllyOptions carries the optional fields of a new ally.
type AllyOptions struct {
	Role            string
	Phone           string
	TelegramHandle  string
	SlackHandle     string
	DiscordUsername string
	Preferences     *models.NotificationPreferences
}

// AddAlly creates a support-network contact.
func (t *Tracker) AddAlly(name, email string, opts AllyOptions) (*models.Ally, error) {
	t.mu.Lock()

	allies, err := t.loadAllies()
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}

	a := models.NewAlly(t.userID, name, email)
	if opts.Role != "" {
		a.WithRole(opts.Role)
	}
	if opts.Phone != "" {
		a.Phone = &opts.Phone
	}
	if opts.TelegramHandle != "" {
		a.TelegramHandle = &opts.TelegramHandle
	}
	if opts.SlackHandle != "" {
		a.SlackHandle = &opts.SlackHandle
	}
	if opts.DiscordUsername != "" {
		a.DiscordUsername = &opts.DiscordUsername
	}
	if opts.Preferences != nil {
		a.NotificationPreferences = *opts.Preferences
	}
	allies = append(allies, *a)

	if err := t.saveAllies(allies); err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.AllyAdded, Detail: a.ID.String()})
	return a, nil
}

// AllyUpdate carries optional field changes for UpdateAlly.
type AllyUpdate struct {
	Name        *string
	Email       *string
	Role        *string
	Phone       *string
	Preferences *models.NotificationPreferences
}

// UpdateAlly applies the update. A stale id is a silent no-op.
func (t *Tracker) UpdateAlly(id uuid.UUID, upd AllyUpdate) (bool, error) {
	t.mu.Lock()

	allies, err := t.loadAllies()
	if err != nil {
		t.mu.Unlock()
		return false, err
	}

	found := false
	for i := range allies {
		if allies[i].ID == id {
			if upd.Name != nil {
				allies[i].Name = *upd.Name
			}
			if upd.Email != nil {
				allies[i].Email = *upd.Email
			}
			if upd.Role != nil {
				allies[i].Role = upd.Role
			}
			if upd.Phone != nil {
				allies[i].Phone = upd.Phone
			}
			if upd.Preferences != nil {
				allies[i].NotificationPreferences = *upd.Preferences
			}
			allies[i].UpdatedAt = t.now()
			found = true
			break
		}
	}
	if !found {
		t.mu.Unlock()
		return false, nil
	}

	if err := t.saveAllies(allies); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.AllyUpdated, Detail: id.String()})
	return true, nil
}

// DeleteAlly removes an ally.
func (t *Tracker) DeleteAlly(id uuid.UUID) (bool, error) {
	t.mu.Lock()

	allies, err := t.loadAllies()
	if err != nil {
		t.mu.Unlock()
		return false, err
	}

	remaining := make([]models.Ally, 0, len(allies))
	found := false
	for _, a := range allies {
		if a.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, a)
	}
	if !found {
		t.mu.Unlock()
		return false, nil
	}

	if err := t.saveAllies(remaining); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.AllyUpdated, Detail: id.String()})
	return true, nil
}
