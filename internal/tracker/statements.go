// ABOUTME: Motivational statement CRUD over the user-wide collection.
// ABOUTME: Statements may be user-global or scoped to a single challenge.
package tracker

import (
	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/events"
	"github.com/stepbox/stepbox/internal/models"
)

// StatementOptions carries the optional fields of a new statement.
type StatementOptions struct {
	Why           string
	Collaboration string
	ChallengeID   *uuid.UUID
}

// AddStatement creates a motivational statement.
func (t *Tracker) AddStatement(title, statement string, opts StatementOptions) (*models.MotivationalStatement, error) {
	t.mu.Lock()

	statements, err := t.loadStatements()
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}

	s := models.NewStatement(t.userID, title, statement)
	if opts.Why != "" {
		s.WithWhy(opts.Why)
	}
	if opts.Collaboration != "" {
		s.WithCollaboration(opts.Collaboration)
	}
	if opts.ChallengeID != nil {
		s.WithChallenge(*opts.ChallengeID)
	}
	statements = append(statements, *s)

	if err := t.saveStatements(statements); err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.StatementUpdated, Detail: s.ID.String()})
	return s, nil
}

// StatementsForChallenge returns statements scoped to the given challenge.
func (t *Tracker) StatementsForChallenge(challengeID uuid.UUID) []models.MotivationalStatement {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []models.MotivationalStatement
	for _, s := range t.statements {
		if s.ChallengeID != nil && *s.ChallengeID == challengeID {
			out = append(out, s)
		}
	}
	return out
}

// StatementUpdate carries optional field changes for UpdateStatement.
type StatementUpdate struct {
	Title         *string
	Statement     *string
	Why           *string
	Collaboration *string
}

// UpdateStatement applies the update. A stale id is a silent no-op.
func (t *Tracker) UpdateStatement(id uuid.UUID, upd StatementUpdate) (bool, error) {
	t.mu.Lock()

	statements, err := t.loadStatements()
	if err != nil {
		t.mu.Unlock()
		return false, err
	}

	found := false
	for i := range statements {
		if statements[i].ID == id {
			if upd.Title != nil {
				statements[i].Title = *upd.Title
			}
			if upd.Statement != nil {
				statements[i].Statement = *upd.Statement
			}
			if upd.Why != nil {
				statements[i].Why = upd.Why
			}
			if upd.Collaboration != nil {
				statements[i].Collaboration = upd.Collaboration
			}
			statements[i].UpdatedAt = t.now()
			found = true
			break
		}
	}
	if !found {
		t.mu.Unlock()
		return false, nil
	}

	if err := t.saveStatements(statements); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.StatementUpdated, Detail: id.String()})
	return true, nil
}

// DeleteStatement removes a statement.
func (t *Tracker) DeleteStatement(id uuid.UUID) (bool, error) {
	t.mu.Lock()

	statements, err := t.loadStatements()
	if err != nil {
		t.mu.Unlock()
		return false, err
	}

	remaining := make([]models.MotivationalStatement, 0, len(statements))
	found := false
	for _, s := range statements {
		if s.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, s)
	}
	if !found {
		t.mu.Unlock()
		return false, nil
	}

	if err := t.saveStatements(remaining); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.mu.Unlock()

	t.bus.Publish(events.Event{Name: events.StatementUpdated, Detail: id.String()})
	return true, nil
}
