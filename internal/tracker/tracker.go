// ABOUTME: Tracker is the state-management core owning challenges, beats,
// ABOUTME: details, rewards, statements, and allies for a single user.
package tracker

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/events"
	"github.com/stepbox/stepbox/internal/models"
	"github.com/stepbox/stepbox/internal/store"
	boxsync "github.com/stepbox/stepbox/internal/sync"
)

// Tracker owns all stepBox state for one user. Every mutation is a
// whole-collection read-modify-write against the store, followed by a stats
// recompute and an event emission, in that order: by the time an event fires,
// the store write is durable.
//
// A single mutex serializes all operations, closing the read-modify-write
// race between concurrent calls within this process. Writers in other
// processes still race last-write-wins; Refresh picks up their changes.
type Tracker struct {
	mu         sync.Mutex
	store      store.Store
	bus        events.Bus
	logger     *log.Logger
	syncClient *boxsync.Client
	userID     string
	now        func() time.Time

	challenges []models.Challenge
	currentID  uuid.UUID
	beats      []models.Beat
	details    []models.BeatDetail
	rewards    []models.Reward
	statements []models.MotivationalStatement
	allies     []models.Ally
	stats      Stats
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the tracker's logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithSyncClient wires a sync client for best-effort pushes.
func WithSyncClient(c *boxsync.Client) Option {
	return func(t *Tracker) { t.syncClient = c }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a Tracker scoped to userID and loads all of the user's data.
func New(st store.Store, bus events.Bus, userID string, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:  st,
		bus:    bus,
		userID: userID,
		now:    time.Now,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

// UserID returns the user the tracker is scoped to.
func (t *Tracker) UserID() string {
	return t.userID
}

// Refresh reloads every collection from the store and emits data-refresh.
// This is the reload hook for changes written by another process.
func (t *Tracker) Refresh() error {
	if err := t.load(); err != nil {
		return err
	}
	t.bus.Publish(events.Event{Name: events.DataRefresh})
	return nil
}

// load reads all collections, repairs the single-active invariant, and loads
// the current challenge's dependent data.
func (t *Tracker) load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	challenges, err := t.loadChallenges()
	if err != nil {
		return err
	}

	// Defensive repair: stored data may predate the invariant or have been
	// corrupted by a partial write.
	if repairActive(challenges, t.now()) {
		if err := t.saveChallenges(challenges); err != nil {
			return err
		}
		t.logger.Warn("repaired active-challenge invariant", "user", t.userID)
	} else {
		t.challenges = challenges
	}

	currentID := t.readDefaultChallengeID()
	if _, ok := findChallenge(challenges, currentID); !ok {
		currentID = uuid.Nil
		for _, c := range challenges {
			if c.IsActive() {
				currentID = c.ID
				break
			}
		}
	}
	if err := t.loadChallengeData(currentID, challenges); err != nil {
		return err
	}

	if t.statements, err = t.loadStatements(); err != nil {
		return err
	}
	if t.allies, err = t.loadAllies(); err != nil {
		return err
	}
	return nil
}

// loadChallengeData loads the beats, details, and rewards of the given
// challenge into working state and recomputes stats. It always takes an
// explicit challenge snapshot rather than reading t.challenges, so callers
// mid-mutation cannot observe half-updated state.
func (t *Tracker) loadChallengeData(id uuid.UUID, challenges []models.Challenge) error {
	if id == uuid.Nil {
		t.currentID = uuid.Nil
		t.beats = nil
		t.details = nil
		t.rewards = nil
		t.stats = Stats{}
		return nil
	}
	if _, ok := findChallenge(challenges, id); !ok {
		return fmt.Errorf("load challenge data: unknown challenge %s", id)
	}

	beats, err := t.loadBeats(id)
	if err != nil {
		return err
	}
	details, err := t.loadDetails(id)
	if err != nil {
		return err
	}
	rewards, err := t.loadRewards(id)
	if err != nil {
		return err
	}

	t.currentID = id
	t.beats = beats
	t.details = details
	t.rewards = rewards
	t.recomputeStats()
	return nil
}

// recomputeStats refreshes derived stats from the current working state.
func (t *Tracker) recomputeStats() {
	t.stats = CalculateStats(t.beats, t.details, t.rewards)
}

// --- accessors ---

// Challenges returns a copy of all of the user's challenges.
func (t *Tracker) Challenges() []models.Challenge {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Challenge(nil), t.challenges...)
}

// CurrentChallenge returns the currently loaded challenge, if any.
func (t *Tracker) CurrentChallenge() (models.Challenge, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := findChallenge(t.challenges, t.currentID)
	if !ok {
		return models.Challenge{}, false
	}
	return *c, true
}

// Beats returns a copy of the current challenge's beats.
func (t *Tracker) Beats() []models.Beat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Beat(nil), t.beats...)
}

// BeatByDay returns the current challenge's beat with the given day number.
func (t *Tracker) BeatByDay(dayNumber int) (models.Beat, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, b := range t.beats {
		if b.DayNumber == dayNumber {
			return b, true
		}
	}
	return models.Beat{}, false
}

// Details returns a copy of the current challenge's beat details.
func (t *Tracker) Details() []models.BeatDetail {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.BeatDetail(nil), t.details...)
}

// DetailsForBeat returns the details attached to one beat.
func (t *Tracker) DetailsForBeat(beatID uuid.UUID) []models.BeatDetail {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []models.BeatDetail
	for _, d := range t.details {
		if d.BeatID == beatID {
			out = append(out, d)
		}
	}
	return out
}

// Rewards returns a copy of the current challenge's rewards.
func (t *Tracker) Rewards() []models.Reward {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Reward(nil), t.rewards...)
}

// Statements returns a copy of all of the user's motivational statements.
func (t *Tracker) Statements() []models.MotivationalStatement {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.MotivationalStatement(nil), t.statements...)
}

// Allies returns a copy of the user's allies.
func (t *Tracker) Allies() []models.Ally {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Ally(nil), t.allies...)
}

// Stats returns the derived stats for the current challenge.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Phases returns the display phases of the current challenge.
func (t *Tracker) Phases() []Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := findChallenge(t.challenges, t.currentID)
	if !ok {
		return nil
	}
	return Phases(*c, t.beats, t.details, t.now())
}

// --- store plumbing ---

// getCollection reads a key, treating a missing key as an empty collection.
func (t *Tracker) getCollection(key string) ([]byte, error) {
	data, err := t.store.Get(key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return data, err
}

func (t *Tracker) loadChallenges() ([]models.Challenge, error) {
	data, err := t.getCollection(store.ChallengesKey(t.userID))
	if err != nil {
		return nil, fmt.Errorf("load challenges: %w", err)
	}
	return models.DecodeChallenges(data)
}

func (t *Tracker) saveChallenges(cs []models.Challenge) error {
	data, err := models.EncodeChallenges(cs)
	if err != nil {
		return fmt.Errorf("encode challenges: %w", err)
	}
	if err := t.store.Set(store.ChallengesKey(t.userID), data); err != nil {
		return fmt.Errorf("save challenges: %w", err)
	}
	t.challenges = cs
	return nil
}

func (t *Tracker) loadBeats(challengeID uuid.UUID) ([]models.Beat, error) {
	data, err := t.getCollection(store.BeatsKey(t.userID, challengeID))
	if err != nil {
		return nil, fmt.Errorf("load beats: %w", err)
	}
	return models.DecodeBeats(data)
}

func (t *Tracker) saveBeats(challengeID uuid.UUID, bs []models.Beat) error {
	data, err := models.EncodeBeats(bs)
	if err != nil {
		return fmt.Errorf("encode beats: %w", err)
	}
	if err := t.store.Set(store.BeatsKey(t.userID, challengeID), data); err != nil {
		return fmt.Errorf("save beats: %w", err)
	}
	if challengeID == t.currentID {
		t.beats = bs
	}
	return nil
}

func (t *Tracker) loadDetails(challengeID uuid.UUID) ([]models.BeatDetail, error) {
	data, err := t.getCollection(store.BeatDetailsKey(t.userID, challengeID))
	if err != nil {
		return nil, fmt.Errorf("load beat details: %w", err)
	}
	return models.DecodeBeatDetails(data)
}

func (t *Tracker) saveDetails(challengeID uuid.UUID, ds []models.BeatDetail) error {
	data, err := models.EncodeBeatDetails(ds)
	if err != nil {
		return fmt.Errorf("encode beat details: %w", err)
	}
	if err := t.store.Set(store.BeatDetailsKey(t.userID, challengeID), data); err != nil {
		return fmt.Errorf("save beat details: %w", err)
	}
	if challengeID == t.currentID {
		t.details = ds
	}
	return nil
}

func (t *Tracker) loadRewards(challengeID uuid.UUID) ([]models.Reward, error) {
	data, err := t.getCollection(store.RewardsKey(t.userID, challengeID))
	if err != nil {
		return nil, fmt.Errorf("load rewards: %w", err)
	}
	return models.DecodeRewards(data)
}

func (t *Tracker) saveRewards(challengeID uuid.UUID, rs []models.Reward) error {
	data, err := models.EncodeRewards(rs)
	if err != nil {
		return fmt.Errorf("encode rewards: %w", err)
	}
	if err := t.store.Set(store.RewardsKey(t.userID, challengeID), data); err != nil {
		return fmt.Errorf("save rewards: %w", err)
	}
	if challengeID == t.currentID {
		t.rewards = rs
	}
	return nil
}

func (t *Tracker) loadStatements() ([]models.MotivationalStatement, error) {
	data, err := t.getCollection(store.StatementsKey(t.userID))
	if err != nil {
		return nil, fmt.Errorf("load statements: %w", err)
	}
	return models.DecodeStatements(data)
}

func (t *Tracker) saveStatements(ss []models.MotivationalStatement) error {
	data, err := models.EncodeStatements(ss)
	if err != nil {
		return fmt.Errorf("encode statements: %w", err)
	}
	if err := t.store.Set(store.StatementsKey(t.userID), data); err != nil {
		return fmt.Errorf("save statements: %w", err)
	}
	t.statements = ss
	return nil
}

func (t *Tracker) loadAllies() ([]models.Ally, error) {
	data, err := t.getCollection(store.AlliesKey(t.userID))
	if err != nil {
		return nil, fmt.Errorf("load allies: %w", err)
	}
	return models.DecodeAllies(data)
}

func (t *Tracker) saveAllies(as []models.Ally) error {
	data, err := models.EncodeAllies(as)
	if err != nil {
		return fmt.Errorf("encode allies: %w", err)
	}
	if err := t.store.Set(store.AlliesKey(t.userID), data); err != nil {
		return fmt.Errorf("save allies: %w", err)
	}
	t.allies = as
	return nil
}

// readDefaultChallengeID reads the default-challenge pointer; uuid.Nil if
// unset or unparseable.
func (t *Tracker) readDefaultChallengeID() uuid.UUID {
	data, err := t.store.Get(store.DefaultChallengeKey(t.userID))
	if err != nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(string(data))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (t *Tracker) writeDefaultChallengeID(id uuid.UUID) error {
	if err := t.store.Set(store.DefaultChallengeKey(t.userID), []byte(id.String())); err != nil {
		return fmt.Errorf("save default challenge pointer: %w", err)
	}
	return nil
}

func (t *Tracker) clearDefaultChallengeID() error {
	if err := t.store.Delete(store.DefaultChallengeKey(t.userID)); err != nil {
		return fmt.Errorf("clear default challenge pointer: %w", err)
	}
	return nil
}

// findChallenge locates a challenge by id in a snapshot.
func findChallenge(cs []models.Challenge, id uuid.UUID) (*models.Challenge, bool) {
	if id == uuid.Nil {
		return nil, false
	}
	for i := range cs {
		if cs[i].ID == id {
			return &cs[i], true
		}
	}
	return nil, false
}
