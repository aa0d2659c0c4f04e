// ABOUTME: HTTP sync server: bulk upsert endpoint, health check, read-back
// ABOUTME: routes, and Prometheus metrics over the shared key-value store.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stepbox/stepbox/internal/models"
	"github.com/stepbox/stepbox/internal/store"
	boxsync "github.com/stepbox/stepbox/internal/sync"
)

// Server is the stepBox sync server. It owns no domain logic beyond record
// validation: each record in a batch is decoded and merged into the store
// independently, so one bad record never poisons the rest.
type Server struct {
	store   store.Store
	cfg     *Config
	logger  *log.Logger
	metrics *metrics
}

// New creates a sync server over the given store.
func New(st store.Store, cfg *Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		store:   st,
		cfg:     cfg,
		logger:  logger,
		metrics: newMetrics(),
	}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.metrics.instrument)

	r.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	var metricsHandler http.Handler = promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})
	if s.cfg.MetricsProtected() {
		metricsHandler = basicAuth(s.cfg.MetricsUser, s.cfg.MetricsPass, metricsHandler)
	}
	r.Handle("/metrics", metricsHandler).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/sync", s.handleSync).Methods("POST")
	api.HandleFunc("/users/{userId}/challenges", s.handleListChallenges).Methods("GET")

	return handlers.RecoveryHandler()(handlers.CompressHandler(r))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	// The store has no ping; a probe read doubles as one.
	if _, err := s.store.Get("healthz"); err != nil && err != store.ErrNotFound {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "stepbox-sync"})
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	data, err := s.store.Get(store.ChallengesKey(userID))
	if err == store.ErrNotFound {
		writeJSON(w, http.StatusOK, []models.ChallengeRecord{})
		return
	}
	if err != nil {
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}
	challenges, err := models.DecodeChallenges(data)
	if err != nil {
		http.Error(w, "stored data unreadable", http.StatusInternalServerError)
		return
	}

	records := make([]models.ChallengeRecord, 0, len(challenges))
	for _, c := range challenges {
		records = append(records, c.Record())
	}
	writeJSON(w, http.StatusOK, records)
}

// handleSync applies a full snapshot batch. Upserts are idempotent: records
// are matched by id, so replaying the same payload leaves the store unchanged.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var payload boxsync.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	report := boxsync.Report{Results: map[string]boxsync.EntityResult{}}
	report.Results[boxsync.EntityChallenges] = s.upsertChallenges(payload.Challenges)
	report.Results[boxsync.EntityBeats] = s.upsertBeats(payload.Beats)
	report.Results[boxsync.EntityDetails] = s.upsertDetails(payload.BeatDetails, payload.Beats)
	report.Results[boxsync.EntityRewards] = s.upsertRewards(payload.Rewards)
	report.Results[boxsync.EntityStatements] = s.upsertStatements(payload.MotivationalStatements)

	for _, res := range report.Results {
		report.Summary.TotalSynced += res.Success
		report.Summary.TotalFailed += res.Failed
	}
	report.Success = report.Summary.TotalFailed == 0

	s.logger.Info("sync batch applied",
		"synced", report.Summary.TotalSynced,
		"failed", report.Summary.TotalFailed)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) upsertChallenges(records []models.ChallengeRecord) boxsync.EntityResult {
	res := boxsync.EntityResult{}
	byUser := map[string][]models.Challenge{}
	for _, rec := range records {
		c, err := models.ChallengeFromRecord(rec)
		if err != nil {
			fail(&res, fmt.Sprintf("challenge %s: %v", rec.ID, err))
			s.metrics.recordsRejected.WithLabelValues(boxsync.EntityChallenges).Inc()
			continue
		}
		byUser[c.UserID] = append(byUser[c.UserID], c)
	}

	for userID, incoming := range byUser {
		key := store.ChallengesKey(userID)
		err := s.mergeCollection(key,
			func(data []byte) (any, error) { return models.DecodeChallenges(data) },
			func(existing any) ([]byte, error) {
				merged := existing.([]models.Challenge)
				for _, c := range incoming {
					merged = upsertChallenge(merged, c)
				}
				return models.EncodeChallenges(merged)
			})
		if err != nil {
			fail(&res, fmt.Sprintf("user %s challenges: %v", userID, err))
			res.Failed += len(incoming) - 1
			continue
		}
		res.Success += len(incoming)
		s.metrics.recordsUpserted.WithLabelValues(boxsync.EntityChallenges).Add(float64(len(incoming)))
	}
	return res
}

func (s *Server) upsertBeats(records []models.BeatRecord) boxsync.EntityResult {
	res := boxsync.EntityResult{}
	type scope struct {
		userID      string
		challengeID uuid.UUID
	}
	grouped := map[scope][]models.Beat{}
	for _, rec := range records {
		b, err := models.BeatFromRecord(rec)
		if err != nil {
			fail(&res, fmt.Sprintf("beat %s: %v", rec.ID, err))
			s.metrics.recordsRejected.WithLabelValues(boxsync.EntityBeats).Inc()
			continue
		}
		k := scope{b.UserID, b.ChallengeID}
		grouped[k] = append(grouped[k], b)
	}

	for sc, incoming := range grouped {
		key := store.BeatsKey(sc.userID, sc.challengeID)
		err := s.mergeCollection(key,
			func(data []byte) (any, error) { return models.DecodeBeats(data) },
			func(existing any) ([]byte, error) {
				merged := existing.([]models.Beat)
				for _, b := range incoming {
					merged = upsertBeat(merged, b)
				}
				return models.EncodeBeats(merged)
			})
		if err != nil {
			fail(&res, fmt.Sprintf("beats %s: %v", key, err))
			res.Failed += len(incoming) - 1
			continue
		}
		res.Success += len(incoming)
		s.metrics.recordsUpserted.WithLabelValues(boxsync.EntityBeats).Add(float64(len(incoming)))
	}
	return res
}

func (s *Server) upsertDetails(records []models.BeatDetailRecord, beats []models.BeatRecord) boxsync.EntityResult {
	res := boxsync.EntityResult{}

	// Details carry no challenge id on the wire; resolve through the batch's
	// beats first, then through stored beat collections.
	beatChallenge := map[string]string{}
	for _, b := range beats {
		beatChallenge[b.ID] = b.ChallengeID
	}

	type scope struct {
		userID      string
		challengeID uuid.UUID
	}
	grouped := map[scope][]models.BeatDetail{}
	for _, rec := range records {
		d, err := models.BeatDetailFromRecord(rec)
		if err != nil {
			fail(&res, fmt.Sprintf("beat detail %s: %v", rec.ID, err))
			s.metrics.recordsRejected.WithLabelValues(boxsync.EntityDetails).Inc()
			continue
		}
		challengeID, err := s.resolveChallenge(d.UserID, rec.BeatID, beatChallenge)
		if err != nil {
			fail(&res, fmt.Sprintf("beat detail %s: %v", rec.ID, err))
			s.metrics.recordsRejected.WithLabelValues(boxsync.EntityDetails).Inc()
			continue
		}
		k := scope{d.UserID, challengeID}
		grouped[k] = append(grouped[k], d)
	}

	for sc, incoming := range grouped {
		key := store.BeatDetailsKey(sc.userID, sc.challengeID)
		err := s.mergeCollection(key,
			func(data []byte) (any, error) { return models.DecodeBeatDetails(data) },
			func(existing any) ([]byte, error) {
				merged := existing.([]models.BeatDetail)
				for _, d := range incoming {
					merged = upsertDetail(merged, d)
				}
				return models.EncodeBeatDetails(merged)
			})
		if err != nil {
			fail(&res, fmt.Sprintf("beat details %s: %v", key, err))
			res.Failed += len(incoming) - 1
			continue
		}
		res.Success += len(incoming)
		s.metrics.recordsUpserted.WithLabelValues(boxsync.EntityDetails).Add(float64(len(incoming)))
	}
	return res
}

func (s *Server) upsertRewards(records []models.RewardRecord) boxsync.EntityResult {
	res := boxsync.EntityResult{}
	type scope struct {
		userID      string
		challengeID uuid.UUID
	}
	grouped := map[scope][]models.Reward{}
	for _, rec := range records {
		r, err := models.RewardFromRecord(rec)
		if err != nil {
			fail(&res, fmt.Sprintf("reward %s: %v", rec.ID, err))
			s.metrics.recordsRejected.WithLabelValues(boxsync.EntityRewards).Inc()
			continue
		}
		k := scope{r.UserID, r.ChallengeID}
		grouped[k] = append(grouped[k], r)
	}

	for sc, incoming := range grouped {
		key := store.RewardsKey(sc.userID, sc.challengeID)
		err := s.mergeCollection(key,
			func(data []byte) (any, error) { return models.DecodeRewards(data) },
			func(existing any) ([]byte, error) {
				merged := existing.([]models.Reward)
				for _, r := range incoming {
					merged = upsertReward(merged, r)
				}
				return models.EncodeRewards(merged)
			})
		if err != nil {
			fail(&res, fmt.Sprintf("rewards %s: %v", key, err))
			res.Failed += len(incoming) - 1
			continue
		}
		res.Success += len(incoming)
		s.metrics.recordsUpserted.WithLabelValues(boxsync.EntityRewards).Add(float64(len(incoming)))
	}
	return res
}

func (s *Server) upsertStatements(records []models.StatementRecord) boxsync.EntityResult {
	res := boxsync.EntityResult{}
	byUser := map[string][]models.MotivationalStatement{}
	for _, rec := range records {
		st, err := models.StatementFromRecord(rec)
		if err != nil {
			fail(&res, fmt.Sprintf("statement %s: %v", rec.ID, err))
			s.metrics.recordsRejected.WithLabelValues(boxsync.EntityStatements).Inc()
			continue
		}
		byUser[st.UserID] = append(byUser[st.UserID], st)
	}

	for userID, incoming := range byUser {
		key := store.StatementsKey(userID)
		err := s.mergeCollection(key,
			func(data []byte) (any, error) { return models.DecodeStatements(data) },
			func(existing any) ([]byte, error) {
				merged := existing.([]models.MotivationalStatement)
				for _, st := range incoming {
					merged = upsertStatement(merged, st)
				}
				return models.EncodeStatements(merged)
			})
		if err != nil {
			fail(&res, fmt.Sprintf("user %s statements: %v", userID, err))
			res.Failed += len(incoming) - 1
			continue
		}
		res.Success += len(incoming)
		s.metrics.recordsUpserted.WithLabelValues(boxsync.EntityStatements).Add(float64(len(incoming)))
	}
	return res
}

// mergeCollection is the read-modify-write cycle for one collection key.
func (s *Server) mergeCollection(key string,
	decode func([]byte) (any, error),
	apply func(any) ([]byte, error)) error {

	data, err := s.store.Get(key)
	if err != nil && err != store.ErrNotFound {
		return fmt.Errorf("read %s: %w", key, err)
	}
	existing, err := decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	updated, err := apply(existing)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Set(key, updated); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// resolveChallenge finds the challenge a beat belongs to, checking the batch
// map first and stored beat collections second.
func (s *Server) resolveChallenge(userID, beatID string, batch map[string]string) (uuid.UUID, error) {
	if cid, ok := batch[beatID]; ok {
		return uuid.Parse(cid)
	}

	target, err := uuid.Parse(beatID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid beat id %q", beatID)
	}
	keys, err := s.store.Keys()
	if err != nil {
		return uuid.Nil, fmt.Errorf("scan store: %w", err)
	}
	prefix := fmt.Sprintf("beats:%s:", userID)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		data, err := s.store.Get(key)
		if err != nil {
			continue
		}
		beats, err := models.DecodeBeats(data)
		if err != nil {
			continue
		}
		for _, b := range beats {
			if b.ID == target {
				return b.ChallengeID, nil
			}
		}
	}
	return uuid.Nil, fmt.Errorf("unknown beat %s", beatID)
}

func upsertChallenge(cs []models.Challenge, c models.Challenge) []models.Challenge {
	for i := range cs {
		if cs[i].ID == c.ID {
			cs[i] = c
			return cs
		}
	}
	return append(cs, c)
}

func upsertBeat(bs []models.Beat, b models.Beat) []models.Beat {
	for i := range bs {
		if bs[i].ID == b.ID {
			bs[i] = b
			return bs
		}
	}
	return append(bs, b)
}

func upsertDetail(ds []models.BeatDetail, d models.BeatDetail) []models.BeatDetail {
	for i := range ds {
		if ds[i].ID == d.ID {
			ds[i] = d
			return ds
		}
	}
	return append(ds, d)
}

func upsertReward(rs []models.Reward, r models.Reward) []models.Reward {
	for i := range rs {
		if rs[i].ID == r.ID {
			rs[i] = r
			return rs
		}
	}
	return append(rs, r)
}

func upsertStatement(ss []models.MotivationalStatement, st models.MotivationalStatement) []models.MotivationalStatement {
	for i := range ss {
		if ss[i].ID == st.ID {
			ss[i] = st
			return ss
		}
	}
	return append(ss, st)
}

func fail(res *boxsync.EntityResult, msg string) {
	res.Failed++
	res.Errors = append(res.Errors, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
