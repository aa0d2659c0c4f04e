// ABOUTME: Export of the full user snapshot to JSON, YAML, and CSV.
// ABOUTME: JSON uses the wire record shapes; YAML and CSV are human-oriented.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/models"
	"github.com/stepbox/stepbox/internal/tracker"
	"gopkg.in/yaml.v3"
)

// Data is the versioned export envelope.
type Data struct {
	Version                string                    `json:"version"`
	ExportedAt             string                    `json:"exportedAt"`
	Tool                   string                    `json:"tool"`
	UserID                 string                    `json:"userId"`
	Challenges             []models.ChallengeRecord  `json:"challenges"`
	Beats                  []models.BeatRecord       `json:"beats"`
	BeatDetails            []models.BeatDetailRecord `json:"beatDetails"`
	Rewards                []models.RewardRecord     `json:"rewards"`
	MotivationalStatements []models.StatementRecord  `json:"motivationalStatements"`
	Allies                 []models.AllyRecord       `json:"allies"`
}

// FromSnapshot converts a tracker snapshot into the export envelope.
func FromSnapshot(snap *tracker.Snapshot, now time.Time) *Data {
	d := &Data{
		Version:    "1.0",
		ExportedAt: now.UTC().Format(time.RFC3339),
		Tool:       "stepbox",
		UserID:     snap.UserID,
	}
	for _, c := range snap.Challenges {
		d.Challenges = append(d.Challenges, c.Record())
	}
	for _, b := range snap.Beats {
		d.Beats = append(d.Beats, b.Record())
	}
	for _, bd := range snap.Details {
		d.BeatDetails = append(d.BeatDetails, bd.Record())
	}
	for _, r := range snap.Rewards {
		d.Rewards = append(d.Rewards, r.Record())
	}
	for _, s := range snap.Statements {
		d.MotivationalStatements = append(d.MotivationalStatements, s.Record())
	}
	for _, a := range snap.Allies {
		d.Allies = append(d.Allies, a.Record())
	}
	return d
}

// JSON renders the export as indented JSON.
func JSON(d *Data) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// yamlChallenge is the YAML-friendly per-challenge grouping: short ids and
// nested beats so the file reads as a journal rather than a record dump.
type yamlChallenge struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Status    string     `yaml:"status,omitempty"`
	Duration  int        `yaml:"duration"`
	StartDate string     `yaml:"start_date"`
	EndDate   string     `yaml:"end_date"`
	Beats     []yamlBeat `yaml:"beats,omitempty"`
}

type yamlBeat struct {
	Day       int      `yaml:"day"`
	Date      string   `yaml:"date"`
	Completed bool     `yaml:"completed"`
	Details   []string `yaml:"details,omitempty"`
}

type yamlExport struct {
	Version    string          `yaml:"version"`
	ExportedAt string          `yaml:"exported_at"`
	Tool       string          `yaml:"tool"`
	UserID     string          `yaml:"user_id"`
	Challenges []yamlChallenge `yaml:"challenges"`
}

// YAML renders the snapshot grouped by challenge. Beats without details are
// listed with their completion flag only.
func YAML(snap *tracker.Snapshot, now time.Time) ([]byte, error) {
	detailsByBeat := make(map[uuid.UUID][]string)
	for _, d := range snap.Details {
		detailsByBeat[d.BeatID] = append(detailsByBeat[d.BeatID], d.Content)
	}

	out := yamlExport{
		Version:    "1.0",
		ExportedAt: now.UTC().Format(time.RFC3339),
		Tool:       "stepbox",
		UserID:     snap.UserID,
	}
	for _, c := range snap.Challenges {
		yc := yamlChallenge{
			ID:        c.ID.String()[:8],
			Title:     c.Title,
			Status:    string(c.Status),
			Duration:  c.Duration,
			StartDate: c.StartDate.Format("2006-01-02"),
			EndDate:   c.EndDate.Format("2006-01-02"),
		}
		for _, b := range snap.Beats {
			if b.ChallengeID != c.ID {
				continue
			}
			details := detailsByBeat[b.ID]
			yc.Beats = append(yc.Beats, yamlBeat{
				Day:       b.DayNumber,
				Date:      b.Date.Format("2006-01-02"),
				Completed: len(details) > 0,
				Details:   details,
			})
		}
		out.Challenges = append(out.Challenges, yc)
	}
	return yaml.Marshal(out)
}

// CSV renders the daily log as one row per beat. The standard library csv
// writer is used directly; no ecosystem package adds anything over it for a
// flat row dump.
func CSV(snap *tracker.Snapshot) ([]byte, error) {
	titles := make(map[uuid.UUID]string, len(snap.Challenges))
	for _, c := range snap.Challenges {
		titles[c.ID] = c.Title
	}
	detailCount := make(map[uuid.UUID]int)
	for _, d := range snap.Details {
		detailCount[d.BeatID]++
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"challenge", "day", "date", "completed", "details"}); err != nil {
		return nil, err
	}
	for _, b := range snap.Beats {
		n := detailCount[b.ID]
		row := []string{
			titles[b.ChallengeID],
			strconv.Itoa(b.DayNumber),
			b.Date.Format("2006-01-02"),
			strconv.FormatBool(n > 0),
			strconv.Itoa(n),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
