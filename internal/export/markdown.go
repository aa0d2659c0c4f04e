// ABOUTME: Markdown rendering of the user snapshot as a progress report.
// ABOUTME: One section per challenge with a completion table and rewards list.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stepbox/stepbox/internal/tracker"
)

// Markdown renders the snapshot as a progress report. Only beats with at
// least one detail get a log row; untouched days are summarized in the
// header line.
func Markdown(snap *tracker.Snapshot, now time.Time) string {
	detailsByBeat := make(map[uuid.UUID][]string)
	for _, d := range snap.Details {
		detailsByBeat[d.BeatID] = append(detailsByBeat[d.BeatID], d.Content)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# stepBox Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.UTC().Format(time.RFC3339)))

	for _, c := range snap.Challenges {
		total, completed := 0, 0
		for _, b := range snap.Beats {
			if b.ChallengeID != c.ID {
				continue
			}
			total++
			if len(detailsByBeat[b.ID]) > 0 {
				completed++
			}
		}

		sb.WriteString(fmt.Sprintf("## %s\n\n", c.Title))
		status := string(c.Status)
		if status == "" {
			status = "inactive"
		}
		sb.WriteString(fmt.Sprintf("%s · %s to %s · %d/%d days logged\n\n",
			status,
			c.StartDate.Format("2006-01-02"),
			c.EndDate.Format("2006-01-02"),
			completed, total))

		if completed > 0 {
			sb.WriteString("| Day | Date | Log |\n")
			sb.WriteString("|-----|------|-----|\n")
			for _, b := range snap.Beats {
				if b.ChallengeID != c.ID {
					continue
				}
				details := detailsByBeat[b.ID]
				if len(details) == 0 {
					continue
				}
				sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n",
					b.DayNumber, b.Date.Format("2006-01-02"),
					strings.Join(details, "; ")))
			}
			sb.WriteString("\n")
		}

		wroteHeader := false
		for _, r := range snap.Rewards {
			if r.ChallengeID != c.ID {
				continue
			}
			if !wroteHeader {
				sb.WriteString("### Rewards\n\n")
				wroteHeader = true
			}
			line := fmt.Sprintf("- %s (%s)", r.Title, r.Status)
			if r.AchievedAt != nil {
				line = fmt.Sprintf("- %s (achieved %s)", r.Title, r.AchievedAt.Format("2006-01-02"))
			}
			sb.WriteString(line + "\n")
		}
		if wroteHeader {
			sb.WriteString("\n")
		}
	}

	if len(snap.Statements) > 0 {
		sb.WriteString("## Motivation\n\n")
		for _, s := range snap.Statements {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", s.Title, s.Statement))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
