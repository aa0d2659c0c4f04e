// ABOUTME: Wire/storage records and codec between records and in-memory models.
// ABOUTME: Records carry all date fields as RFC 3339 strings; models use time.Time.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChallengeRecord is the storage and sync representation of a Challenge.
type ChallengeRecord struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Duration    int     `json:"duration"`
	Status      string  `json:"status,omitempty"`
	IsDefault   bool    `json:"isDefault"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	TemplateID  *string `json:"templateId,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// BeatRecord is the storage and sync representation of a Beat.
type BeatRecord struct {
	ID          string  `json:"id"`
	ChallengeID string  `json:"challengeId"`
	UserID      string  `json:"userId"`
	Date        string  `json:"date"`
	DayNumber   int     `json:"dayNumber"`
	IsCompleted bool    `json:"isCompleted"`
	CompletedAt *string `json:"completedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// BeatDetailRecord is the storage and sync representation of a BeatDetail.
type BeatDetailRecord struct {
	ID        string  `json:"id"`
	BeatID    string  `json:"beatId"`
	UserID    string  `json:"userId"`
	Content   string  `json:"content"`
	Category  *string `json:"category,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// RewardRecord is the storage and sync representation of a Reward.
type RewardRecord struct {
	ID          string  `json:"id"`
	ChallengeID string  `json:"challengeId"`
	UserID      string  `json:"userId"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	ProofURL    *string `json:"proofUrl,omitempty"`
	AchievedAt  *string `json:"achievedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// StatementRecord is the storage and sync representation of a MotivationalStatement.
type StatementRecord struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	ChallengeID   *string `json:"challengeId,omitempty"`
	Title         string  `json:"title"`
	Statement     string  `json:"statement"`
	Why           *string `json:"why,omitempty"`
	Collaboration *string `json:"collaboration,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// AllyRecord is the storage representation of an Ally.
type AllyRecord struct {
	ID                      string                  `json:"id"`
	UserID                  string                  `json:"userId"`
	Name                    string                  `json:"name"`
	Email                   string                  `json:"email"`
	Role                    *string                 `json:"role,omitempty"`
	Phone                   *string                 `json:"phone,omitempty"`
	TelegramHandle          *string                 `json:"telegramHandle,omitempty"`
	SlackHandle             *string                 `json:"slackHandle,omitempty"`
	DiscordUsername         *string                 `json:"discordUsername,omitempty"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
	CreatedAt               string                  `json:"createdAt"`
	UpdatedAt               string                  `json:"updatedAt"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", field, err)
	}
	return t, nil
}

func parseTimePtr(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Record converts a Challenge to its wire representation.
func (c Challenge) Record() ChallengeRecord {
	return ChallengeRecord{
		ID:          c.ID.String(),
		UserID:      c.UserID,
		Title:       c.Title,
		Description: c.Description,
		Duration:    c.Duration,
		Status:      string(c.Status),
		IsDefault:   c.IsDefault,
		StartDate:   formatTime(c.StartDate),
		EndDate:     formatTime(c.EndDate),
		TemplateID:  c.TemplateID,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

// ChallengeFromRecord converts a wire record back to a Challenge.
func ChallengeFromRecord(r ChallengeRecord) (Challenge, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Challenge{}, fmt.Errorf("parse challenge id: %w", err)
	}
	start, err := parseTime("startDate", r.StartDate)
	if err != nil {
		return Challenge{}, err
	}
	end, err := parseTime("endDate", r.EndDate)
	if err != nil {
		return Challenge{}, err
	}
	created, err := parseTime("createdAt", r.CreatedAt)
	if err != nil {
		return Challenge{}, err
	}
	updated, err := parseTime("updatedAt", r.UpdatedAt)
	if err != nil {
		return Challenge{}, err
	}
	return Challenge{
		ID:          id,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Duration:    r.Duration,
		Status:      ChallengeStatus(r.Status),
		IsDefault:   r.IsDefault,
		StartDate:   start,
		EndDate:     end,
		TemplateID:  r.TemplateID,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// Record converts a Beat to its wire representation.
func (b Beat) Record() BeatRecord {
	return BeatRecord{
		ID:          b.ID.String(),
		ChallengeID: b.ChallengeID.String(),
		UserID:      b.UserID,
		Date:        formatTime(b.Date),
		DayNumber:   b.DayNumber,
		IsCompleted: b.IsCompleted,
		CompletedAt: formatTimePtr(b.CompletedAt),
		CreatedAt:   formatTime(b.CreatedAt),
		UpdatedAt:   formatTime(b.UpdatedAt),
	}
}

// BeatFromRecord converts a wire record back to a Beat.
func BeatFromRecord(r BeatRecord) (Beat, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Beat{}, fmt.Errorf("parse beat id: %w", err)
	}
	challengeID, err := uuid.Parse(r.ChallengeID)
	if err != nil {
		return Beat{}, fmt.Errorf("parse beat challengeId: %w", err)
	}
	date, err := parseTime("date", r.Date)
	if err != nil {
		return Beat{}, err
	}
	completedAt, err := parseTimePtr("completedAt", r.CompletedAt)
	if err != nil {
		return Beat{}, err
	}
	created, err := parseTime("createdAt", r.CreatedAt)
	if err != nil {
		return Beat{}, err
	}
	updated, err := parseTime("updatedAt", r.UpdatedAt)
	if err != nil {
		return Beat{}, err
	}
	return Beat{
		ID:          id,
		ChallengeID: challengeID,
		UserID:      r.UserID,
		Date:        date,
		DayNumber:   r.DayNumber,
		IsCompleted: r.IsCompleted,
		CompletedAt: completedAt,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// Record converts a BeatDetail to its wire representation.
func (d BeatDetail) Record() BeatDetailRecord {
	return BeatDetailRecord{
		ID:        d.ID.String(),
		BeatID:    d.BeatID.String(),
		UserID:    d.UserID,
		Content:   d.Content,
		Category:  d.Category,
		CreatedAt: formatTime(d.CreatedAt),
		UpdatedAt: formatTime(d.UpdatedAt),
	}
}

// BeatDetailFromRecord converts a wire record back to a BeatDetail.
func BeatDetailFromRecord(r BeatDetailRecord) (BeatDetail, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return BeatDetail{}, fmt.Errorf("parse detail id: %w", err)
	}
	beatID, err := uuid.Parse(r.BeatID)
	if err != nil {
		return BeatDetail{}, fmt.Errorf("parse detail beatId: %w", err)
	}
	created, err := parseTime("createdAt", r.CreatedAt)
	if err != nil {
		return BeatDetail{}, err
	}
	updated, err := parseTime("updatedAt", r.UpdatedAt)
	if err != nil {
		return BeatDetail{}, err
	}
	return BeatDetail{
		ID:        id,
		BeatID:    beatID,
		UserID:    r.UserID,
		Content:   r.Content,
		Category:  r.Category,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// Record converts a Reward to its wire representation.
func (r Reward) Record() RewardRecord {
	return RewardRecord{
		ID:          r.ID.String(),
		ChallengeID: r.ChallengeID.String(),
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Status:      string(r.Status),
		ProofURL:    r.ProofURL,
		AchievedAt:  formatTimePtr(r.AchievedAt),
		CreatedAt:   formatTime(r.CreatedAt),
		UpdatedAt:   formatTime(r.UpdatedAt),
	}
}

// RewardFromRecord converts a wire record back to a Reward.
func RewardFromRecord(r RewardRecord) (Reward, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Reward{}, fmt.Errorf("parse reward id: %w", err)
	}
	challengeID, err := uuid.Parse(r.ChallengeID)
	if err != nil {
		return Reward{}, fmt.Errorf("parse reward challengeId: %w", err)
	}
	achievedAt, err := parseTimePtr("achievedAt", r.AchievedAt)
	if err != nil {
		return Reward{}, err
	}
	created, err := parseTime("createdAt", r.CreatedAt)
	if err != nil {
		return Reward{}, err
	}
	updated, err := parseTime("updatedAt", r.UpdatedAt)
	if err != nil {
		return Reward{}, err
	}
	return Reward{
		ID:          id,
		ChallengeID: challengeID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Status:      RewardStatus(r.Status),
		ProofURL:    r.ProofURL,
		AchievedAt:  achievedAt,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// Record converts a MotivationalStatement to its wire representation.
func (s MotivationalStatement) Record() StatementRecord {
	var challengeID *string
	if s.ChallengeID != nil {
		v := s.ChallengeID.String()
		challengeID = &v
	}
	return StatementRecord{
		ID:            s.ID.String(),
		UserID:        s.UserID,
		ChallengeID:   challengeID,
		Title:         s.Title,
		Statement:     s.Statement,
		Why:           s.Why,
		Collaboration: s.Collaboration,
		CreatedAt:     formatTime(s.CreatedAt),
		UpdatedAt:     formatTime(s.UpdatedAt),
	}
}

// StatementFromRecord converts a wire record back to a MotivationalStatement.
func StatementFromRecord(r StatementRecord) (MotivationalStatement, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return MotivationalStatement{}, fmt.Errorf("parse statement id: %w", err)
	}
	var challengeID *uuid.UUID
	if r.ChallengeID != nil {
		cid, err := uuid.Parse(*r.ChallengeID)
		if err != nil {
			return MotivationalStatement{}, fmt.Errorf("parse statement challengeId: %w", err)
		}
		challengeID = &cid
	}
	created, err := parseTime("createdAt", r.CreatedAt)
	if err != nil {
		return MotivationalStatement{}, err
	}
	updated, err := parseTime("updatedAt", r.UpdatedAt)
	if err != nil {
		return MotivationalStatement{}, err
	}
	return MotivationalStatement{
		ID:            id,
		UserID:        r.UserID,
		ChallengeID:   challengeID,
		Title:         r.Title,
		Statement:     r.Statement,
		Why:           r.Why,
		Collaboration: r.Collaboration,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}, nil
}

// Record converts an Ally to its wire representation.
func (a Ally) Record() AllyRecord {
	return AllyRecord{
		ID:                      a.ID.String(),
		UserID:                  a.UserID,
		Name:                    a.Name,
		Email:                   a.Email,
		Role:                    a.Role,
		Phone:                   a.Phone,
		TelegramHandle:          a.TelegramHandle,
		SlackHandle:             a.SlackHandle,
		DiscordUsername:         a.DiscordUsername,
		NotificationPreferences: a.NotificationPreferences,
		CreatedAt:               formatTime(a.CreatedAt),
		UpdatedAt:               formatTime(a.UpdatedAt),
	}
}

// AllyFromRecord converts a wire record back to an Ally.
func AllyFromRecord(r AllyRecord) (Ally, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return Ally{}, fmt.Errorf("parse ally id: %w", err)
	}
	created, err := parseTime("createdAt", r.CreatedAt)
	if err != nil {
		return Ally{}, err
	}
	updated, err := parseTime("updatedAt", r.UpdatedAt)
	if err != nil {
		return Ally{}, err
	}
	return Ally{
		ID:                      id,
		UserID:                  r.UserID,
		Name:                    r.Name,
		Email:                   r.Email,
		Role:                    r.Role,
		Phone:                   r.Phone,
		TelegramHandle:          r.TelegramHandle,
		SlackHandle:             r.SlackHandle,
		DiscordUsername:         r.DiscordUsername,
		NotificationPreferences: r.NotificationPreferences,
		CreatedAt:               created,
		UpdatedAt:               updated,
	}, nil
}

// encodeRecords marshals a slice of wire records as a JSON array.
func encodeRecords[R any](records []R) ([]byte, error) {
	if records == nil {
		records = []R{}
	}
	return json.Marshal(records)
}

// decodeRecords unmarshals a JSON array of wire records. Nil or empty input
// decodes to an empty slice.
func decodeRecords[R any](data []byte) ([]R, error) {
	if len(data) == 0 {
		return []R{}, nil
	}
	var records []R
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EncodeChallenges serializes challenges for storage.
func EncodeChallenges(cs []Challenge) ([]byte, error) {
	records := make([]ChallengeRecord, 0, len(cs))
	for _, c := range cs {
		records = append(records, c.Record())
	}
	return encodeRecords(records)
}

// DecodeChallenges deserializes a stored challenge collection.
func DecodeChallenges(data []byte) ([]Challenge, error) {
	records, err := decodeRecords[ChallengeRecord](data)
	if err != nil {
		return nil, fmt.Errorf("decode challenges: %w", err)
	}
	out := make([]Challenge, 0, len(records))
	for _, r := range records {
		c, err := ChallengeFromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// EncodeBeats serializes beats for storage.
func EncodeBeats(bs []Beat) ([]byte, error) {
	records := make([]BeatRecord, 0, len(bs))
	for _, b := range bs {
		records = append(records, b.Record())
	}
	return encodeRecords(records)
}

// DecodeBeats deserializes a stored beat collection.
func DecodeBeats(data []byte) ([]Beat, error) {
	records, err := decodeRecords[BeatRecord](data)
	if err != nil {
		return nil, fmt.Errorf("decode beats: %w", err)
	}
	out := make([]Beat, 0, len(records))
	for _, r := range records {
		b, err := BeatFromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// EncodeBeatDetails serializes beat details for storage.
func EncodeBeatDetails(ds []BeatDetail) ([]byte, error) {
	records := make([]BeatDetailRecord, 0, len(ds))
	for _, d := range ds {
		records = append(records, d.Record())
	}
	return encodeRecords(records)
}

// DecodeBeatDetails deserializes a stored beat detail collection.
func DecodeBeatDetails(data []byte) ([]BeatDetail, error) {
	records, err := decodeRecords[BeatDetailRecord](data)
	if err != nil {
		return nil, fmt.Errorf("decode beat details: %w", err)
	}
	out := make([]BeatDetail, 0, len(records))
	for _, r := range records {
		d, err := BeatDetailFromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// EncodeRewards serializes rewards for storage.
func EncodeRewards(rs []Reward) ([]byte, error) {
	records := make([]RewardRecord, 0, len(rs))
	for _, r := range rs {
		records = append(records, r.Record())
	}
	return encodeRecords(records)
}

// DecodeRewards deserializes a stored reward collection.
func DecodeRewards(data []byte) ([]Reward, error) {
	records, err := decodeRecords[RewardRecord](data)
	if err != nil {
		return nil, fmt.Errorf("decode rewards: %w", err)
	}
	out := make([]Reward, 0, len(records))
	for _, r := range records {
		rw, err := RewardFromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, nil
}

// EncodeStatements serializes motivational statements for storage.
func EncodeStatements(ss []MotivationalStatement) ([]byte, error) {
	records := make([]StatementRecord, 0, len(ss))
	for _, s := range ss {
		records = append(records, s.Record())
	}
	return encodeRecords(records)
}

// DecodeStatements deserializes a stored statement collection.
func DecodeStatements(data []byte) ([]MotivationalStatement, error) {
	records, err := decodeRecords[StatementRecord](data)
	if err != nil {
		return nil, fmt.Errorf("decode statements: %w", err)
	}
	out := make([]MotivationalStatement, 0, len(records))
	for _, r := range records {
		s, err := StatementFromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// EncodeAllies serializes allies for storage.
func EncodeAllies(as []Ally) ([]byte, error) {
	records := make([]AllyRecord, 0, len(as))
	for _, a := range as {
		records = append(records, a.Record())
	}
	return encodeRecords(records)
}

// DecodeAllies deserializes a stored ally collection.
func DecodeAllies(data []byte) ([]Ally, error) {
	records, err := decodeRecords[AllyRecord](data)
	if err != nil {
		return nil, fmt.Errorf("decode allies: %w", err)
	}
	out := make([]Ally, 0, len(records))
	for _, r := range records {
		a, err := AllyFromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
