// Package remote holds the authoritative record store contract, its JSON
// wire shapes, and two implementations: a gorm-backed store used by the
// server and an HTTP client used by the CLI.
package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moodlog/internal/model"
)

var (
	// ErrUnauthorized is returned for calls without an authenticated user.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when a record does not exist for the user.
	ErrNotFound = errors.New("record not found")
	// ErrLocked is returned when a journal entry is past its edit window.
	ErrLocked = errors.New("journal entry can no longer be edited")
	// ErrUnavailable wraps network and backend failures.
	ErrUnavailable = errors.New("remote store unavailable")
)

// Store is the remote record store. Every call is scoped to userID; an
// empty userID fails with ErrUnauthorized.
type Store interface {
	FetchCheckIns(ctx context.Context, userID string) ([]CheckInRecord, error)
	CreateCheckIn(ctx context.Context, userID string, in model.CheckInInput) (CheckInRecord, error)
	FetchJournalEntries(ctx context.Context, userID string) ([]JournalRecord, error)
	CreateJournalEntry(ctx context.Context, userID string, in model.JournalInput) (JournalRecord, error)
	UpdateJournalEntry(ctx context.Context, userID, id string, patch model.JournalPatch) (JournalRecord, error)
	DeleteJournalEntry(ctx context.Context, userID, id string) error
	FetchActivitySessions(ctx context.Context, userID string) ([]ActivityRecord, error)
	CreateActivitySession(ctx context.Context, userID string, in model.ActivityInput) (ActivityRecord, error)
}

// CheckInRecord is the wire shape of a check-in.
type CheckInRecord struct {
	ID        string  `json:"id"`
	UserID    *string `json:"user_id"`
	Slot      string  `json:"slot"`
	Mood      int     `json:"mood"`
	Stress    int     `json:"stress"`
	Energy    int     `json:"energy"`
	Note      *string `json:"note"`
	CreatedAt string  `json:"created_at"`
}

// JournalRecord is the wire shape of a journal entry.
type JournalRecord struct {
	ID        string             `json:"id"`
	UserID    *string            `json:"user_id"`
	Type      string             `json:"type"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Mood      int                `json:"mood"`
	Tags      []string           `json:"tags"`
	AudioURI  *string            `json:"audio_uri"`
	Meta      *model.JournalMeta `json:"meta"`
	Date      string             `json:"date"`
	CreatedAt string             `json:"created_at"`
}

// ToModel converts and validates a wire record.
func (r CheckInRecord) ToModel() (model.CheckIn, error) {
	createdAt, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return model.CheckIn{}, fmt.Errorf("check-in %s: %w", r.ID, err)
	}
	slot, err := model.ParseSlot(r.Slot)
	if err != nil {
		return model.CheckIn{}, err
	}

	record := model.CheckIn{
		ID:        r.ID,
		UserID:    deref(r.UserID),
		Slot:      slot,
		Mood:      r.Mood,
		Stress:    r.Stress,
		Energy:    r.Energy,
		Note:      deref(r.Note),
		Timestamp: createdAt,
	}
	if err := record.Validate(); err != nil {
		return model.CheckIn{}, err
	}
	return record, nil
}

// NewCheckInRecord is the inverse of CheckInRecord.ToModel.
func NewCheckInRecord(c model.CheckIn) CheckInRecord {
	return CheckInRecord{
		ID:        c.ID,
		UserID:    optional(c.UserID),
		Slot:      string(c.Slot),
		Mood:      c.Mood,
		Stress:    c.Stress,
		Energy:    c.Energy,
		Note:      optional(c.Note),
		CreatedAt: formatTimestamp(c.Timestamp),
	}
}

// ToModel converts and validates a wire record.
func (r JournalRecord) ToModel() (model.JournalEntry, error) {
	createdAt, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("journal entry %s: %w", r.ID, err)
	}
	if strings.TrimSpace(r.ID) == "" {
		return model.JournalEntry{}, fmt.Errorf("%w: journal entry id is required", model.ErrInvalidValue)
	}
	entryType, err := model.ParseJournalType(r.Type)
	if err != nil {
		return model.JournalEntry{}, err
	}
	if err := model.ValidateAxis("mood", r.Mood); err != nil {
		return model.JournalEntry{}, err
	}

	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.JournalEntry{
		ID:        r.ID,
		UserID:    deref(r.UserID),
		Type:      entryType,
		Title:     r.Title,
		Content:   r.Content,
		Mood:      r.Mood,
		Tags:      tags,
		AudioURI:  deref(r.AudioURI),
		Meta:      r.Meta,
		Timestamp: createdAt,
		Date:      r.Date,
	}, nil
}

// NewJournalRecord is the inverse of JournalRecord.ToModel.
func NewJournalRecord(e model.JournalEntry) JournalRecord {
	return JournalRecord{
		ID:        e.ID,
		UserID:    optional(e.UserID),
		Type:      string(e.Type),
		Title:     e.Title,
		Content:   e.Content,
		Mood:      e.Mood,
		Tags:      e.Tags,
		AudioURI:  optional(e.AudioURI),
		Meta:      e.Meta,
		Date:      e.Date,
		CreatedAt: formatTimestamp(e.Timestamp),
	}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUnauthorized
	}
	return nil
}

func parseTimestamp(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad created_at %q", model.ErrInvalidValue, raw)
	}
	return ts, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
