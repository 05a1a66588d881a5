package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moodlog/internal/cache"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/service"
)

type memoryRemote struct {
	checkIns   []remote.CheckInRecord
	entries    []remote.JournalRecord
	activities []remote.ActivityRecord
	fetchErr   error
}

func (m *memoryRemote) FetchCheckIns(context.Context, string) ([]remote.CheckInRecord, error) {
	return m.checkIns, m.fetchErr
}

func (m *memoryRemote) CreateCheckIn(_ context.Context, userID string, in model.CheckInInput) (remote.CheckInRecord, error) {
	record := remote.NewCheckInRecord(model.CheckIn{
		ID: uuid.NewString(), UserID: userID, Slot: in.Slot,
		Mood: in.Mood, Stress: in.Stress, Energy: in.Energy, Note: in.Note,
		Timestamp: time.Now(),
	})
	m.checkIns = append(m.checkIns, record)
	return record, nil
}

func (m *memoryRemote) FetchJournalEntries(context.Context, string) ([]remote.JournalRecord, error) {
	return m.entries, m.fetchErr
}

func (m *memoryRemote) CreateJournalEntry(_ context.Context, userID string, in model.JournalInput) (remote.JournalRecord, error) {
	now := time.Now()
	record := remote.NewJournalRecord(model.JournalEntry{
		ID: uuid.NewString(), UserID: userID, Type: in.Type, Title: in.Title,
		Content: in.Content, Mood: in.Mood, Tags: in.Tags, Timestamp: now,
		Date: now.UTC().Format("2006-01-02"),
	})
	m.entries = append(m.entries, record)
	return record, nil
}

func (m *memoryRemote) UpdateJournalEntry(context.Context, string, string, model.JournalPatch) (remote.JournalRecord, error) {
	return remote.JournalRecord{}, remote.ErrNotFound
}

func (m *memoryRemote) DeleteJournalEntry(context.Context, string, string) error {
	return remote.ErrNotFound
}

func (m *memoryRemote) FetchActivitySessions(context.Context, string) ([]remote.ActivityRecord, error) {
	return m.activities, m.fetchErr
}

func (m *memoryRemote) CreateActivitySession(_ context.Context, userID string, in model.ActivityInput) (remote.ActivityRecord, error) {
	if m.fetchErr != nil {
		return remote.ActivityRecord{}, m.fetchErr
	}
	now := time.Now()
	record := remote.NewActivityRecord(model.ActivitySession{
		ID: uuid.NewString(), UserID: userID, Type: in.Type, Duration: in.Duration,
		Completed: in.Completed, PostMood: in.PostMood, PostStress: in.PostStress,
		Timestamp: now, Date: now.UTC().Format("2006-01-02"),
	})
	m.activities = append(m.activities, record)
	return record, nil
}

func newCLIStore(t *testing.T, rs *memoryRemote) *service.RecordStore {
	t.Helper()
	store := service.NewRecordStore("u1", rs, cache.NewMemory())
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}

func TestCheckInAndToday(t *testing.T) {
	store := newCLIStore(t, &memoryRemote{})
	ctx := context.Background()

	var out bytes.Buffer
	if err := runCommand(ctx, store, []string{"checkin", "morning", "5", "1", "5", "slept", "well"}, &out); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if !strings.Contains(out.String(), "today's score is now 25") {
		t.Fatalf("unexpected checkin output %q", out.String())
	}

	out.Reset()
	if err := runCommand(ctx, store, []string{"today"}, &out); err != nil {
		t.Fatalf("today failed: %v", err)
	}
	if !strings.Contains(out.String(), "[x] morning") || !strings.Contains(out.String(), "slept well") {
		t.Fatalf("expected morning to be checked, got %q", out.String())
	}
	if !strings.Contains(out.String(), "[ ] night") {
		t.Fatalf("expected night to be open, got %q", out.String())
	}
}

func TestCheckInRejectsBadInput(t *testing.T) {
	store := newCLIStore(t, &memoryRemote{})
	ctx := context.Background()

	var out bytes.Buffer
	if err := runCommand(ctx, store, []string{"checkin", "morning", "5"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := runCommand(ctx, store, []string{"checkin", "brunch", "3", "3", "3"}, &out); !errors.Is(err, model.ErrInvalidValue) {
		t.Fatalf("expected invalid slot, got %v", err)
	}
	if err := runCommand(ctx, store, []string{"checkin", "morning", "6", "3", "3"}, &out); !errors.Is(err, model.ErrInvalidValue) {
		t.Fatalf("expected out of range mood, got %v", err)
	}
	if len(store.GetState().CheckIns) != 0 {
		t.Fatal("expected no check-ins to be stored")
	}
}

func TestScoreStreakAndJournal(t *testing.T) {
	rs := &memoryRemote{}
	store := newCLIStore(t, rs)
	ctx := context.Background()

	var out bytes.Buffer
	if err := runCommand(ctx, store, []string{"score", "month"}, &out); err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if !strings.Contains(out.String(), "Month score: 0/100") {
		t.Fatalf("unexpected score output %q", out.String())
	}
	if err := runCommand(ctx, store, []string{"score", "fortnight"}, &out); err == nil {
		t.Fatal("expected unknown period to fail")
	}

	out.Reset()
	if err := runCommand(ctx, store, []string{"streak"}, &out); err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if !strings.Contains(out.String(), "completion streak: 0") {
		t.Fatalf("unexpected streak output %q", out.String())
	}

	if _, err := store.AddJournalEntry(ctx, model.JournalInput{Type: model.JournalGratitude, Title: "Coffee", Mood: 4}); err != nil {
		t.Fatalf("add journal entry: %v", err)
	}
	out.Reset()
	if err := runCommand(ctx, store, []string{"journal", "gratitude"}, &out); err != nil {
		t.Fatalf("journal failed: %v", err)
	}
	if !strings.Contains(out.String(), "Coffee") || strings.Contains(out.String(), "locked") {
		t.Fatalf("unexpected journal output %q", out.String())
	}
}

func TestHeavyCardCommand(t *testing.T) {
	store := newCLIStore(t, &memoryRemote{})
	ctx := context.Background()

	var out bytes.Buffer
	if err := runCommand(ctx, store, []string{"heavy-card"}, &out); err != nil || !strings.Contains(out.String(), "nothing to show") {
		t.Fatalf("unexpected heavy-card output %q (%v)", out.String(), err)
	}
	if err := runCommand(ctx, store, []string{"heavy-card", "dismissed"}, &out); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	if store.GetState().Settings.LastHeavyCardDismissedAt == nil {
		t.Fatal("expected dismissal to be recorded")
	}
	if err := runCommand(ctx, store, []string{"heavy-card", "later"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestSyncReportsCacheFallback(t *testing.T) {
	rs := &memoryRemote{}
	store := newCLIStore(t, rs)

	rs.fetchErr = remote.ErrUnavailable
	var out bytes.Buffer
	if err := runCommand(context.Background(), store, []string{"sync"}, &out); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if !strings.Contains(out.String(), "server unreachable") {
		t.Fatalf("expected offline notice, got %q", out.String())
	}

	if err := runCommand(context.Background(), store, []string{"dance"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestActivityCommand(t *testing.T) {
	rs := &memoryRemote{}
	store := newCLIStore(t, rs)
	ctx := context.Background()

	var out bytes.Buffer
	if err := runCommand(ctx, store, []string{"activity"}, &out); err != nil || !strings.Contains(out.String(), "no activity sessions") {
		t.Fatalf("expected empty listing, got %q (%v)", out.String(), err)
	}

	out.Reset()
	if err := runCommand(ctx, store, []string{"activity", "Breathing", "120", "4", "2"}, &out); err != nil {
		t.Fatalf("activity failed: %v", err)
	}
	if !strings.Contains(out.String(), "saved breathing session") {
		t.Fatalf("unexpected activity output %q", out.String())
	}
	if err := runCommand(ctx, store, []string{"activity", "exercise", "900"}, &out); err != nil {
		t.Fatalf("activity failed: %v", err)
	}

	if err := runCommand(ctx, store, []string{"activity", "breathing", "60", "4"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := runCommand(ctx, store, []string{"activity", "yoga", "60"}, &out); !errors.Is(err, model.ErrInvalidValue) {
		t.Fatalf("expected unknown type, got %v", err)
	}
	if err := runCommand(ctx, store, []string{"activity", "meditation", "60", "9", "1"}, &out); !errors.Is(err, model.ErrInvalidValue) {
		t.Fatalf("expected out of range post mood, got %v", err)
	}
	if len(rs.activities) != 2 {
		t.Fatalf("expected 2 stored sessions, got %d", len(rs.activities))
	}

	out.Reset()
	if err := runCommand(ctx, store, []string{"activity", "breathing"}, &out); err != nil {
		t.Fatalf("activity listing failed: %v", err)
	}
	if !strings.Contains(out.String(), "breathing") || strings.Contains(out.String(), "exercise") {
		t.Fatalf("expected only breathing sessions, got %q", out.String())
	}
}
