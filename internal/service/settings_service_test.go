package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moodlog/internal/cache"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/scoring"
)

func TestSettingsServiceCreatesDefaults(t *testing.T) {
	mem := cache.NewMemory()
	svc := NewSettingsService(mem)

	settings := svc.Load(context.Background(), "u1")
	if settings.ID == "" || settings.UserID != "u1" {
		t.Fatalf("expected id and user id to be set, got %+v", settings)
	}
	if settings.NotifMorning != "07:30" {
		t.Fatalf("unexpected notification default %q", settings.NotifMorning)
	}
	if _, ok, _ := mem.Get(context.Background(), cache.UserSettingsKey("u1")); !ok {
		t.Fatal("expected defaults to be persisted")
	}

	again := svc.Load(context.Background(), "u1")
	if again.ID != settings.ID {
		t.Fatalf("expected stored settings to be reused, got %s vs %s", again.ID, settings.ID)
	}
}

func TestSettingsServiceMigratesMissingScoring(t *testing.T) {
	mem := cache.NewMemory()
	legacy := `{"id":"s1","userId":"u1","notifMorning":"08:00","thresholds":{"moodLowCutoff":2,"stressHighCutoff":4,"energyLowCutoff":2,"minSlotsPerDay":1,"streakDaysRequired":2}}`
	if err := mem.Set(context.Background(), cache.UserSettingsKey("u1"), legacy); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	settings := NewSettingsService(mem).Load(context.Background(), "u1")
	if settings.Scoring != model.DefaultScoringSettings() {
		t.Fatalf("expected default scoring after migration, got %+v", settings.Scoring)
	}
	if settings.Thresholds.StreakDaysRequired != 2 || settings.NotifMorning != "08:00" {
		t.Fatalf("expected existing fields to survive migration, got %+v", settings)
	}

	raw, _, _ := mem.Get(context.Background(), cache.UserSettingsKey("u1"))
	if !strings.Contains(raw, `"scoring"`) {
		t.Fatalf("expected migrated blob to be written back, got %s", raw)
	}
}

func TestSettingsServiceResetsCorruptBlob(t *testing.T) {
	mem := cache.NewMemory()
	if err := mem.Set(context.Background(), cache.UserSettingsKey("u1"), "{broken"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	settings := NewSettingsService(mem).Load(context.Background(), "u1")
	if settings.Thresholds != model.DefaultThresholds() {
		t.Fatalf("expected default thresholds, got %+v", settings.Thresholds)
	}
}

func TestSessionsLoadOnceAndDropOnFailure(t *testing.T) {
	clock := func() time.Time { return storeNow }
	fake := newFakeRemote(clock)
	mem := cache.NewMemory()
	created := 0
	sessions := NewSessions(func(userID string) *RecordStore {
		created++
		return NewRecordStore(userID, fake, mem, WithClock(clock))
	})

	ctx := context.Background()
	first, err := sessions.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	second, err := sessions.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if first != second || created != 1 {
		t.Fatalf("expected one store per user, created %d", created)
	}
	if fake.callCount("FetchCheckIns") != 1 {
		t.Fatalf("expected a single load, got %d", fake.callCount("FetchCheckIns"))
	}

	if _, err := sessions.Get(ctx, " "); !errors.Is(err, remote.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for blank user, got %v", err)
	}

	fake.fetchErr = remote.ErrUnauthorized
	if _, err := sessions.Get(ctx, "u2"); !errors.Is(err, remote.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	fake.fetchErr = nil
	if _, err := sessions.Get(ctx, "u2"); err != nil {
		t.Fatalf("expected retry after failed load to succeed, got %v", err)
	}
	if created != 3 {
		t.Fatalf("expected failed store to be discarded, created %d", created)
	}

	sessions.Drop("u1")
	if _, err := sessions.Get(ctx, "u1"); err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if created != 4 {
		t.Fatalf("expected dropped session to be rebuilt, created %d", created)
	}
}

func TestSessionsConcurrentFirstAccessWaitsForLoad(t *testing.T) {
	clock := func() time.Time { return storeNow }
	fake := newFakeRemote(clock)
	for i, slot := range model.Slots {
		fake.checkIns = append(fake.checkIns, remoteCheckIn(fmt.Sprintf("c%d", i), slot, 5, 1, 5, storeNow.Add(-time.Duration(i+1)*time.Hour)))
	}
	fake.fetchGate = make(chan struct{})
	fake.fetchStarted = make(chan struct{}, 1)

	var mu sync.Mutex
	created := 0
	sessions := NewSessions(func(userID string) *RecordStore {
		mu.Lock()
		created++
		mu.Unlock()
		return NewRecordStore(userID, fake, cache.NewMemory(), WithClock(clock), WithCalendar(scoring.NewCalendar(time.UTC)))
	})

	type result struct {
		store *RecordStore
		err   error
	}
	get := func(out chan<- result) {
		store, err := sessions.Get(context.Background(), "u1")
		out <- result{store, err}
	}

	firstDone := make(chan result, 1)
	go get(firstDone)
	<-fake.fetchStarted

	secondDone := make(chan result, 1)
	go get(secondDone)
	select {
	case r := <-secondDone:
		t.Fatalf("second caller returned before the first load finished: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}

	close(fake.fetchGate)
	first, second := <-firstDone, <-secondDone
	if first.err != nil || second.err != nil {
		t.Fatalf("unexpected errors: %v, %v", first.err, second.err)
	}
	if first.store != second.store || created != 1 {
		t.Fatalf("expected one shared store, created %d", created)
	}
	if score := second.store.GetDailyScore(); score != 100 {
		t.Fatalf("expected loaded score 100, got %d", score)
	}
	if fake.callCount("FetchCheckIns") != 1 {
		t.Fatalf("expected a single load, got %d", fake.callCount("FetchCheckIns"))
	}
}

func TestSessionsConcurrentFirstAccessSharesFailure(t *testing.T) {
	clock := func() time.Time { return storeNow }
	fake := newFakeRemote(clock)
	fake.fetchErr = remote.ErrUnauthorized
	fake.fetchGate = make(chan struct{})
	fake.fetchStarted = make(chan struct{}, 1)
	sessions := NewSessions(func(userID string) *RecordStore {
		return NewRecordStore(userID, fake, cache.NewMemory(), WithClock(clock))
	})

	errs := make(chan error, 2)
	get := func() {
		_, err := sessions.Get(context.Background(), "u1")
		errs <- err
	}
	go get()
	<-fake.fetchStarted
	go get()
	time.Sleep(20 * time.Millisecond)
	close(fake.fetchGate)

	for i := 0; i < 2; i++ {
		if err := <-errs; !errors.Is(err, remote.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for every caller, got %v", err)
		}
	}

	fake.fetchErr = nil
	store, err := sessions.Get(context.Background(), "u1")
	if err != nil || store == nil {
		t.Fatalf("expected a fresh load after the failure, got %v", err)
	}
	if fake.callCount("FetchCheckIns") != 2 {
		t.Fatalf("expected failed load to be retried once, got %d", fake.callCount("FetchCheckIns"))
	}
}

func TestJournalRendererSanitizes(t *testing.T) {
	r := NewJournalRenderer()
	out, err := r.Render(model.JournalEntry{
		Content:  "**calm** day\n<script>alert(1)</script>",
		Meta:     &model.JournalMeta{Thought: "I *failed*"},
		AudioURI: "https://example.com/voice.m4a",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "<strong>calm</strong>") {
		t.Fatalf("expected markdown to render, got %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected script to be stripped, got %s", out)
	}
	if !strings.Contains(out, `class="journal-thought"`) || !strings.Contains(out, "<em>failed</em>") {
		t.Fatalf("expected meta section, got %s", out)
	}
	if !strings.Contains(out, `src="https://example.com/voice.m4a"`) {
		t.Fatalf("expected audio element, got %s", out)
	}

	out, err = r.Render(model.JournalEntry{AudioURI: "javascript:alert(1)"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(out, "javascript:") {
		t.Fatalf("expected unsafe audio src to be dropped, got %s", out)
	}
}
