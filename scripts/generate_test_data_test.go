package main

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/scoring"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) func() {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:moodlog-seed?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestSeedUserProducesToughTail(t *testing.T) {
	cleanup := setupSeedTestDB(t)
	defer cleanup()

	users, err := createTestUsers()
	if err != nil {
		t.Fatalf("create users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	again, err := createTestUsers()
	if err != nil || again[0].ID != users[0].ID {
		t.Fatalf("expected seeding users to be idempotent, got %v", err)
	}

	cal := scoring.NewCalendar(time.UTC)
	records := remote.NewDBStore(db.DB, cal)
	now := time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC)

	checkIns, entries, err := seedUser(context.Background(), records, "1", now, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if entries != 5 {
		t.Fatalf("expected a journal entry every third day, got %d", entries)
	}
	if !hasCheckIns("1") || hasCheckIns("2") {
		t.Fatal("expected check-ins only for the seeded user")
	}

	wire, err := records.FetchCheckIns(context.Background(), "1")
	if err != nil {
		t.Fatalf("fetch check-ins: %v", err)
	}
	if len(wire) != checkIns {
		t.Fatalf("expected %d stored check-ins, got %d", checkIns, len(wire))
	}

	converted := make([]model.CheckIn, 0, len(wire))
	for _, record := range wire {
		c, err := record.ToModel()
		if err != nil {
			t.Fatalf("seeded record is invalid: %v", err)
		}
		converted = append(converted, c)
	}

	settings := model.DefaultUserSettings("s1", "1")
	if streak := cal.ToughStreak(converted, now, settings); streak != 3 {
		t.Fatalf("expected the last three days to be tough, got %d", streak)
	}
	if !cal.ShouldShowHeavyCard(converted, settings, now) {
		t.Fatal("expected the seeded data to trigger the heavy card")
	}
}
