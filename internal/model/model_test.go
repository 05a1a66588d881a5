package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCheckInInputValidate(t *testing.T) {
	valid := CheckInInput{Slot: SlotMorning, Mood: 3, Stress: 1, Energy: 5}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	cases := []struct {
		name  string
		input CheckInInput
	}{
		{name: "mood too low", input: CheckInInput{Slot: SlotMorning, Mood: 0, Stress: 1, Energy: 1}},
		{name: "stress too high", input: CheckInInput{Slot: SlotNight, Mood: 1, Stress: 6, Energy: 1}},
		{name: "energy negative", input: CheckInInput{Slot: SlotEvening, Mood: 1, Stress: 1, Energy: -2}},
		{name: "unknown slot", input: CheckInInput{Slot: "noon", Mood: 1, Stress: 1, Energy: 1}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got %v", err)
			}
		})
	}
}

func TestParseSlotNormalizesCase(t *testing.T) {
	slot, err := ParseSlot("  Afternoon ")
	if err != nil {
		t.Fatalf("ParseSlot returned error: %v", err)
	}
	if slot != SlotAfternoon {
		t.Fatalf("expected afternoon, got %s", slot)
	}
}

func TestCheckInValidateRequiresTimestamp(t *testing.T) {
	record := CheckIn{ID: "c1", Slot: SlotMorning, Mood: 3, Stress: 3, Energy: 3}
	if err := record.Validate(); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected missing timestamp to be rejected, got %v", err)
	}
	record.Timestamp = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	if err := record.Validate(); err != nil {
		t.Fatalf("expected record to be valid, got %v", err)
	}
}

func TestJournalInputValidate(t *testing.T) {
	if err := (JournalInput{Type: JournalGratitude, Mood: 4}).Validate(); err != nil {
		t.Fatalf("expected valid journal input, got %v", err)
	}
	if err := (JournalInput{Type: "diary", Mood: 4}).Validate(); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected unknown type to be rejected, got %v", err)
	}
	if err := (JournalInput{Type: JournalFree, Mood: 9}).Validate(); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected mood out of range to be rejected, got %v", err)
	}
}

func TestJournalAudioURIUsesCamelCase(t *testing.T) {
	var in JournalInput
	if err := json.Unmarshal([]byte(`{"type":"free","mood":3,"audioUri":"file:///a.m4a"}`), &in); err != nil {
		t.Fatalf("decode input: %v", err)
	}
	if in.AudioURI != "file:///a.m4a" {
		t.Fatalf("expected audioUri to populate the input, got %+v", in)
	}

	raw, err := json.Marshal(JournalEntry{ID: "j1", Type: JournalFree, AudioURI: in.AudioURI})
	if err != nil {
		t.Fatalf("encode entry: %v", err)
	}
	if !strings.Contains(string(raw), `"audioUri":"file:///a.m4a"`) {
		t.Fatalf("expected entry to use audioUri, got %s", raw)
	}
}

func TestJournalEntryCanEdit(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	entry := JournalEntry{Timestamp: created}

	if !entry.CanEdit(created.Add(23 * time.Hour)) {
		t.Fatal("expected entry to be editable within 24 hours")
	}
	if entry.CanEdit(created.Add(24 * time.Hour)) {
		t.Fatal("expected entry to be locked after 24 hours")
	}
}

func TestDefaultUserSettings(t *testing.T) {
	settings := DefaultUserSettings("s1", "42")

	if settings.Scoring.EmptyDayPolicy() != EmptyDayIncludeAsZero {
		t.Fatalf("expected includeAsZero by default, got %s", settings.Scoring.EmptyDayPolicy())
	}
	if !settings.Scoring.UseCompletionMultiplier {
		t.Fatal("expected completion multiplier to be enabled by default")
	}
	if settings.Thresholds.StreakDaysRequired != 3 || settings.Thresholds.MinSlotsPerDay != 2 {
		t.Fatalf("unexpected default thresholds: %+v", settings.Thresholds)
	}
	if err := settings.Validate(); err != nil {
		t.Fatalf("default settings should be valid: %v", err)
	}

	settings.Scoring.Weights.StressWeight = -1
	if err := settings.Validate(); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected negative weight to be rejected, got %v", err)
	}
}

func TestActivityInputValidate(t *testing.T) {
	calm := 2
	if err := (ActivityInput{Type: "Breathing", Duration: 120, Completed: true, PostStress: &calm}).Validate(); err != nil {
		t.Fatalf("expected valid activity input, got %v", err)
	}

	tooHigh := 6
	cases := []struct {
		name  string
		input ActivityInput
	}{
		{name: "unknown type", input: ActivityInput{Type: "yoga", Duration: 60}},
		{name: "negative duration", input: ActivityInput{Type: ActivityExercise, Duration: -5}},
		{name: "post mood out of range", input: ActivityInput{Type: ActivityMeditation, PostMood: &tooHigh}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.input.Validate(); !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got %v", err)
			}
		})
	}
}

func TestProfileInputValidate(t *testing.T) {
	normalized := ProfileInput{FullName: "  Li Wei ", Age: 13, Timezone: " Asia/Shanghai "}.Normalize()
	if normalized.FullName != "Li Wei" || normalized.Timezone != "Asia/Shanghai" || normalized.Gender != GenderPreferNotToSay {
		t.Fatalf("unexpected normalized input %+v", normalized)
	}
	if err := normalized.Validate(); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}

	cases := []struct {
		name  string
		input ProfileInput
	}{
		{name: "name too short", input: ProfileInput{FullName: "A", Age: 30}},
		{name: "underage", input: ProfileInput{FullName: "Alice", Age: 12}},
		{name: "too old", input: ProfileInput{FullName: "Alice", Age: 121}},
		{name: "unknown gender", input: ProfileInput{FullName: "Alice", Age: 30, Gender: "robot"}},
		{name: "long occupation", input: ProfileInput{FullName: "Alice", Age: 30, Occupation: strings.Repeat("x", 101)}},
		{name: "unknown timezone", input: ProfileInput{FullName: "Alice", Age: 30, Timezone: "Mars/Olympus"}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.input.Validate(); !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got %v", err)
			}
		})
	}

	if loc, err := (Profile{}).Location(); loc != nil || err != nil {
		t.Fatalf("expected no location without timezone, got %v (%v)", loc, err)
	}
}
