package scoring

import (
	"time"

	"github.com/moodlog/internal/model"
)

const (
	// ToughWindowDays is how many trailing days the tough-streak scan covers.
	ToughWindowDays = 7
	// HeavyCardCooldown suppresses the supportive prompt after it was shown
	// or dismissed.
	HeavyCardCooldown = 7 * 24 * time.Hour
	// CompletionLookbackDays bounds the completion streak scan.
	CompletionLookbackDays = 365
)

// IsToughDay applies all four cutoffs conjunctively. A day without records
// is never tough.
func IsToughDay(agg DailyAggregate, th model.Thresholds) bool {
	if !agg.HasData() || agg.MoodAvg == nil || agg.StressAvg == nil || agg.EnergyAvg == nil {
		return false
	}
	return *agg.MoodAvg <= th.MoodLowCutoff &&
		*agg.StressAvg >= th.StressHighCutoff &&
		*agg.EnergyAvg <= th.EnergyLowCutoff &&
		agg.SlotsCount >= th.MinSlotsPerDay
}

// TrailingToughStreak counts the contiguous tough days at the end of aggs
// (ordered oldest first). The scan stops at the first non-tough day.
func TrailingToughStreak(aggs []DailyAggregate, th model.Thresholds) int {
	count := 0
	for i := len(aggs) - 1; i >= 0; i-- {
		if !IsToughDay(aggs[i], th) {
			break
		}
		count++
	}
	return count
}

// ToughStreak counts trailing tough days in the window ending today.
func (c Calendar) ToughStreak(records []model.CheckIn, now time.Time, settings model.UserSettings) int {
	days := c.TrailingDays(now, ToughWindowDays)
	aggs := c.aggregateKeys(records, days, settings.Scoring)
	return TrailingToughStreak(aggs, settings.Thresholds)
}

// InCooldown reports whether the prompt was shown or dismissed within the
// cool-down window before now.
func InCooldown(settings model.UserSettings, now time.Time) bool {
	cutoff := now.Add(-HeavyCardCooldown)
	for _, stamp := range []*time.Time{settings.LastHeavyCardShownAt, settings.LastHeavyCardDismissedAt} {
		if stamp != nil && stamp.After(cutoff) {
			return true
		}
	}
	return false
}

// ShouldShowHeavyCard fires when the trailing tough streak reaches the
// required length and no cool-down is active.
func (c Calendar) ShouldShowHeavyCard(records []model.CheckIn, settings model.UserSettings, now time.Time) bool {
	if InCooldown(settings, now) {
		return false
	}
	required := settings.Thresholds.StreakDaysRequired
	if required < 1 {
		required = 1
	}
	return c.ToughStreak(records, now, settings) >= required
}

// CompletionStreak counts consecutive days, ending today, with at least
// SlotsPerDay check-ins. Records are counted, not distinct slots, so a
// repeated slot still fills the day. An incomplete today yields 0.
func (c Calendar) CompletionStreak(records []model.CheckIn, now time.Time) int {
	counts := make(map[string]int)
	for _, record := range records {
		counts[c.DayKey(record.Timestamp)]++
	}

	today := startOfDay(now.In(c.Location()))
	streak := 0
	for i := 0; i < CompletionLookbackDays; i++ {
		key := today.AddDate(0, 0, -i).Format(DateLayout)
		if counts[key] < model.SlotsPerDay {
			break
		}
		streak++
	}
	return streak
}
