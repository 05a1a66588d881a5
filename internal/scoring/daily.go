package scoring

import (
	"math"

	"github.com/moodlog/internal/model"
)

// DailyAggregate summarizes one calendar day. Averages are nil when the day
// has no records.
type DailyAggregate struct {
	Date       string   `json:"date"`
	SlotsCount int      `json:"slotsCount"`
	MoodAvg    *float64 `json:"moodAvg"`
	StressAvg  *float64 `json:"stressAvg"`
	EnergyAvg  *float64 `json:"energyAvg"`
	Score      int      `json:"score"`
}

// HasData reports whether at least one record fell on the day.
func (a DailyAggregate) HasData() bool {
	return a.SlotsCount > 0
}

// ComputeDailyScore averages the slot scores of one day's records and, when
// enabled, scales the result by the fraction of slots filled. Duplicate
// slots are kept and averaged.
func ComputeDailyScore(records []model.CheckIn, settings model.ScoringSettings) int {
	if len(records) == 0 {
		return 0
	}

	weights := NormalizeWeights(settings.Weights)
	var sum float64
	for _, record := range records {
		sum += ComputeSlotScore(record.Mood, record.Stress, record.Energy, weights)
	}
	avg := sum / float64(len(records))

	multiplier := 1.0
	if settings.UseCompletionMultiplier {
		multiplier = float64(len(records)) / model.SlotsPerDay
	}
	return int(math.Round(avg * multiplier))
}

// Aggregate builds the aggregate for date from records already known to
// belong to it.
func Aggregate(date string, records []model.CheckIn, settings model.ScoringSettings) DailyAggregate {
	agg := DailyAggregate{Date: date, SlotsCount: len(records)}
	if len(records) == 0 {
		return agg
	}

	var mood, stress, energy float64
	for _, record := range records {
		mood += float64(record.Mood)
		stress += float64(record.Stress)
		energy += float64(record.Energy)
	}
	n := float64(len(records))
	agg.MoodAvg = floatPtr(mood / n)
	agg.StressAvg = floatPtr(stress / n)
	agg.EnergyAvg = floatPtr(energy / n)
	agg.Score = ComputeDailyScore(records, settings)
	return agg
}

// DailyAggregate aggregates the records that fall on date.
func (c Calendar) DailyAggregate(records []model.CheckIn, date string, settings model.ScoringSettings) (DailyAggregate, error) {
	day, err := c.ParseDay(date)
	if err != nil {
		return DailyAggregate{}, err
	}
	key := day.Format(DateLayout)

	var matched []model.CheckIn
	for _, record := range records {
		if c.DayKey(record.Timestamp) == key {
			matched = append(matched, record)
		}
	}
	return Aggregate(key, matched, settings), nil
}

// DailyAggregates aggregates every requested day, in the order given.
func (c Calendar) DailyAggregates(records []model.CheckIn, dates []string, settings model.ScoringSettings) ([]DailyAggregate, error) {
	keys := make([]string, 0, len(dates))
	for _, date := range dates {
		day, err := c.ParseDay(date)
		if err != nil {
			return nil, err
		}
		keys = append(keys, day.Format(DateLayout))
	}
	return c.aggregateKeys(records, keys, settings), nil
}

func (c Calendar) aggregateKeys(records []model.CheckIn, keys []string, settings model.ScoringSettings) []DailyAggregate {
	byDay := c.groupByDay(records)
	aggs := make([]DailyAggregate, 0, len(keys))
	for _, key := range keys {
		aggs = append(aggs, Aggregate(key, byDay[key], settings))
	}
	return aggs
}

func floatPtr(v float64) *float64 {
	return &v
}
