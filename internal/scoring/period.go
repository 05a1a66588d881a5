package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/moodlog/internal/model"
)

// DayScore is one day's score inside a period; HasData distinguishes a real
// zero from a day without records.
type DayScore struct {
	Date    string `json:"date"`
	Score   int    `json:"score"`
	HasData bool   `json:"hasData"`
}

// Period is a named trailing range ending today.
type Period string

const (
	PeriodWeek  Period = "Week"
	PeriodMonth Period = "Month"
	PeriodYear  Period = "Year"
)

// ParsePeriod accepts week, month or year in any letter case.
func ParsePeriod(raw string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "week":
		return PeriodWeek, nil
	case "month":
		return PeriodMonth, nil
	case "year":
		return PeriodYear, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, raw)
	}
}

// PeriodRange computes the inclusive start and end day keys of p relative
// to now. Week is the trailing seven days, Month starts on the first of the
// month and Year on January 1.
func (c Calendar) PeriodRange(p Period, now time.Time) (string, string, error) {
	today := startOfDay(now.In(c.Location()))
	var start time.Time
	switch p {
	case PeriodWeek:
		start = today.AddDate(0, 0, -6)
	case PeriodMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	case PeriodYear:
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPeriod, p)
	}
	return start.Format(DateLayout), today.Format(DateLayout), nil
}

// DailyScores runs the daily aggregator over every day in start..end.
func (c Calendar) DailyScores(records []model.CheckIn, start, end string, settings model.ScoringSettings) ([]DayScore, error) {
	days, err := c.DaysBetween(start, end)
	if err != nil {
		return nil, err
	}

	aggs := c.aggregateKeys(records, days, settings)
	scores := make([]DayScore, 0, len(aggs))
	for _, agg := range aggs {
		scores = append(scores, DayScore{Date: agg.Date, Score: agg.Score, HasData: agg.HasData()})
	}
	return scores, nil
}

// PeriodScore reduces daily scores to one value under the empty-day policy.
// An empty range, or a range with no data under excludeFromAverage, is 0.
func PeriodScore(scores []DayScore, policy model.EmptyDayPolicy) int {
	var sum float64
	var counted int
	for _, s := range scores {
		if !s.HasData && policy == model.EmptyDayExcludeFromAverage {
			continue
		}
		sum += float64(s.Score)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return int(math.Round(sum / float64(counted)))
}

// PeriodScoreBetween scores the inclusive range start..end.
func (c Calendar) PeriodScoreBetween(records []model.CheckIn, start, end string, settings model.ScoringSettings) (int, error) {
	scores, err := c.DailyScores(records, start, end, settings)
	if err != nil {
		return 0, err
	}
	return PeriodScore(scores, settings.EmptyDayPolicy()), nil
}

// WellbeingScore scores the named period ending today.
func (c Calendar) WellbeingScore(records []model.CheckIn, p Period, now time.Time, settings model.ScoringSettings) (int, error) {
	start, end, err := c.PeriodRange(p, now)
	if err != nil {
		return 0, err
	}
	return c.PeriodScoreBetween(records, start, end, settings)
}
