// Package scoring turns raw check-ins into daily and period wellbeing scores
// and detects runs of tough days. Every function here is pure: the same
// records, settings and clock reading always produce the same result.
package scoring

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moodlog/internal/model"
)

// DateLayout is the ISO calendar-day format used for every day key.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidDate is returned for malformed or reversed day strings.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidPeriod is returned for unknown period labels.
	ErrInvalidPeriod = errors.New("invalid period")
)

// Calendar fixes the day boundary. A check-in belongs to the day its
// timestamp falls on in the calendar's location, and "today" is computed the
// same way. The zero value uses UTC.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a calendar for loc, falling back to UTC when nil.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Location returns the time zone that defines day boundaries.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DayKey formats the calendar day t falls on.
func (c Calendar) DayKey(t time.Time) string {
	return t.In(c.Location()).Format(DateLayout)
}

// Today returns the key of the current day.
func (c Calendar) Today(now time.Time) string {
	return c.DayKey(now)
}

// ParseDay validates a YYYY-MM-DD string and returns local midnight.
func (c Calendar) ParseDay(raw string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return day, nil
}

// DaysBetween lists every day key in the inclusive range start..end.
func (c Calendar) DaysBetween(start, end string) ([]string, error) {
	from, err := c.ParseDay(start)
	if err != nil {
		return nil, err
	}
	to, err := c.ParseDay(end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrInvalidDate, end, start)
	}

	var days []string
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		days = append(days, day.Format(DateLayout))
	}
	return days, nil
}

// TrailingDays returns the n most recent day keys ending with today,
// ordered oldest first.
func (c Calendar) TrailingDays(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	today := startOfDay(now.In(c.Location()))
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, today.AddDate(0, 0, -i).Format(DateLayout))
	}
	return days
}

// CheckInsBetween returns the records whose day falls within start..end.
func (c Calendar) CheckInsBetween(records []model.CheckIn, start, end string) ([]model.CheckIn, error) {
	from, err := c.ParseDay(start)
	if err != nil {
		return nil, err
	}
	to, err := c.ParseDay(end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrInvalidDate, end, start)
	}

	lo, hi := from.Format(DateLayout), to.Format(DateLayout)
	var matched []model.CheckIn
	for _, record := range records {
		key := c.DayKey(record.Timestamp)
		if key >= lo && key <= hi {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (c Calendar) groupByDay(records []model.CheckIn) map[string][]model.CheckIn {
	byDay := make(map[string][]model.CheckIn)
	for _, record := range records {
		key := c.DayKey(record.Timestamp)
		byDay[key] = append(byDay[key], record)
	}
	return byDay
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
