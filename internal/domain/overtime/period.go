package overtime

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

// PeriodKey returns the ISO year-week of t in its own location, e.g. "2024-W09".
func PeriodKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// PeriodStart returns the Monday 00:00 in loc that starts the ISO week named by key.
func PeriodStart(key string, loc *time.Location) (time.Time, error) {
	if !validator.IsValidISOWeek(key) {
		return time.Time{}, ErrInvalidPeriod
	}
	year, _ := strconv.Atoi(key[:4])
	week, _ := strconv.Atoi(key[6:])

	// January 4th is always in week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+(week-1)*7)

	if PeriodKey(monday) != key {
		// week 53 in a 52-week year
		return time.Time{}, ErrInvalidPeriod
	}
	return monday, nil
}

// WeekBounds returns the half-open [Monday, next Monday) range of the ISO week containing t.
func WeekBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	l := t.In(loc)
	day := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}
