package timeentry

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeClock  EntryType = "clock"
	EntryTypeManual EntryType = "manual"
)

type TimeEntry struct {
	ID             string
	TenantID       string
	UserID         string
	ClockIn        time.Time
	ClockOut       *time.Time
	BreakMinutes   int
	ProjectTask    *string
	Notes          *string
	EntryType      EntryType
	ApprovalStatus approval.Status
	ApprovedBy     *string
	ApprovedAt     *time.Time
	EditedBy       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOpen reports whether the subject is still clocked in on this entry.
func (e TimeEntry) IsOpen() bool {
	return e.ClockOut == nil
}

// EffectiveEnd is the clock-out, or now for an open entry.
func (e TimeEntry) EffectiveEnd(now time.Time) time.Time {
	if e.ClockOut != nil {
		return *e.ClockOut
	}
	return now
}

// NetDuration is worked time minus break, floored at zero.
func (e TimeEntry) NetDuration(now time.Time) time.Duration {
	d := e.EffectiveEnd(now).Sub(e.ClockIn) - time.Duration(e.BreakMinutes)*time.Minute
	if d < 0 {
		return 0
	}
	return d
}

// NetHours is NetDuration in hours, rounded to two decimals.
func (e TimeEntry) NetHours(now time.Time) decimal.Decimal {
	return Hours(e.NetDuration(now))
}

// Hours converts a duration to decimal hours rounded to two places.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(decimal.NewFromInt(3600)).Round(2)
}

// DayOf truncates t to its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

// IsPastManual reports whether e is a manual entry dated before today in loc.
func (e TimeEntry) IsPastManual(now time.Time, loc *time.Location) bool {
	return e.EntryType == EntryTypeManual && DayOf(e.ClockIn, loc).Before(DayOf(now, loc))
}
