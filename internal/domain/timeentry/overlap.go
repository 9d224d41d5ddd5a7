package timeentry

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether candidate conflicts with existing. A candidate conflicts when it
// starts inside existing, ends inside existing, or contains it. Touching endpoints do not
// conflict.
func Overlaps(existing, candidate Interval) bool {
	startsInside := !candidate.Start.Before(existing.Start) && candidate.Start.Before(existing.End)
	endsInside := existing.Start.Before(candidate.End) && !candidate.End.After(existing.End)
	contains := !candidate.Start.After(existing.Start) && !candidate.End.Before(existing.End)
	return startsInside || endsInside || contains
}

// FindConflict returns the first non-rejected entry in entries that overlaps candidate, or
// nil. Open entries are treated as ending at now. excludeID skips the entry being edited.
func FindConflict(entries []TimeEntry, candidate Interval, excludeID string, now time.Time) *TimeEntry {
	for i := range entries {
		e := entries[i]
		if e.ID == excludeID || e.ApprovalStatus == approval.StatusRejected {
			continue
		}
		existing := Interval{Start: e.ClockIn, End: e.EffectiveEnd(now)}
		if Overlaps(existing, candidate) {
			return &entries[i]
		}
	}
	return nil
}
