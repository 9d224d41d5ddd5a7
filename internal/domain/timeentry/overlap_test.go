package timeentry

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func closed(id string, from, to time.Time) TimeEntry {
	return TimeEntry{ID: id, ClockIn: from, ClockOut: &to, ApprovalStatus: approval.StatusApproved}
}

func TestOverlaps_SharedBoundaryIsNotConflict(t *testing.T) {
	existing := Interval{Start: at(9, 0), End: at(17, 0)}
	assert.False(t, Overlaps(existing, Interval{Start: at(17, 0), End: at(18, 0)}))
	assert.False(t, Overlaps(existing, Interval{Start: at(8, 0), End: at(9, 0)}))
}

func TestOverlaps_Conflicts(t *testing.T) {
	existing := Interval{Start: at(9, 0), End: at(17, 0)}

	cases := map[string]Interval{
		"starts inside":  {Start: at(16, 0), End: at(18, 0)},
		"ends inside":    {Start: at(8, 0), End: at(10, 0)},
		"contains":       {Start: at(8, 0), End: at(18, 0)},
		"contained":      {Start: at(10, 0), End: at(11, 0)},
		"identical":      {Start: at(9, 0), End: at(17, 0)},
		"same start":     {Start: at(9, 0), End: at(12, 0)},
		"same end":       {Start: at(12, 0), End: at(17, 0)},
		"one minute in":  {Start: at(16, 59), End: at(17, 30)},
		"one minute pre": {Start: at(8, 30), End: at(9, 1)},
	}
	for name, candidate := range cases {
		assert.True(t, Overlaps(existing, candidate), name)
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	var intervals []Interval
	for s := 6; s <= 12; s++ {
		for e := s + 1; e <= 14; e++ {
			intervals = append(intervals, Interval{Start: at(s, 0), End: at(e, 0)})
		}
	}

	for _, a := range intervals {
		for _, b := range intervals {
			require.Equal(t, Overlaps(a, b), Overlaps(b, a), "a=%v b=%v", a, b)
		}
	}
}

func TestFindConflict_OpenEntryEndsNow(t *testing.T) {
	open := TimeEntry{ID: "open", ClockIn: at(9, 0), ApprovalStatus: approval.StatusApproved}
	now := at(12, 0)

	assert.NotNil(t, FindConflict([]TimeEntry{open}, Interval{Start: at(11, 0), End: at(11, 30)}, "", now))
	assert.Nil(t, FindConflict([]TimeEntry{open}, Interval{Start: at(12, 0), End: at(13, 0)}, "", now))
}

func TestFindConflict_SkipsRejectedAndExcluded(t *testing.T) {
	rejected := closed("r", at(9, 0), at(17, 0))
	rejected.ApprovalStatus = approval.StatusRejected
	self := closed("self", at(9, 0), at(17, 0))

	entries := []TimeEntry{rejected, self}
	candidate := Interval{Start: at(10, 0), End: at(11, 0)}

	assert.Nil(t, FindConflict(entries, candidate, "self", at(20, 0)))

	hit := FindConflict(entries, candidate, "", at(20, 0))
	require.NotNil(t, hit)
	assert.Equal(t, "self", hit.ID)
}

func TestTimeEntry_NetHours(t *testing.T) {
	e := closed("a", at(9, 0), at(17, 30))
	e.BreakMinutes = 30
	assert.Equal(t, "8", e.NetHours(at(20, 0)).String())

	e.BreakMinutes = 600
	assert.True(t, e.NetHours(at(20, 0)).IsZero())

	open := TimeEntry{ClockIn: at(9, 0), BreakMinutes: 15}
	assert.Equal(t, "2.75", open.NetHours(at(12, 0)).String())
}

func TestPastManualEntryPolicy(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	policy := PastManualEntryPolicy{Location: jakarta}
	now := time.Date(2024, 3, 5, 1, 0, 0, 0, jakarta)

	yesterday := TimeEntry{EntryType: EntryTypeManual, ClockIn: time.Date(2024, 3, 4, 9, 0, 0, 0, jakarta)}
	today := TimeEntry{EntryType: EntryTypeManual, ClockIn: time.Date(2024, 3, 5, 0, 30, 0, 0, jakarta)}
	clock := TimeEntry{EntryType: EntryTypeClock, ClockIn: yesterday.ClockIn}

	assert.True(t, policy.RequiresApproval(yesterday, now))
	assert.False(t, policy.RequiresApproval(today, now))
	assert.False(t, policy.RequiresApproval(clock, now))
}
