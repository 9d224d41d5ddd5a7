package timeentry

import "errors"

var (
	ErrTimeEntryNotFound = errors.New("time entry not found")
	ErrAlreadyClockedIn  = errors.New("already clocked in")
	ErrNoActiveEntry     = errors.New("no active time entry to clock out")
	ErrInvalidRange      = errors.New("clock-out must be after clock-in")
	ErrOverlap           = errors.New("time entry overlaps an existing entry")
	ErrEntryRejected     = errors.New("rejected time entries cannot be edited")
	ErrForbidden         = errors.New("not allowed to access another user's time entries")
	ErrEditPastForbidden = errors.New("editing past manual entries requires time.edit_past")
)
