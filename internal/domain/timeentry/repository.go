package timeentry

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
)

// Repository defines data access for time entries.
// Every method takes tenantID so rows of other companies are never visible.
type Repository interface {
	// Create inserts a new entry. A second open entry for the same subject fails with
	// ErrAlreadyClockedIn.
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)

	// GetByID returns ErrTimeEntryNotFound for unknown ids and ids of other tenants.
	GetByID(ctx context.Context, tenantID, id string) (TimeEntry, error)

	// GetOpenEntry returns the subject's non-rejected entry without clock-out, or
	// ErrTimeEntryNotFound.
	GetOpenEntry(ctx context.Context, tenantID, userID string) (TimeEntry, error)

	// ListActiveForSubject returns all non-rejected entries of a subject, used for overlap checks.
	ListActiveForSubject(ctx context.Context, tenantID, userID string) ([]TimeEntry, error)

	// ListInRange returns entries of a subject with clock-in in [from, to) and one of statuses.
	ListInRange(ctx context.Context, tenantID, userID string, from, to time.Time, statuses ...approval.Status) ([]TimeEntry, error)

	// Update persists clock times, break, label, notes and edited_by.
	Update(ctx context.Context, entry TimeEntry) error

	// UpdateStatus writes approval fields only if the row is still in status from.
	// Returns approval.ErrStatusChanged otherwise.
	UpdateStatus(ctx context.Context, entry TimeEntry, from approval.Status) error

	List(ctx context.Context, tenantID string, filter ListFilter) ([]TimeEntry, int64, error)
}
