package timeentry

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
)

// TimeEntryService defines business logic for clock and manual time entries.
// The caller is read from the request context.
type TimeEntryService interface {
	ClockIn(ctx context.Context) (TimeEntryResponse, error)
	ClockOut(ctx context.Context) (TimeEntryResponse, error)
	CreateManual(ctx context.Context, req CreateManualEntryRequest) (TimeEntryResponse, error)
	Update(ctx context.Context, req UpdateEntryRequest) (TimeEntryResponse, error)
	Get(ctx context.Context, id string) (TimeEntryResponse, error)
	List(ctx context.Context, filter ListFilter) (ListTimeEntryResponse, error)
	AuditTrail(ctx context.Context, id string) ([]audit.Record, error)

	// Delete withdraws the entry to rejected.
	Delete(ctx context.Context, req DeleteEntryRequest) (TimeEntryResponse, error)
	Approve(ctx context.Context, req ApproveEntryRequest) (ApprovalResult, error)
}
