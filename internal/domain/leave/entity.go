package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// LeaveType entity. The engine only looks types up; administration lives elsewhere.
type LeaveType struct {
	ID        string
	TenantID  string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// LeaveRequest entity. EmployeeID holds the requesting user's id.
type LeaveRequest struct {
	ID          string
	TenantID    string
	EmployeeID  string
	LeaveTypeID string
	LeaveType   string

	StartDate time.Time
	EndDate   time.Time

	// DaysCount is fixed when the request is created or edited and used for both
	// forward and reverse ledger postings.
	DaysCount decimal.Decimal
	Reason    *string

	Status       approval.Status // pending, approved, denied, cancelled
	ApprovedBy   *string
	DecidedAt    *time.Time
	DenialReason *string

	CancelledBy *string
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveBalance is the allocation and usage of one leave type for one period.
type LeaveBalance struct {
	ID          string
	TenantID    string
	EmployeeID  string
	LeaveTypeID string
	PeriodStart time.Time
	PeriodEnd   time.Time
	BalanceDays decimal.Decimal
	UsedYTD     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b LeaveBalance) Remaining() decimal.Decimal {
	return b.BalanceDays.Sub(b.UsedYTD)
}

// UsageDelta is the change to used_ytd caused by moving a request between statuses:
// +days when it becomes approved, -days when it stops being approved, zero otherwise.
func UsageDelta(from, to approval.Status, days decimal.Decimal) decimal.Decimal {
	switch {
	case from == to:
		return decimal.Zero
	case to == approval.StatusApproved:
		return days
	case from == approval.StatusApproved:
		return days.Neg()
	default:
		return decimal.Zero
	}
}

// CalendarYear returns the first and last day of t's year, the period used for balance
// rows created by a manual adjustment.
func CalendarYear(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}
