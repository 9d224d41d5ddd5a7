package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// LeaveTypeRepository - lookup over leave_types
type LeaveTypeRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (LeaveType, error)
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, tenantID, id string) (LeaveRequest, error)
	List(ctx context.Context, tenantID string, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// Update rewrites dates, type, days and reason of a pending request.
	// Returns approval.ErrStatusChanged when the request is no longer pending.
	Update(ctx context.Context, request LeaveRequest) error

	// UpdateStatus writes status and decision fields only if the row is still in from.
	UpdateStatus(ctx context.Context, request LeaveRequest, from approval.Status) error
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	// GetActive returns the balance whose period contains on, most recent period first,
	// or ErrBalanceNotFound.
	GetActive(ctx context.Context, tenantID, employeeID, leaveTypeID string, on time.Time) (LeaveBalance, error)
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)

	// AddUsed atomically sets used_ytd = GREATEST(used_ytd + delta, 0) on the active row.
	AddUsed(ctx context.Context, tenantID, employeeID, leaveTypeID string, on time.Time, delta decimal.Decimal) (LeaveBalance, error)

	// ListActive returns every balance of the employee whose period contains on.
	ListActive(ctx context.Context, tenantID, employeeID string, on time.Time) ([]LeaveBalance, error)
}
