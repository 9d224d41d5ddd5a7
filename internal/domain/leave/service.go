package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/shopspring/decimal"
)

type LeaveService interface {
	// Request
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	UpdateLeaveRequest(ctx context.Context, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)
	DecideLeaveRequest(ctx context.Context, req DecideLeaveRequestRequest) (ApprovalResult, error)
	CancelLeaveRequest(ctx context.Context, req CancelLeaveRequestRequest) (ApprovalResult, error)
	GetLeaveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListLeaveRequest(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)

	// Balance
	ListBalances(ctx context.Context, employeeID string) ([]LeaveBalanceResponse, error)
	AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (LeaveBalanceResponse, error)
}

// Ledger keeps used_ytd in step with leave request transitions.
type Ledger interface {
	// Adjust applies a manual correction by the caller.
	Adjust(ctx context.Context, req AdjustBalanceRequest) (LeaveBalance, error)

	// PostApprovalDelta applies UsageDelta(from, to, request.DaysCount) to the active
	// balance and returns the delta applied. A missing balance row is skipped, not an error.
	PostApprovalDelta(ctx context.Context, request LeaveRequest, from, to approval.Status) (decimal.Decimal, error)
}
