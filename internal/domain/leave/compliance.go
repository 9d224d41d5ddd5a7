package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ComplianceInput is passed to the tenant's leave-policy procedure.
type ComplianceInput struct {
	TenantID    string
	EmployeeID  string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	Days        decimal.Decimal
	Department  *string
}

type ComplianceResult struct {
	Valid     bool   `json:"valid"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// ComplianceChecker wraps the store procedures that own working-day counting and
// tenant leave policy.
type ComplianceChecker interface {
	WorkingDays(ctx context.Context, tenantID string, start, end time.Time) (decimal.Decimal, error)
	Check(ctx context.Context, in ComplianceInput) (ComplianceResult, error)
}

// ComplianceError is a policy rejection. Code is machine-readable.
type ComplianceError struct {
	Code    string
	Message string
}

func (e *ComplianceError) Error() string {
	if e.Message == "" {
		return "leave request violates policy: " + e.Code
	}
	return e.Message
}

// ErrDependencyUnavailable marks failures of an external collaborator.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

// DependencyError wraps a failed procedure call. ClientFault is set when the procedure
// rejected its input rather than failing internally.
type DependencyError struct {
	Procedure   string
	ClientFault bool
	Err         error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Procedure, e.Err)
}

func (e *DependencyError) Unwrap() []error {
	return []error{ErrDependencyUnavailable, e.Err}
}
