package postgresql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// complianceCheckerImpl calls the tenant policy procedures installed in the store.
type complianceCheckerImpl struct {
	db *database.DB
}

func NewComplianceChecker(db *database.DB) leave.ComplianceChecker {
	return &complianceCheckerImpl{db: db}
}

func (c *complianceCheckerImpl) WorkingDays(ctx context.Context, tenantID string, start, end time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, c.db)

	var days decimal.Decimal
	err := q.QueryRow(ctx, `SELECT calculate_working_days($1, $2::date, $3::date)`, tenantID, start, end).Scan(&days)
	if err != nil {
		return decimal.Zero, procedureError("calculate_working_days", err)
	}
	return days, nil
}

func (c *complianceCheckerImpl) Check(ctx context.Context, in leave.ComplianceInput) (leave.ComplianceResult, error) {
	q := GetQuerier(ctx, c.db)

	var result leave.ComplianceResult
	err := q.QueryRow(ctx,
		`SELECT validate_leave_request_compliance($1, $2, $3, $4::date, $5::date, $6::numeric, $7)`,
		in.TenantID, in.EmployeeID, in.LeaveTypeID, in.StartDate, in.EndDate, in.Days, in.Department,
	).Scan(&result)
	if err != nil {
		return leave.ComplianceResult{}, procedureError("validate_leave_request_compliance", err)
	}
	return result, nil
}

// procedureError classifies a failed procedure call. Data exceptions (class 22) and
// RAISE EXCEPTION (P0001) mean the procedure rejected its input.
func procedureError(name string, err error) error {
	dep := &leave.DependencyError{Procedure: name, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		dep.ClientFault = strings.HasPrefix(pgErr.Code, "22") || pgErr.Code == "P0001"
	}
	return dep
}
