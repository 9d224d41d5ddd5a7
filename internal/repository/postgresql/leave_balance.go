package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const leaveBalanceColumns = `
	id, tenant_id, employee_id, leave_type_id, period_start, period_end,
	balance_days, used_ytd, created_at, updated_at`

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.TenantID, &b.EmployeeID, &b.LeaveTypeID, &b.PeriodStart, &b.PeriodEnd,
		&b.BalanceDays, &b.UsedYTD, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// GetActive implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetActive(ctx context.Context, tenantID, employeeID, leaveTypeID string, on time.Time) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE tenant_id = $1 AND employee_id = $2 AND leave_type_id = $3
		  AND period_start <= $4::date AND $4::date <= period_end
		ORDER BY period_start DESC
		LIMIT 1
	`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, tenantID, employeeID, leaveTypeID, on))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}
	return b, nil
}

// Create implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	if balance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return leave.LeaveBalance{}, fmt.Errorf("generate id: %w", err)
		}
		balance.ID = id.String()
	}

	query := `
		INSERT INTO leave_balances (
			id, tenant_id, employee_id, leave_type_id, period_start, period_end,
			balance_days, used_ytd, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, GREATEST($8::numeric, 0), NOW(), NOW()
		) RETURNING used_ytd, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.ID, balance.TenantID, balance.EmployeeID, balance.LeaveTypeID, balance.PeriodStart, balance.PeriodEnd,
		balance.BalanceDays, balance.UsedYTD,
	).Scan(&balance.UsedYTD, &balance.CreatedAt, &balance.UpdatedAt)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	return balance, nil
}

// AddUsed implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) AddUsed(ctx context.Context, tenantID, employeeID, leaveTypeID string, on time.Time, delta decimal.Decimal) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_ytd = GREATEST(used_ytd + $5::numeric, 0), updated_at = NOW()
		WHERE id = (
			SELECT id FROM leave_balances
			WHERE tenant_id = $1 AND employee_id = $2 AND leave_type_id = $3
			  AND period_start <= $4::date AND $4::date <= period_end
			ORDER BY period_start DESC
			LIMIT 1
		)
		RETURNING ` + leaveBalanceColumns

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, tenantID, employeeID, leaveTypeID, on, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}
	return b, nil
}

// ListActive implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListActive(ctx context.Context, tenantID, employeeID string, on time.Time) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT DISTINCT ON (leave_type_id) ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE tenant_id = $1 AND employee_id = $2
		  AND period_start <= $3::date AND $3::date <= period_end
		ORDER BY leave_type_id, period_start DESC
	`

	rows, err := q.Query(ctx, query, tenantID, employeeID, on)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}
