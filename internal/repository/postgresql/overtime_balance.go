package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const overtimeBalanceColumns = `
	id, tenant_id, user_id, period, regular_hours, overtime_hours,
	multiplier, carry_over_hours, created_at, updated_at`

type overtimeBalanceRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeBalanceRepository(db *database.DB) overtime.BalanceRepository {
	return &overtimeBalanceRepositoryImpl{db: db}
}

func scanOvertimeBalance(row pgx.Row) (overtime.Balance, error) {
	var b overtime.Balance
	err := row.Scan(
		&b.ID, &b.TenantID, &b.UserID, &b.Period, &b.RegularHours, &b.OvertimeHours,
		&b.Multiplier, &b.CarryOverHours, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func newBalanceID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

func (r *overtimeBalanceRepositoryImpl) GetOrCreate(ctx context.Context, tenantID, userID, period string, multiplier decimal.Decimal) (overtime.Balance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newBalanceID()
	if err != nil {
		return overtime.Balance{}, err
	}

	insert := `
		INSERT INTO overtime_balances (id, tenant_id, user_id, period, multiplier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (tenant_id, user_id, period) DO NOTHING
	`
	if _, err := q.Exec(ctx, insert, id, tenantID, userID, period, multiplier); err != nil {
		return overtime.Balance{}, err
	}

	query := `SELECT ` + overtimeBalanceColumns + `
		FROM overtime_balances
		WHERE tenant_id = $1 AND user_id = $2 AND period = $3
	`
	return scanOvertimeBalance(q.QueryRow(ctx, query, tenantID, userID, period))
}

func (r *overtimeBalanceRepositoryImpl) SetHours(ctx context.Context, tenantID, userID, period string, regular, overtimeHours, multiplier decimal.Decimal) (overtime.Balance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newBalanceID()
	if err != nil {
		return overtime.Balance{}, err
	}

	query := `
		INSERT INTO overtime_balances (
			id, tenant_id, user_id, period, regular_hours, overtime_hours,
			multiplier, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, NOW(), NOW()
		)
		ON CONFLICT (tenant_id, user_id, period) DO UPDATE
		SET regular_hours = EXCLUDED.regular_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			updated_at = NOW()
		RETURNING ` + overtimeBalanceColumns

	return scanOvertimeBalance(q.QueryRow(ctx, query,
		id, tenantID, userID, period, regular, overtimeHours, multiplier,
	))
}
