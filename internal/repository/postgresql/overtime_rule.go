package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const overtimeRuleColumns = `
	id, tenant_id, name, daily_threshold_hours, weekly_threshold_hours,
	is_default, created_at, updated_at`

type overtimeRuleRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRuleRepository(db *database.DB) overtime.RuleRepository {
	return &overtimeRuleRepositoryImpl{db: db}
}

func scanOvertimeRule(row pgx.Row) (overtime.Rule, error) {
	var rule overtime.Rule
	err := row.Scan(
		&rule.ID, &rule.TenantID, &rule.Name, &rule.DailyThresholdHours, &rule.WeeklyThresholdHours,
		&rule.IsDefault, &rule.CreatedAt, &rule.UpdatedAt,
	)
	return rule, err
}

func (r *overtimeRuleRepositoryImpl) GetDefault(ctx context.Context, tenantID string) (overtime.Rule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + overtimeRuleColumns + `
		FROM overtime_rules
		WHERE tenant_id = $1 AND is_default
	`

	rule, err := scanOvertimeRule(q.QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Rule{}, overtime.ErrNoOvertimeRule
		}
		return overtime.Rule{}, err
	}
	return rule, nil
}

func (r *overtimeRuleRepositoryImpl) ReplaceDefault(ctx context.Context, rule overtime.Rule) (overtime.Rule, error) {
	q := GetQuerier(ctx, r.db)

	if rule.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return overtime.Rule{}, fmt.Errorf("generate id: %w", err)
		}
		rule.ID = id.String()
	}

	query := `
		INSERT INTO overtime_rules (
			id, tenant_id, name, daily_threshold_hours, weekly_threshold_hours,
			is_default, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			TRUE, NOW(), NOW()
		)
		ON CONFLICT (tenant_id) WHERE is_default DO UPDATE
		SET name = EXCLUDED.name,
			daily_threshold_hours = EXCLUDED.daily_threshold_hours,
			weekly_threshold_hours = EXCLUDED.weekly_threshold_hours,
			updated_at = NOW()
		RETURNING ` + overtimeRuleColumns

	return scanOvertimeRule(q.QueryRow(ctx, query,
		rule.ID, rule.TenantID, rule.Name, rule.DailyThresholdHours, rule.WeeklyThresholdHours,
	))
}
