package overtime

import (
	"context"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/shopspring/decimal"
)

type RuleRepository interface {
	// GetDefault returns ErrNoOvertimeRule when the tenant has none.
	GetDefault(ctx context.Context, tenantID string) (Rule, error)
	// ReplaceDefault overwrites the thresholds of the default rule, creating it if needed.
	ReplaceDefault(ctx context.Context, rule Rule) (Rule, error)
}

type BalanceRepository interface {
	// GetOrCreate returns the subject's balance for period, inserting a zeroed row with
	// multiplier when absent.
	GetOrCreate(ctx context.Context, tenantID, userID, period string, multiplier decimal.Decimal) (Balance, error)
	// SetHours upserts regular and overtime hours for period. An inserted row gets multiplier;
	// an existing row keeps its own multiplier and carry-over.
	SetHours(ctx context.Context, tenantID, userID, period string, regular, overtime, multiplier decimal.Decimal) (Balance, error)
}

type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, tenantID, id string) (Request, error)
	List(ctx context.Context, tenantID string, filter RequestFilter) ([]Request, int64, error)
	// UpdateStatus writes decision fields only if the row is still in from.
	UpdateStatus(ctx context.Context, request Request, from approval.Status) error
}
