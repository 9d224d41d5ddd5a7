package overtime

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/shopspring/decimal"
)

// DefaultMultiplier applies to balance rows created without an explicit multiplier.
var DefaultMultiplier = decimal.RequireFromString("1.5")

// Rule holds a tenant's overtime thresholds. One rule per tenant is the default.
type Rule struct {
	ID                   string
	TenantID             string
	Name                 string
	DailyThresholdHours  decimal.Decimal
	WeeklyThresholdHours decimal.Decimal
	IsDefault            bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Balance is the regular/overtime split of one subject for one ISO week.
type Balance struct {
	ID             string
	TenantID       string
	UserID         string
	Period         string // YYYY-Www
	RegularHours   decimal.Decimal
	OvertimeHours  decimal.Decimal
	Multiplier     decimal.Decimal
	CarryOverHours decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Request is a pre-approval for planned overtime.
type Request struct {
	ID             string
	TenantID       string
	UserID         string
	StartDate      time.Time
	EndDate        time.Time
	EstimatedHours decimal.Decimal
	Reason         string
	Status         approval.Status // pending, approved, denied
	ApprovedBy     *string
	DecidedAt      *time.Time
	DenialReason   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
