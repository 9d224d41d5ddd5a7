package overtime

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRuleRepo struct {
	rules map[string]overtime.Rule
}

func (r *memRuleRepo) GetDefault(ctx context.Context, tenantID string) (overtime.Rule, error) {
	rule, ok := r.rules[tenantID]
	if !ok {
		return overtime.Rule{}, overtime.ErrNoOvertimeRule
	}
	return rule, nil
}

func (r *memRuleRepo) ReplaceDefault(ctx context.Context, rule overtime.Rule) (overtime.Rule, error) {
	if cur, ok := r.rules[rule.TenantID]; ok {
		rule.ID = cur.ID
	} else {
		rule.ID = uuid.NewString()
	}
	rule.IsDefault = true
	r.rules[rule.TenantID] = rule
	return rule, nil
}

type memBalanceRepo struct {
	mu   sync.Mutex
	rows map[string]overtime.Balance
}

func balanceKey(tenantID, userID, period string) string {
	return tenantID + "/" + userID + "/" + period
}

func (r *memBalanceRepo) GetOrCreate(ctx context.Context, tenantID, userID, period string, multiplier decimal.Decimal) (overtime.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := balanceKey(tenantID, userID, period)
	if b, ok := r.rows[k]; ok {
		return b, nil
	}
	b := overtime.Balance{ID: uuid.NewString(), TenantID: tenantID, UserID: userID, Period: period, Multiplier: multiplier}
	r.rows[k] = b
	return b, nil
}

func (r *memBalanceRepo) SetHours(ctx context.Context, tenantID, userID, period string, regular, overtimeHours, multiplier decimal.Decimal) (overtime.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := balanceKey(tenantID, userID, period)
	b, ok := r.rows[k]
	if !ok {
		b = overtime.Balance{ID: uuid.NewString(), TenantID: tenantID, UserID: userID, Period: period, Multiplier: multiplier}
	}
	b.RegularHours = regular
	b.OvertimeHours = overtimeHours
	r.rows[k] = b
	return b, nil
}

type memRequestRepo struct {
	mu   sync.Mutex
	rows map[string]overtime.Request
}

func (r *memRequestRepo) Create(ctx context.Context, request overtime.Request) (overtime.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request.ID = uuid.NewString()
	r.rows[request.ID] = request
	return request, nil
}

func (r *memRequestRepo) GetByID(ctx context.Context, tenantID, id string) (overtime.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.rows[id]
	if !ok || req.TenantID != tenantID {
		return overtime.Request{}, overtime.ErrOvertimeRequestNotFound
	}
	return req, nil
}

func (r *memRequestRepo) List(ctx context.Context, tenantID string, filter overtime.RequestFilter) ([]overtime.Request, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []overtime.Request
	for _, req := range r.rows {
		if req.TenantID == tenantID && (filter.UserID == nil || req.UserID == *filter.UserID) {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memRequestRepo) UpdateStatus(ctx context.Context, request overtime.Request, from approval.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.rows[request.ID]
	if !ok || cur.Status != from {
		return approval.ErrStatusChanged
	}
	r.rows[request.ID] = request
	return nil
}

// entryLister serves ListInRange from a fixed slice. Other methods are unused here.
type entryLister struct {
	timeentry.Repository
	entries []timeentry.TimeEntry
}

func (r *entryLister) ListInRange(ctx context.Context, tenantID, userID string, from, to time.Time, statuses ...approval.Status) ([]timeentry.TimeEntry, error) {
	var out []timeentry.TimeEntry
	for _, e := range r.entries {
		if e.TenantID != tenantID || e.UserID != userID || e.ClockIn.Before(from) || !e.ClockIn.Before(to) {
			continue
		}
		for _, s := range statuses {
			if e.ApprovalStatus == s {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

type memAuditRepo struct {
	records []audit.Record
}

func (r *memAuditRepo) Append(ctx context.Context, records ...audit.Record) error {
	r.records = append(r.records, records...)
	return nil
}

func (r *memAuditRepo) ListByEntity(ctx context.Context, tenantID string, entityType audit.EntityType, entityID string) ([]audit.Record, error) {
	return r.records, nil
}
