package leave

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memTypeRepo map[string]leave.LeaveType

func (r memTypeRepo) GetByID(ctx context.Context, tenantID, id string) (leave.LeaveType, error) {
	t, ok := r[id]
	if !ok || t.TenantID != tenantID {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

type memRequestRepo struct {
	mu   sync.Mutex
	rows map[string]leave.LeaveRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{rows: map[string]leave.LeaveRequest{}}
}

func (r *memRequestRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	request.CreatedAt = time.Now().UTC()
	request.UpdatedAt = request.CreatedAt
	r.rows[request.ID] = request
	return request, nil
}

func (r *memRequestRepo) GetByID(ctx context.Context, tenantID, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.rows[id]
	if !ok || req.TenantID != tenantID {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *memRequestRepo) List(ctx context.Context, tenantID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []leave.LeaveRequest
	for _, req := range r.rows {
		if req.TenantID != tenantID {
			continue
		}
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

func (r *memRequestRepo) Update(ctx context.Context, request leave.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.rows[request.ID]
	if !ok || cur.Status != approval.StatusPending {
		return approval.ErrStatusChanged
	}
	r.rows[request.ID] = request
	return nil
}

func (r *memRequestRepo) UpdateStatus(ctx context.Context, request leave.LeaveRequest, from approval.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.rows[request.ID]
	if !ok || cur.Status != from {
		return approval.ErrStatusChanged
	}
	r.rows[request.ID] = request
	return nil
}

type memBalanceRepo struct {
	mu   sync.Mutex
	rows []leave.LeaveBalance
	err  error
}

func (r *memBalanceRepo) find(tenantID, employeeID, leaveTypeID string, on time.Time) int {
	for i, b := range r.rows {
		if b.TenantID == tenantID && b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID &&
			!on.Before(b.PeriodStart) && !on.After(b.PeriodEnd) {
			return i
		}
	}
	return -1
}

func (r *memBalanceRepo) GetActive(ctx context.Context, tenantID, employeeID, leaveTypeID string, on time.Time) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(tenantID, employeeID, leaveTypeID, on)
	if i < 0 {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return r.rows[i], nil
}

func (r *memBalanceRepo) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if balance.ID == "" {
		balance.ID = uuid.NewString()
	}
	r.rows = append(r.rows, balance)
	return balance, nil
}

func (r *memBalanceRepo) AddUsed(ctx context.Context, tenantID, employeeID, leaveTypeID string, on time.Time, delta decimal.Decimal) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return leave.LeaveBalance{}, r.err
	}
	i := r.find(tenantID, employeeID, leaveTypeID, on)
	if i < 0 {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	r.rows[i].UsedYTD = decimal.Max(r.rows[i].UsedYTD.Add(delta), decimal.Zero)
	return r.rows[i], nil
}

func (r *memBalanceRepo) ListActive(ctx context.Context, tenantID, employeeID string, on time.Time) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []leave.LeaveBalance
	for _, b := range r.rows {
		if b.TenantID == tenantID && b.EmployeeID == employeeID && !on.Before(b.PeriodStart) && !on.After(b.PeriodEnd) {
			out = append(out, b)
		}
	}
	return out, nil
}

type stubCompliance struct {
	days   decimal.Decimal
	result leave.ComplianceResult
	err    error
}

func (s *stubCompliance) WorkingDays(ctx context.Context, tenantID string, start, end time.Time) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.days, nil
}

func (s *stubCompliance) Check(ctx context.Context, in leave.ComplianceInput) (leave.ComplianceResult, error) {
	return s.result, nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	records []audit.Record
	err     error
}

func (r *memAuditRepo) Append(ctx context.Context, records ...audit.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, records...)
	return nil
}

func (r *memAuditRepo) ListByEntity(ctx context.Context, tenantID string, entityType audit.EntityType, entityID string) ([]audit.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []audit.Record
	for _, rec := range r.records {
		if rec.TenantID == tenantID && rec.EntityType == entityType && rec.EntityID == entityID {
			out = append(out, rec)
		}
	}
	return out, nil
}
