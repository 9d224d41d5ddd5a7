package timeentry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/google/uuid"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memEntryRepo struct {
	mu   sync.Mutex
	rows map[string]timeentry.TimeEntry
}

func newMemEntryRepo(entries ...timeentry.TimeEntry) *memEntryRepo {
	r := &memEntryRepo{rows: map[string]timeentry.TimeEntry{}}
	for _, e := range entries {
		r.rows[e.ID] = e
	}
	return r
}

func (r *memEntryRepo) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ClockOut == nil {
		for _, e := range r.rows {
			if e.TenantID == entry.TenantID && e.UserID == entry.UserID && e.IsOpen() && e.ApprovalStatus != approval.StatusRejected {
				return timeentry.TimeEntry{}, timeentry.ErrAlreadyClockedIn
			}
		}
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt
	r.rows[entry.ID] = entry
	return entry, nil
}

func (r *memEntryRepo) GetByID(ctx context.Context, tenantID, id string) (timeentry.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.rows[id]
	if !ok || e.TenantID != tenantID {
		return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
	}
	return e, nil
}

func (r *memEntryRepo) GetOpenEntry(ctx context.Context, tenantID, userID string) (timeentry.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.rows {
		if e.TenantID == tenantID && e.UserID == userID && e.IsOpen() && e.ApprovalStatus != approval.StatusRejected {
			return e, nil
		}
	}
	return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
}

func (r *memEntryRepo) ListActiveForSubject(ctx context.Context, tenantID, userID string) ([]timeentry.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []timeentry.TimeEntry
	for _, e := range r.rows {
		if e.TenantID == tenantID && e.UserID == userID && e.ApprovalStatus != approval.StatusRejected {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEntryRepo) ListInRange(ctx context.Context, tenantID, userID string, from, to time.Time, statuses ...approval.Status) ([]timeentry.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []timeentry.TimeEntry
	for _, e := range r.rows {
		if e.TenantID != tenantID || e.UserID != userID {
			continue
		}
		if e.ClockIn.Before(from) || !e.ClockIn.Before(to) {
			continue
		}
		for _, s := range statuses {
			if e.ApprovalStatus == s {
				out = append(out, e)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.Before(out[j].ClockIn) })
	return out, nil
}

func (r *memEntryRepo) Update(ctx context.Context, entry timeentry.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.rows[entry.ID]
	if !ok || e.TenantID != entry.TenantID || e.ApprovalStatus == approval.StatusRejected {
		return timeentry.ErrTimeEntryNotFound
	}
	entry.UpdatedAt = time.Now().UTC()
	r.rows[entry.ID] = entry
	return nil
}

func (r *memEntryRepo) UpdateStatus(ctx context.Context, entry timeentry.TimeEntry, from approval.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.rows[entry.ID]
	if !ok || e.TenantID != entry.TenantID || e.ApprovalStatus != from {
		return approval.ErrStatusChanged
	}
	e.ApprovalStatus = entry.ApprovalStatus
	e.ApprovedBy = entry.ApprovedBy
	e.ApprovedAt = entry.ApprovedAt
	e.EditedBy = entry.EditedBy
	r.rows[entry.ID] = e
	return nil
}

func (r *memEntryRepo) List(ctx context.Context, tenantID string, filter timeentry.ListFilter) ([]timeentry.TimeEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []timeentry.TimeEntry
	for _, e := range r.rows {
		if e.TenantID != tenantID {
			continue
		}
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && string(e.ApprovalStatus) != *filter.Status {
			continue
		}
		if filter.From != nil && e.ClockIn.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !e.ClockIn.Before(*filter.To) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
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

func (r *memAuditRepo) fields() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.FieldName)
	}
	return out
}
