package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const openEntryIndex = "uq_time_entries_open_per_subject"

const timeEntryColumns = `
	id, tenant_id, user_id, clock_in, clock_out, break_minutes, project_task, notes,
	entry_type, approval_status, approved_by, approved_at, edited_by, created_at, updated_at`

type timeEntryRepositoryImpl struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timeentry.Repository {
	return &timeEntryRepositoryImpl{db: db}
}

func scanTimeEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry
	err := row.Scan(
		&e.ID, &e.TenantID, &e.UserID, &e.ClockIn, &e.ClockOut, &e.BreakMinutes, &e.ProjectTask, &e.Notes,
		&e.EntryType, &e.ApprovalStatus, &e.ApprovedBy, &e.ApprovedAt, &e.EditedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func collectTimeEntries(rows pgx.Rows) ([]timeentry.TimeEntry, error) {
	defer rows.Close()

	entries := make([]timeentry.TimeEntry, 0)
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Create implements timeentry.Repository.
func (r *timeEntryRepositoryImpl) Create(ctx context.Context, entry timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return timeentry.TimeEntry{}, fmt.Errorf("generate id: %w", err)
		}
		entry.ID = id.String()
	}

	query := `
		INSERT INTO time_entries (
			id, tenant_id, user_id, clock_in, clock_out, break_minutes, project_task, notes,
			entry_type, approval_status, approved_by, approved_at, edited_by,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.TenantID, entry.UserID, entry.ClockIn, entry.ClockOut, entry.BreakMinutes, entry.ProjectTask, entry.Notes,
		entry.EntryType, entry.ApprovalStatus, entry.ApprovedBy, entry.ApprovedAt, entry.EditedBy,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, openEntryIndex) {
			return timeentry.TimeEntry{}, timeentry.ErrAlreadyClockedIn
		}
		return timeentry.TimeEntry{}, err
	}

	return entry, nil
}

// GetByID implements timeentry.Repository.
func (r *timeEntryRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE tenant_id = $1 AND id = $2
	`

	e, err := scanTimeEntry(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, err
	}
	return e, nil
}

// GetOpenEntry implements timeentry.Repository.
func (r *timeEntryRepositoryImpl) GetOpenEntry(ctx context.Context, tenantID, userID string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE tenant_id = $1 AND user_id = $2
		  AND clock_out IS NULL AND approval_status <> 'rejected'
		ORDER BY clock_in DESC
		LIMIT 1
	`

	e, err := scanTimeEntry(q.QueryRow(ctx, query, tenantID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, err
	}
	return e, nil
}

// ListActiveForSubject implements timeentry.Repository.
func (r *timeEntryRepositoryImpl) ListActiveForSubject(ctx context.Context, tenantID, userID string) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE tenant_id = $1 AND user_id = $2 AND approval_status <> 'rejected'
		ORDER BY clock_in
	`

	rows, err := q.Query(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return collectTimeEntries(rows)
}

// ListInRange implements timeentry.Repository.
func (r *timeEntryRepositoryImpl) ListInRange(ctx context.Context, tenantID, userID string, from, to time.Time, statuses ...approval.Status) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE tenant_id = $1 AND user_id = $2
		  AND clock_in >= $3 AND clock_in < $4
		  AND approval_status = ANY($5)
		ORDER BY clock_in
	`

	rows, err := q.Query(ctx, query, tenantID, userID, from, to, statusStrings(statuses))
	if err != nil {
		return nil, err
	}
	return collectTimeEntries(rows)
}

// Update implements timeentry.Repository.
func (r *timeEntryRepositoryImpl) Update(ctx context.Context, entry timeentry.TimeEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET clock_in = $3, clock_out = $4, break_minutes = $5, project_task = $6, notes = $7,
			edited_by = $8, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND approval_status <> 'rejected'
	`

	tag, err := q.Exec(ctx, query,
		entry.TenantID, entry.ID,
		entry.ClockIn, entry.ClockOut, entry.BreakMinutes, entry.ProjectTask, entry.Notes,
		entry.EditedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrTimeEntryNotFound
	}
	return nil
}

// UpdateStatus implements timeentry.Repository.
func (r *timeEntryRepositoryImpl) UpdateStatus(ctx context.Context, entry timeentry.TimeEntry, from approval.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET approval_status = $4, approved_by = $5, approved_at = $6, edited_by = $7, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND approval_status = $3
	`

	tag, err := q.Exec(ctx, query,
		entry.TenantID, entry.ID, from,
		entry.ApprovalStatus, entry.ApprovedBy, entry.ApprovedAt, entry.EditedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrStatusChanged
	}
	return nil
}

// List implements timeentry.Repository.
func (r *timeEntryRepositoryImpl) List(ctx context.Context, tenantID string, filter timeentry.ListFilter) ([]timeentry.TimeEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	w.add("tenant_id = $%d", tenantID)
	if filter.UserID != nil {
		w.add("user_id = $%d", *filter.UserID)
	}
	if filter.From != nil {
		w.add("clock_in >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("clock_in < $%d", *filter.To)
	}
	if filter.Status != nil {
		w.add("approval_status = $%d", *filter.Status)
	}
	if filter.EntryType != nil {
		w.add("entry_type = $%d", *filter.EntryType)
	}
	if filter.ProjectTask != nil {
		w.add("project_task ILIKE '%%' || $%d || '%%'", *filter.ProjectTask)
	}

	whereClause := w.String()

	var total int64
	countQuery := `SELECT COUNT(*) FROM time_entries ` + whereClause
	if err := q.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s
		FROM time_entries
		%s
		ORDER BY clock_in DESC
		%s
	`, timeEntryColumns, whereClause, w.page(filter.Page, filter.PageSize))

	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	entries, err := collectTimeEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
