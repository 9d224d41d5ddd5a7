package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const overtimeRequestColumns = `
	id, tenant_id, user_id, start_date, end_date, estimated_hours, reason,
	status, approved_by, decided_at, denial_reason, created_at, updated_at`

type overtimeRequestRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRequestRepository(db *database.DB) overtime.RequestRepository {
	return &overtimeRequestRepositoryImpl{db: db}
}

func scanOvertimeRequest(row pgx.Row) (overtime.Request, error) {
	var req overtime.Request
	err := row.Scan(
		&req.ID, &req.TenantID, &req.UserID, &req.StartDate, &req.EndDate, &req.EstimatedHours, &req.Reason,
		&req.Status, &req.ApprovedBy, &req.DecidedAt, &req.DenialReason, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *overtimeRequestRepositoryImpl) Create(ctx context.Context, request overtime.Request) (overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return overtime.Request{}, fmt.Errorf("generate id: %w", err)
		}
		request.ID = id.String()
	}

	query := `
		INSERT INTO overtime_requests (
			id, tenant_id, user_id, start_date, end_date, estimated_hours, reason,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.TenantID, request.UserID, request.StartDate, request.EndDate, request.EstimatedHours, request.Reason,
		request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return overtime.Request{}, err
	}

	return request, nil
}

func (r *overtimeRequestRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + overtimeRequestColumns + `
		FROM overtime_requests
		WHERE tenant_id = $1 AND id = $2
	`

	req, err := scanOvertimeRequest(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Request{}, overtime.ErrOvertimeRequestNotFound
		}
		return overtime.Request{}, err
	}
	return req, nil
}

func (r *overtimeRequestRepositoryImpl) List(ctx context.Context, tenantID string, filter overtime.RequestFilter) ([]overtime.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	w.add("tenant_id = $%d", tenantID)
	if filter.UserID != nil {
		w.add("user_id = $%d", *filter.UserID)
	}
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}

	whereClause := w.String()

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM overtime_requests `+whereClause, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s
		FROM overtime_requests
		%s
		ORDER BY start_date DESC, created_at DESC
		%s
	`, overtimeRequestColumns, whereClause, w.page(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]overtime.Request, 0)
	for rows.Next() {
		req, err := scanOvertimeRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *overtimeRequestRepositoryImpl) UpdateStatus(ctx context.Context, request overtime.Request, from approval.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_requests
		SET status = $4, approved_by = $5, decided_at = $6, denial_reason = $7, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status = $3
	`

	tag, err := q.Exec(ctx, query,
		request.TenantID, request.ID, from,
		request.Status, request.ApprovedBy, request.DecidedAt, request.DenialReason,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrStatusChanged
	}
	return nil
}
