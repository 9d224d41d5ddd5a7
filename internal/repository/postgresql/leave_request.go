package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	id, tenant_id, employee_id, leave_type_id, leave_type,
	start_date, end_date, days_count, reason,
	status, approved_by, decided_at, denial_reason,
	cancelled_by, cancelled_at, created_at, updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.TenantID, &req.EmployeeID, &req.LeaveTypeID, &req.LeaveType,
		&req.StartDate, &req.EndDate, &req.DaysCount, &req.Reason,
		&req.Status, &req.ApprovedBy, &req.DecidedAt, &req.DenialReason,
		&req.CancelledBy, &req.CancelledAt, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("generate id: %w", err)
		}
		request.ID = id.String()
	}

	query := `
		INSERT INTO leave_requests (
			id, tenant_id, employee_id, leave_type_id, leave_type,
			start_date, end_date, days_count, reason, status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.TenantID, request.EmployeeID, request.LeaveTypeID, request.LeaveType,
		request.StartDate, request.EndDate, request.DaysCount, request.Reason, request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE tenant_id = $1 AND id = $2
	`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return req, nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, tenantID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	w.add("tenant_id = $%d", tenantID)
	if filter.EmployeeID != nil {
		w.add("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	if filter.StartDate != nil {
		w.add("end_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil {
		w.add("start_date <= $%d::date", *filter.EndDate)
	}

	whereClause := w.String()

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests `+whereClause, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s
		FROM leave_requests
		%s
		ORDER BY start_date DESC, created_at DESC
		%s
	`, leaveRequestColumns, whereClause, w.page(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
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

func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET leave_type_id = $3, leave_type = $4, start_date = $5, end_date = $6,
			days_count = $7, reason = $8, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query,
		request.TenantID, request.ID,
		request.LeaveTypeID, request.LeaveType, request.StartDate, request.EndDate,
		request.DaysCount, request.Reason,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrStatusChanged
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, request leave.LeaveRequest, from approval.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $4, approved_by = $5, decided_at = $6, denial_reason = $7,
			cancelled_by = $8, cancelled_at = $9, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status = $3
	`

	tag, err := q.Exec(ctx, query,
		request.TenantID, request.ID, from,
		request.Status, request.ApprovedBy, request.DecidedAt, request.DenialReason,
		request.CancelledBy, request.CancelledAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return approval.ErrStatusChanged
	}
	return nil
}
