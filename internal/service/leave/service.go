package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/postcommit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	tx         database.Transactor
	types      leave.LeaveTypeRepository
	requests   leave.LeaveRequestRepository
	balances   leave.LeaveBalanceRepository
	compliance leave.ComplianceChecker
	ledger     leave.Ledger
	audits     audit.Repository
	loc        *time.Location
	now        func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	types leave.LeaveTypeRepository,
	requests leave.LeaveRequestRepository,
	balances leave.LeaveBalanceRepository,
	compliance leave.ComplianceChecker,
	ledger leave.Ledger,
	audits audit.Repository,
	loc *time.Location,
) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveServiceImpl{
		tx:         tx,
		types:      types,
		requests:   requests,
		balances:   balances,
		compliance: compliance,
		ledger:     ledger,
		audits:     audits,
		loc:        loc,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !p.Can(user.PermissionLeaveCreate) {
		return leave.LeaveRequestResponse{}, user.ErrInsufficientPermissions
	}

	leaveType, err := l.activeLeaveType(ctx, p.TenantID, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	days, err := l.checkCompliance(ctx, leave.ComplianceInput{
		TenantID:    p.TenantID,
		EmployeeID:  p.UserID,
		LeaveTypeID: leaveType.ID,
		StartDate:   req.Start,
		EndDate:     req.End,
		Department:  req.Department,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := l.requests.Create(ctx, leave.LeaveRequest{
		TenantID:    p.TenantID,
		EmployeeID:  p.UserID,
		LeaveTypeID: leaveType.ID,
		LeaveType:   leaveType.Name,
		StartDate:   req.Start,
		EndDate:     req.End,
		DaysCount:   days,
		Reason:      req.Reason,
		Status:      approval.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.InfoContext(ctx, "leave request created",
		"leave_request_id", created.ID,
		"employee_id", p.UserID,
		"days", days.String(),
	)
	return leave.NewLeaveRequestResponse(created), nil
}

// UpdateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateLeaveRequest(ctx context.Context, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var updated leave.LeaveRequest
	var changes audit.Changes
	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := l.requests.GetByID(ctx, p.TenantID, req.ID)
		if err != nil {
			return err
		}
		if !p.CanAccessSubject(current.EmployeeID, user.PermissionLeaveApprove) {
			return leave.ErrForbidden
		}
		if current.Status != approval.StatusPending {
			return leave.ErrRequestNotPending
		}

		updated = current
		if req.StartDate != nil {
			updated.StartDate, _ = validator.IsValidDate(*req.StartDate)
		}
		if req.EndDate != nil {
			updated.EndDate, _ = validator.IsValidDate(*req.EndDate)
		}
		if updated.EndDate.Before(updated.StartDate) {
			return validator.ValidationErrors{{Field: "end_date", Message: "end_date must not be before start_date"}}
		}
		if req.Reason != nil {
			updated.Reason = req.Reason
		}
		if req.LeaveTypeID != nil && *req.LeaveTypeID != current.LeaveTypeID {
			leaveType, err := l.activeLeaveType(ctx, p.TenantID, *req.LeaveTypeID)
			if err != nil {
				return err
			}
			updated.LeaveTypeID = leaveType.ID
			updated.LeaveType = leaveType.Name
		}

		updated.DaysCount, err = l.checkCompliance(ctx, leave.ComplianceInput{
			TenantID:    p.TenantID,
			EmployeeID:  updated.EmployeeID,
			LeaveTypeID: updated.LeaveTypeID,
			StartDate:   updated.StartDate,
			EndDate:     updated.EndDate,
			Department:  req.Department,
		})
		if err != nil {
			return err
		}

		changes = audit.Changes{
			TenantID:   p.TenantID,
			EntityType: audit.EntityLeaveRequest,
			EntityID:   current.ID,
			ChangedBy:  p.UserID,
		}
		changes.Set("leave_type_id", current.LeaveTypeID, updated.LeaveTypeID)
		changes.Set("start_date", current.StartDate.Format(dateLayout), updated.StartDate.Format(dateLayout))
		changes.Set("end_date", current.EndDate.Format(dateLayout), updated.EndDate.Format(dateLayout))
		changes.Set("days_count", current.DaysCount.String(), updated.DaysCount.String())
		changes.Field("reason", current.Reason, updated.Reason)
		if changes.Empty() {
			return nil
		}

		if err := l.requests.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	recordAudit(ctx, l.audits, changes)

	updated.UpdatedAt = l.now()
	return leave.NewLeaveRequestResponse(updated), nil
}

// DecideLeaveRequest implements leave.LeaveService. Deciding a request into the status it
// already has returns it unchanged.
func (l *LeaveServiceImpl) DecideLeaveRequest(ctx context.Context, req leave.DecideLeaveRequestRequest) (leave.ApprovalResult, error) {
	if err := req.Validate(); err != nil {
		return leave.ApprovalResult{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return leave.ApprovalResult{}, err
	}
	if !p.Can(user.PermissionLeaveApprove) {
		return leave.ApprovalResult{}, user.ErrInsufficientPermissions
	}

	decision, _ := approval.ParseDecision(req.Decision)
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	request, err := l.requests.GetByID(ctx, p.TenantID, req.ID)
	if err != nil {
		return leave.ApprovalResult{}, err
	}

	t, err := approval.LeaveRequest.Decide(request.Status, decision, reason)
	if err != nil {
		return leave.ApprovalResult{}, err
	}
	if !t.Effective() {
		return leave.ApprovalResult{
			Record:      leave.NewLeaveRequestResponse(request),
			SideEffects: postcommit.Report{},
		}, nil
	}

	now := l.now()
	request.Status = t.To
	request.ApprovedBy = &p.UserID
	request.DecidedAt = &now
	request.DenialReason = nil
	if t.To == approval.StatusDenied {
		request.DenialReason = &t.Reason
	}

	if err := l.requests.UpdateStatus(ctx, request, t.From); err != nil {
		return leave.ApprovalResult{}, fmt.Errorf("failed to update leave request status: %w", err)
	}
	request.UpdatedAt = now

	slog.InfoContext(ctx, "leave request decided",
		"leave_request_id", request.ID,
		"from", t.From,
		"to", t.To,
		"decided_by", p.UserID,
	)

	report := l.afterTransition(ctx, p, request, t)
	return leave.ApprovalResult{
		Record:      leave.NewLeaveRequestResponse(request),
		SideEffects: report,
	}, nil
}

// CancelLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CancelLeaveRequest(ctx context.Context, req leave.CancelLeaveRequestRequest) (leave.ApprovalResult, error) {
	if !validator.IsValidUUID(req.ID) {
		return leave.ApprovalResult{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return leave.ApprovalResult{}, err
	}

	request, err := l.requests.GetByID(ctx, p.TenantID, req.ID)
	if err != nil {
		return leave.ApprovalResult{}, err
	}
	if !p.CanAccessSubject(request.EmployeeID, user.PermissionLeaveApprove) {
		return leave.ApprovalResult{}, leave.ErrForbidden
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	t, err := approval.LeaveRequest.Cancel(request.Status, reason)
	if err != nil {
		return leave.ApprovalResult{}, err
	}

	now := l.now()
	request.Status = t.To
	request.CancelledBy = &p.UserID
	request.CancelledAt = &now

	if err := l.requests.UpdateStatus(ctx, request, t.From); err != nil {
		return leave.ApprovalResult{}, fmt.Errorf("failed to cancel leave request: %w", err)
	}
	request.UpdatedAt = now

	report := l.afterTransition(ctx, p, request, t)
	return leave.ApprovalResult{
		Record:      leave.NewLeaveRequestResponse(request),
		SideEffects: report,
	}, nil
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveRequestResponse{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := l.requests.GetByID(ctx, p.TenantID, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !p.CanAccessSubject(request.EmployeeID, user.PermissionLeaveViewAll) {
		return leave.LeaveRequestResponse{}, leave.ErrForbidden
	}

	return leave.NewLeaveRequestResponse(request), nil
}

// ListLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequest(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	switch {
	case filter.EmployeeID == nil && !p.Can(user.PermissionLeaveViewAll):
		filter.EmployeeID = &p.UserID
	case filter.EmployeeID != nil && !p.CanAccessSubject(*filter.EmployeeID, user.PermissionLeaveViewAll):
		return leave.ListLeaveRequestResponse{}, leave.ErrForbidden
	}

	requests, totalCount, err := l.requests.List(ctx, p.TenantID, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to get leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(filter.Limit)))

	start := (filter.Page-1)*filter.Limit + 1
	end := start + len(responses) - 1
	if end > int(totalCount) {
		end = int(totalCount)
	}
	showing := fmt.Sprintf("%d-%d of %d results", start, end, totalCount)
	if totalCount == 0 {
		showing = "0 results"
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    totalCount,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    totalPages,
		Showing:       showing,
		LeaveRequests: responses,
	}, nil
}

// ListBalances implements leave.LeaveService. An empty employeeID means the caller.
func (l *LeaveServiceImpl) ListBalances(ctx context.Context, employeeID string) ([]leave.LeaveBalanceResponse, error) {
	p, err := user.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if employeeID == "" {
		employeeID = p.UserID
	}
	if !validator.IsValidUUID(employeeID) {
		return nil, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id must be a valid UUID"}}
	}
	if !p.CanAccessSubject(employeeID, user.PermissionLeaveViewAll) {
		return nil, leave.ErrForbidden
	}

	balances, err := l.balances.ListActive(ctx, p.TenantID, employeeID, civilDate(l.now(), l.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewLeaveBalanceResponse(b))
	}
	return responses, nil
}

// AdjustBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) AdjustBalance(ctx context.Context, req leave.AdjustBalanceRequest) (leave.LeaveBalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	if !p.Can(user.PermissionLeaveAdjustBalance) {
		return leave.LeaveBalanceResponse{}, user.ErrInsufficientPermissions
	}

	balance, err := l.ledger.Adjust(ctx, req)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	return leave.NewLeaveBalanceResponse(balance), nil
}

// afterTransition posts the ledger delta and the status audit row of a committed transition.
func (l *LeaveServiceImpl) afterTransition(ctx context.Context, p user.Principal, request leave.LeaveRequest, t approval.Transition) postcommit.Report {
	changes := audit.Changes{
		TenantID:   p.TenantID,
		EntityType: audit.EntityLeaveRequest,
		EntityID:   request.ID,
		ChangedBy:  p.UserID,
		Reason:     t.Reason,
	}
	changes.Set("status", string(t.From), string(t.To))

	return postcommit.Run(ctx,
		postcommit.Step{
			Name: "ledger",
			Run: func(ctx context.Context) error {
				_, err := l.ledger.PostApprovalDelta(ctx, request, t.From, t.To)
				return err
			},
		},
		auditStep(l.audits, changes),
	)
}

func auditStep(audits audit.Repository, changes audit.Changes) postcommit.Step {
	return postcommit.Step{
		Name: "audit",
		Run: func(ctx context.Context) error {
			return audits.Append(ctx, changes.Records()...)
		},
	}
}

// recordAudit appends changes after the mutation has committed. A failed write is logged
// and reported; the mutation stands.
func recordAudit(ctx context.Context, audits audit.Repository, changes audit.Changes) postcommit.Report {
	if changes.Empty() {
		return postcommit.Report{}
	}
	return postcommit.Run(ctx, auditStep(audits, changes))
}

func (l *LeaveServiceImpl) activeLeaveType(ctx context.Context, tenantID, id string) (leave.LeaveType, error) {
	leaveType, err := l.types.GetByID(ctx, tenantID, id)
	if err != nil {
		return leave.LeaveType{}, err
	}
	if !leaveType.IsActive {
		return leave.LeaveType{}, leave.ErrLeaveTypeInactive
	}
	return leaveType, nil
}

// checkCompliance counts working days and runs the tenant policy. It returns the day count
// to store on the request.
func (l *LeaveServiceImpl) checkCompliance(ctx context.Context, in leave.ComplianceInput) (decimal.Decimal, error) {
	days, err := l.compliance.WorkingDays(ctx, in.TenantID, in.StartDate, in.EndDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate working days: %w", err)
	}
	if !days.IsPositive() {
		return decimal.Zero, leave.ErrNoWorkingDays
	}

	in.Days = days
	result, err := l.compliance.Check(ctx, in)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to check leave compliance: %w", err)
	}
	if !result.Valid {
		return decimal.Zero, &leave.ComplianceError{Code: result.ErrorCode, Message: result.Message}
	}
	return days, nil
}

const dateLayout = "2006-01-02"
