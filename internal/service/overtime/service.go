package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/postcommit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type OvertimeServiceImpl struct {
	tx         database.Transactor
	rules      overtime.RuleRepository
	balances   overtime.BalanceRepository
	requests   overtime.RequestRepository
	entries    timeentry.Repository
	audits     audit.Repository
	multiplier decimal.Decimal
	loc        *time.Location
	now        func() time.Time
}

func NewOvertimeService(
	tx database.Transactor,
	rules overtime.RuleRepository,
	balances overtime.BalanceRepository,
	requests overtime.RequestRepository,
	entries timeentry.Repository,
	audits audit.Repository,
	multiplier decimal.Decimal,
	loc *time.Location,
) overtime.OvertimeService {
	if loc == nil {
		loc = time.UTC
	}
	if !multiplier.IsPositive() {
		multiplier = overtime.DefaultMultiplier
	}
	return &OvertimeServiceImpl{
		tx:         tx,
		rules:      rules,
		balances:   balances,
		requests:   requests,
		entries:    entries,
		audits:     audits,
		multiplier: multiplier,
		loc:        loc,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Calculate implements overtime.OvertimeService. Entries clocked in within
// [start_date, end_date) count; the balance of the ISO week containing the start date
// receives the result.
func (s *OvertimeServiceImpl) Calculate(ctx context.Context, req overtime.CalculateRequest) (overtime.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.CalculationResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return overtime.CalculationResponse{}, err
	}
	subjectID := req.UserID
	if subjectID == "" {
		subjectID = p.UserID
	}
	if !p.CanAccessSubject(subjectID, user.PermissionOvertimeCalculate) {
		return overtime.CalculationResponse{}, overtime.ErrForbidden
	}

	from := time.Date(req.Start.Year(), req.Start.Month(), req.Start.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(req.End.Year(), req.End.Month(), req.End.Day(), 0, 0, 0, 0, s.loc)
	period := overtime.PeriodKey(from)

	var (
		rule    overtime.Rule
		split   overtime.Split
		balance overtime.Balance
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rule, err = s.rules.GetDefault(ctx, p.TenantID)
		if err != nil {
			return err
		}

		entries, err := s.entries.ListInRange(ctx, p.TenantID, subjectID, from, to, approval.StatusApproved)
		if err != nil {
			return fmt.Errorf("failed to load approved entries: %w", err)
		}
		split = overtime.Partition(entries, rule, s.loc)

		balance, err = s.balances.SetHours(ctx, p.TenantID, subjectID, period, split.Regular, split.Overtime, s.multiplier)
		if err != nil {
			return fmt.Errorf("failed to store overtime balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.CalculationResponse{}, err
	}

	slog.InfoContext(ctx, "overtime calculated",
		"user_id", subjectID,
		"period", period,
		"regular_hours", split.Regular.String(),
		"overtime_hours", split.Overtime.String(),
	)

	days := split.Days
	if days == nil {
		days = []overtime.DayHours{}
	}
	return overtime.CalculationResponse{
		UserID:        subjectID,
		Period:        period,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		RegularHours:  split.Regular,
		OvertimeHours: split.Overtime,
		Days:          days,
		Rule:          overtime.NewRuleResponse(rule),
		Balance:       overtime.NewBalanceResponse(balance),
	}, nil
}

// GetBalance implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) GetBalance(ctx context.Context, userID string, period *string) (overtime.BalanceResponse, error) {
	p, err := user.FromContext(ctx)
	if err != nil {
		return overtime.BalanceResponse{}, err
	}
	if userID == "" {
		userID = p.UserID
	}
	if !validator.IsValidUUID(userID) {
		return overtime.BalanceResponse{}, validator.ValidationErrors{{Field: "user_id", Message: "user_id must be a valid UUID"}}
	}
	if !p.CanAccessSubject(userID, user.PermissionOvertimeViewAll) {
		return overtime.BalanceResponse{}, overtime.ErrForbidden
	}

	key := overtime.PeriodKey(s.now().In(s.loc))
	if period != nil && *period != "" {
		if _, err := overtime.PeriodStart(*period, s.loc); err != nil {
			return overtime.BalanceResponse{}, validator.ValidationErrors{{Field: "period", Message: err.Error()}}
		}
		key = *period
	}

	balance, err := s.balances.GetOrCreate(ctx, p.TenantID, userID, key, s.multiplier)
	if err != nil {
		return overtime.BalanceResponse{}, fmt.Errorf("failed to get overtime balance: %w", err)
	}
	return overtime.NewBalanceResponse(balance), nil
}

// GetDefaultRule implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) GetDefaultRule(ctx context.Context) (overtime.RuleResponse, error) {
	p, err := user.FromContext(ctx)
	if err != nil {
		return overtime.RuleResponse{}, err
	}

	rule, err := s.rules.GetDefault(ctx, p.TenantID)
	if err != nil {
		return overtime.RuleResponse{}, err
	}
	return overtime.NewRuleResponse(rule), nil
}

// ReplaceDefaultRule implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) ReplaceDefaultRule(ctx context.Context, req overtime.RuleRequest) (overtime.RuleResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.RuleResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return overtime.RuleResponse{}, err
	}
	if !p.Can(user.PermissionOvertimeManageRules) {
		return overtime.RuleResponse{}, user.ErrInsufficientPermissions
	}

	rule, err := s.rules.ReplaceDefault(ctx, overtime.Rule{
		TenantID:             p.TenantID,
		Name:                 req.Name,
		DailyThresholdHours:  req.DailyThresholdHours,
		WeeklyThresholdHours: req.WeeklyThresholdHours,
		IsDefault:            true,
	})
	if err != nil {
		return overtime.RuleResponse{}, fmt.Errorf("failed to replace overtime rule: %w", err)
	}

	slog.InfoContext(ctx, "overtime rule replaced",
		"tenant_id", p.TenantID,
		"daily_threshold_hours", rule.DailyThresholdHours.String(),
		"weekly_threshold_hours", rule.WeeklyThresholdHours.String(),
	)
	return overtime.NewRuleResponse(rule), nil
}

// CreateRequest implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) CreateRequest(ctx context.Context, req overtime.CreateOvertimeRequestRequest) (overtime.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.RequestResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return overtime.RequestResponse{}, err
	}
	if !p.Can(user.PermissionOvertimeRequest) {
		return overtime.RequestResponse{}, user.ErrInsufficientPermissions
	}

	created, err := s.requests.Create(ctx, overtime.Request{
		TenantID:       p.TenantID,
		UserID:         p.UserID,
		StartDate:      req.Start,
		EndDate:        req.End,
		EstimatedHours: req.EstimatedHours,
		Reason:         req.Reason,
		Status:         approval.StatusPending,
	})
	if err != nil {
		return overtime.RequestResponse{}, fmt.Errorf("failed to create overtime request: %w", err)
	}
	return overtime.NewRequestResponse(created), nil
}

// ListRequests implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) ListRequests(ctx context.Context, filter overtime.RequestFilter) (overtime.ListRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return overtime.ListRequestResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return overtime.ListRequestResponse{}, err
	}

	switch {
	case filter.UserID == nil && !p.Can(user.PermissionOvertimeApprove):
		filter.UserID = &p.UserID
	case filter.UserID != nil && !p.CanAccessSubject(*filter.UserID, user.PermissionOvertimeApprove):
		return overtime.ListRequestResponse{}, overtime.ErrForbidden
	}

	requests, total, err := s.requests.List(ctx, p.TenantID, filter)
	if err != nil {
		return overtime.ListRequestResponse{}, fmt.Errorf("failed to list overtime requests: %w", err)
	}

	responses := make([]overtime.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, overtime.NewRequestResponse(r))
	}

	return overtime.ListRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Requests:   responses,
	}, nil
}

// DecideRequest implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) DecideRequest(ctx context.Context, req overtime.DecideOvertimeRequestRequest) (overtime.ApprovalResult, error) {
	if err := req.Validate(); err != nil {
		return overtime.ApprovalResult{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return overtime.ApprovalResult{}, err
	}
	if !p.Can(user.PermissionOvertimeApprove) {
		return overtime.ApprovalResult{}, user.ErrInsufficientPermissions
	}

	decision, _ := approval.ParseDecision(req.Decision)
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	request, err := s.requests.GetByID(ctx, p.TenantID, req.ID)
	if err != nil {
		return overtime.ApprovalResult{}, err
	}

	t, err := approval.OvertimeRequest.Decide(request.Status, decision, reason)
	if err != nil {
		return overtime.ApprovalResult{}, err
	}

	now := s.now()
	request.Status = t.To
	request.ApprovedBy = &p.UserID
	request.DecidedAt = &now
	if t.To == approval.StatusDenied {
		request.DenialReason = &t.Reason
	}

	if err := s.requests.UpdateStatus(ctx, request, t.From); err != nil {
		return overtime.ApprovalResult{}, fmt.Errorf("failed to update overtime request status: %w", err)
	}
	request.UpdatedAt = now

	changes := audit.Changes{
		TenantID:   p.TenantID,
		EntityType: audit.EntityOvertimeRequest,
		EntityID:   request.ID,
		ChangedBy:  p.UserID,
		Reason:     t.Reason,
	}
	changes.Set("status", string(t.From), string(t.To))

	report := postcommit.Run(ctx, postcommit.Step{
		Name: "audit",
		Run: func(ctx context.Context) error {
			return s.audits.Append(ctx, changes.Records()...)
		},
	})

	return overtime.ApprovalResult{
		Record:      overtime.NewRequestResponse(request),
		SideEffects: report,
	}, nil
}
