package overtime

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/postcommit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ========================================
// CALCULATION DTOs
// ========================================

type CalculateRequest struct {
	// UserID defaults to the caller.
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, exclusive

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID != "" && !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && !end.After(start) {
		errs.Add("end_date", "end_date must be after start_date")
	}

	if err := errs.Err(); err != nil {
		return err
	}
	r.Start, r.End = start, end
	return nil
}

type CalculationResponse struct {
	UserID        string          `json:"user_id"`
	Period        string          `json:"period"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Days          []DayHours      `json:"days"`
	Rule          RuleResponse    `json:"rule"`
	Balance       BalanceResponse `json:"balance"`
}

type BalanceResponse struct {
	UserID         string          `json:"user_id"`
	Period         string          `json:"period"`
	RegularHours   decimal.Decimal `json:"regular_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	CarryOverHours decimal.Decimal `json:"carry_over_hours"`
	UpdatedAt      string          `json:"updated_at"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		UserID:         b.UserID,
		Period:         b.Period,
		RegularHours:   b.RegularHours,
		OvertimeHours:  b.OvertimeHours,
		Multiplier:     b.Multiplier,
		CarryOverHours: b.CarryOverHours,
		UpdatedAt:      b.UpdatedAt.Format(time.RFC3339),
	}
}

// ========================================
// RULE DTOs
// ========================================

type RuleRequest struct {
	Name                 string          `json:"name"`
	DailyThresholdHours  decimal.Decimal `json:"daily_threshold_hours"`
	WeeklyThresholdHours decimal.Decimal `json:"weekly_threshold_hours"`
}

func (r *RuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		r.Name = "Default"
	}
	if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if !r.DailyThresholdHours.IsPositive() {
		errs.Add("daily_threshold_hours", ErrThresholdMustBePositive.Error())
	}
	if !r.WeeklyThresholdHours.IsPositive() {
		errs.Add("weekly_threshold_hours", ErrThresholdMustBePositive.Error())
	}
	if r.DailyThresholdHours.GreaterThan(r.WeeklyThresholdHours) {
		errs.Add("daily_threshold_hours", ErrThresholdsOutOfOrder.Error())
	}

	return errs.Err()
}

type RuleResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	DailyThresholdHours  decimal.Decimal `json:"daily_threshold_hours"`
	WeeklyThresholdHours decimal.Decimal `json:"weekly_threshold_hours"`
	IsDefault            bool            `json:"is_default"`
	UpdatedAt            string          `json:"updated_at"`
}

func NewRuleResponse(r Rule) RuleResponse {
	return RuleResponse{
		ID:                   r.ID,
		Name:                 r.Name,
		DailyThresholdHours:  r.DailyThresholdHours,
		WeeklyThresholdHours: r.WeeklyThresholdHours,
		IsDefault:            r.IsDefault,
		UpdatedAt:            r.UpdatedAt.Format(time.RFC3339),
	}
}

// ========================================
// REQUEST DTOs
// ========================================

type CreateOvertimeRequestRequest struct {
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
	Reason         string          `json:"reason"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateOvertimeRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	if !r.EstimatedHours.IsPositive() {
		errs.Add("estimated_hours", ErrEstimatedHoursNotPositive.Error())
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}

	if err := errs.Err(); err != nil {
		return err
	}
	r.Start, r.End = start, end
	return nil
}

type DecideOvertimeRequestRequest struct {
	ID       string  `json:"-"`
	Decision string  `json:"decision"`
	Reason   *string `json:"reason,omitempty"`
}

func (r *DecideOvertimeRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if _, err := approval.ParseDecision(r.Decision); err != nil {
		errs.Add("decision", err.Error())
	}

	return errs.Err()
}

type RequestFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Status *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *RequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}
	if f.Status != nil {
		validStatuses := []string{"pending", "approved", "denied"}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs.Add("status", "status must be one of: "+strings.Join(validStatuses, ", "))
		}
	}

	return errs.Err()
}

type RequestResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
	Reason         string          `json:"reason"`
	Status         approval.Status `json:"status"`
	ApprovedBy     *string         `json:"approved_by,omitempty"`
	DecidedAt      *string         `json:"decided_at,omitempty"`
	DenialReason   *string         `json:"denial_reason,omitempty"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

func NewRequestResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		StartDate:      r.StartDate.Format(dateLayout),
		EndDate:        r.EndDate.Format(dateLayout),
		EstimatedHours: r.EstimatedHours,
		Reason:         r.Reason,
		Status:         r.Status,
		ApprovedBy:     r.ApprovedBy,
		DenialReason:   r.DenialReason,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		s := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	return resp
}

type ListRequestResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Requests   []RequestResponse `json:"requests"`
}

// ApprovalResult is the committed request plus any post-commit failures.
type ApprovalResult struct {
	Record      RequestResponse   `json:"record"`
	SideEffects postcommit.Report `json:"side_effects"`
}
