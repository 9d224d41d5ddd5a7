package timeentry

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/postcommit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// TIME ENTRY DTOs
// ========================================

type CreateManualEntryRequest struct {
	// UserID defaults to the caller.
	UserID       *string `json:"user_id,omitempty"`
	Date         string  `json:"date"`       // YYYY-MM-DD
	StartTime    string  `json:"start_time"` // HH:MM
	EndTime      string  `json:"end_time"`   // HH:MM
	BreakMinutes int     `json:"break_minutes"`
	ProjectTask  *string `json:"project_task,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *CreateManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID != nil && !validator.IsValidUUID(*r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if !validator.IsValidClockTime(r.StartTime) {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if !validator.IsValidClockTime(r.EndTime) {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}

	if r.BreakMinutes < 0 {
		errs.Add("break_minutes", "break_minutes must not be negative")
	}

	return errs.Err()
}

type UpdateEntryRequest struct {
	ID           string  `json:"-"`
	StartTime    *string `json:"start_time,omitempty"` // HH:MM
	EndTime      *string `json:"end_time,omitempty"`   // HH:MM
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	ProjectTask  *string `json:"project_task,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	ChangeReason *string `json:"change_reason,omitempty"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.StartTime != nil && !validator.IsValidClockTime(*r.StartTime) {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if r.EndTime != nil && !validator.IsValidClockTime(*r.EndTime) {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs.Add("break_minutes", "break_minutes must not be negative")
	}
	if r.StartTime == nil && r.EndTime == nil && r.BreakMinutes == nil && r.ProjectTask == nil && r.Notes == nil {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

type ApproveEntryRequest struct {
	ID       string  `json:"-"`
	Decision string  `json:"decision"`
	Reason   *string `json:"reason,omitempty"`
}

func (r *ApproveEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if _, err := approval.ParseDecision(r.Decision); err != nil {
		errs.Add("decision", err.Error())
	}

	return errs.Err()
}

type DeleteEntryRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

type ListFilter struct {
	UserID      *string `json:"user_id,omitempty"`
	StartDate   *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status      *string `json:"status,omitempty"`
	EntryType   *string `json:"entry_type,omitempty"`
	ProjectTask *string `json:"project_task,omitempty"`

	// Pagination
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Resolved by the service from StartDate/EndDate in the store timezone.
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.PageSize < 0 {
		errs.Add("page_size", "page_size must be a positive number")
	}
	if f.PageSize == 0 {
		f.PageSize = 20 // Default page size
	}
	if f.PageSize > 100 {
		errs.Add("page_size", "page_size must not exceed 100")
	}

	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	if f.Status != nil {
		validStatuses := []string{"pending", "approved", "rejected"}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs.Add("status", "status must be one of: "+strings.Join(validStatuses, ", "))
		}
	}

	if f.EntryType != nil {
		validTypes := []string{string(EntryTypeClock), string(EntryTypeManual)}
		if !validator.IsInSlice(*f.EntryType, validTypes) {
			errs.Add("entry_type", "entry_type must be one of: "+strings.Join(validTypes, ", "))
		}
	}

	var start, end time.Time
	if f.StartDate != nil {
		var ok bool
		if start, ok = validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil {
		var ok bool
		if end, ok = validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

type TimeEntryResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ClockIn        string          `json:"clock_in"`
	ClockOut       *string         `json:"clock_out"`
	BreakMinutes   int             `json:"break_minutes"`
	NetHours       decimal.Decimal `json:"net_hours"`
	ProjectTask    *string         `json:"project_task,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	EntryType      EntryType       `json:"entry_type"`
	ApprovalStatus approval.Status `json:"approval_status"`
	ApprovedBy     *string         `json:"approved_by,omitempty"`
	ApprovedAt     *string         `json:"approved_at,omitempty"`
	EditedBy       *string         `json:"edited_by,omitempty"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// NewTimeEntryResponse renders e with times in loc. Net hours of an open entry are counted
// up to now.
func NewTimeEntryResponse(e TimeEntry, loc *time.Location, now time.Time) TimeEntryResponse {
	return TimeEntryResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		ClockIn:        e.ClockIn.In(loc).Format(time.RFC3339),
		ClockOut:       formatTimePtr(e.ClockOut, loc),
		BreakMinutes:   e.BreakMinutes,
		NetHours:       e.NetHours(now),
		ProjectTask:    e.ProjectTask,
		Notes:          e.Notes,
		EntryType:      e.EntryType,
		ApprovalStatus: e.ApprovalStatus,
		ApprovedBy:     e.ApprovedBy,
		ApprovedAt:     formatTimePtr(e.ApprovedAt, loc),
		EditedBy:       e.EditedBy,
		CreatedAt:      e.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.In(loc).Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

type ListTimeEntryResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Entries    []TimeEntryResponse `json:"entries"`
}

// ApprovalResult is the committed record plus any post-commit failures.
type ApprovalResult struct {
	Record      TimeEntryResponse `json:"record"`
	SideEffects postcommit.Report `json:"side_effects"`
}
