package timeentry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/postcommit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type TimeEntryServiceImpl struct {
	tx      database.Transactor
	entries timeentry.Repository
	audits  audit.Repository
	policy  timeentry.ApprovalPolicy
	loc     *time.Location
	now     func() time.Time
}

func NewTimeEntryService(
	tx database.Transactor,
	entries timeentry.Repository,
	audits audit.Repository,
	policy timeentry.ApprovalPolicy,
	loc *time.Location,
) timeentry.TimeEntryService {
	if loc == nil {
		loc = time.UTC
	}
	if policy == nil {
		policy = timeentry.PastManualEntryPolicy{Location: loc}
	}
	return &TimeEntryServiceImpl{
		tx:      tx,
		entries: entries,
		audits:  audits,
		policy:  policy,
		loc:     loc,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ClockIn implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) ClockIn(ctx context.Context) (timeentry.TimeEntryResponse, error) {
	p, err := user.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	if !p.Can(user.PermissionTimeCreate) {
		return timeentry.TimeEntryResponse{}, user.ErrInsufficientPermissions
	}

	now := s.now()
	var created timeentry.TimeEntry
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.entries.GetOpenEntry(ctx, p.TenantID, p.UserID)
		if err == nil {
			return timeentry.ErrAlreadyClockedIn
		}
		if !errors.Is(err, timeentry.ErrTimeEntryNotFound) {
			return fmt.Errorf("failed to get open entry: %w", err)
		}

		entry := s.initialStatus(timeentry.TimeEntry{
			TenantID:  p.TenantID,
			UserID:    p.UserID,
			ClockIn:   now,
			EntryType: timeentry.EntryTypeClock,
		}, p.UserID, now)

		created, err = s.entries.Create(ctx, entry)
		if err != nil {
			return fmt.Errorf("failed to create time entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	slog.InfoContext(ctx, "clocked in", "entry_id", created.ID, "user_id", p.UserID, "tenant_id", p.TenantID)
	return timeentry.NewTimeEntryResponse(created, s.loc, now), nil
}

// ClockOut implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) ClockOut(ctx context.Context) (timeentry.TimeEntryResponse, error) {
	p, err := user.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	now := s.now()
	var entry timeentry.TimeEntry
	var changes audit.Changes
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err = s.entries.GetOpenEntry(ctx, p.TenantID, p.UserID)
		if err != nil {
			if errors.Is(err, timeentry.ErrTimeEntryNotFound) {
				return timeentry.ErrNoActiveEntry
			}
			return fmt.Errorf("failed to get open entry: %w", err)
		}

		changes = audit.Changes{
			TenantID:   p.TenantID,
			EntityType: audit.EntityTimeEntry,
			EntityID:   entry.ID,
			ChangedBy:  p.UserID,
		}
		changes.Field("clock_out_at", formatInstant(entry.ClockOut), formatInstant(&now))

		entry.ClockOut = &now
		entry.EditedBy = &p.UserID
		if err := s.entries.Update(ctx, entry); err != nil {
			return fmt.Errorf("failed to update time entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	s.recordAudit(ctx, changes)

	slog.InfoContext(ctx, "clocked out", "entry_id", entry.ID, "user_id", p.UserID, "tenant_id", p.TenantID)
	return timeentry.NewTimeEntryResponse(entry, s.loc, now), nil
}

// CreateManual implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) CreateManual(ctx context.Context, req timeentry.CreateManualEntryRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	if !p.Can(user.PermissionTimeCreate) {
		return timeentry.TimeEntryResponse{}, user.ErrInsufficientPermissions
	}

	subjectID := p.UserID
	if req.UserID != nil {
		subjectID = *req.UserID
	}
	if !p.CanAccessSubject(subjectID, user.PermissionTimeViewTeam) {
		return timeentry.TimeEntryResponse{}, timeentry.ErrForbidden
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}
	clockIn, _ := withClockTime(day, req.StartTime, s.loc)
	clockOut, _ := withClockTime(day, req.EndTime, s.loc)
	if !clockOut.After(clockIn) {
		return timeentry.TimeEntryResponse{}, timeentry.ErrInvalidRange
	}

	now := s.now()
	var created timeentry.TimeEntry
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkOverlap(ctx, p.TenantID, subjectID, timeentry.Interval{Start: clockIn, End: clockOut}, "", now); err != nil {
			return err
		}

		entry := s.initialStatus(timeentry.TimeEntry{
			TenantID:     p.TenantID,
			UserID:       subjectID,
			ClockIn:      clockIn.UTC(),
			ClockOut:     utcPtr(clockOut),
			BreakMinutes: req.BreakMinutes,
			ProjectTask:  req.ProjectTask,
			Notes:        req.Notes,
			EntryType:    timeentry.EntryTypeManual,
		}, p.UserID, now)
		if subjectID != p.UserID {
			entry.EditedBy = &p.UserID
		}

		created, err = s.entries.Create(ctx, entry)
		if err != nil {
			return fmt.Errorf("failed to create time entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	return timeentry.NewTimeEntryResponse(created, s.loc, now), nil
}

// Update implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) Update(ctx context.Context, req timeentry.UpdateEntryRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	now := s.now()
	var updated timeentry.TimeEntry
	var changes audit.Changes
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.entries.GetByID(ctx, p.TenantID, req.ID)
		if err != nil {
			return err
		}
		if !p.CanAccessSubject(entry.UserID, user.PermissionTimeViewTeam) {
			return timeentry.ErrForbidden
		}
		if entry.ApprovalStatus == approval.StatusRejected {
			return timeentry.ErrEntryRejected
		}
		if entry.IsPastManual(now, s.loc) && !p.Can(user.PermissionTimeEditPast) {
			return timeentry.ErrEditPastForbidden
		}

		updated = entry
		if req.StartTime != nil {
			updated.ClockIn, _ = withClockTime(entry.ClockIn, *req.StartTime, s.loc)
			updated.ClockIn = updated.ClockIn.UTC()
		}
		if req.EndTime != nil {
			// an open entry takes the clock-in date
			base := entry.ClockIn
			if entry.ClockOut != nil {
				base = *entry.ClockOut
			}
			out, _ := withClockTime(base, *req.EndTime, s.loc)
			updated.ClockOut = utcPtr(out)
		}
		if req.BreakMinutes != nil {
			updated.BreakMinutes = *req.BreakMinutes
		}
		if req.ProjectTask != nil {
			updated.ProjectTask = req.ProjectTask
		}
		if req.Notes != nil {
			updated.Notes = req.Notes
		}

		if !updated.EffectiveEnd(now).After(updated.ClockIn) {
			return timeentry.ErrInvalidRange
		}
		candidate := timeentry.Interval{Start: updated.ClockIn, End: updated.EffectiveEnd(now)}
		if err := s.checkOverlap(ctx, p.TenantID, entry.UserID, candidate, entry.ID, now); err != nil {
			return err
		}

		changes = audit.Changes{
			TenantID:   p.TenantID,
			EntityType: audit.EntityTimeEntry,
			EntityID:   entry.ID,
			ChangedBy:  p.UserID,
		}
		if req.ChangeReason != nil {
			changes.Reason = *req.ChangeReason
		}
		changes.Field("clock_in_at", formatInstant(&entry.ClockIn), formatInstant(&updated.ClockIn))
		changes.Field("clock_out_at", formatInstant(entry.ClockOut), formatInstant(updated.ClockOut))
		changes.Set("break_minutes", strconv.Itoa(entry.BreakMinutes), strconv.Itoa(updated.BreakMinutes))
		changes.Field("project_task", entry.ProjectTask, updated.ProjectTask)
		changes.Field("notes", entry.Notes, updated.Notes)
		if changes.Empty() {
			return nil
		}

		updated.EditedBy = &p.UserID
		if err := s.entries.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to update time entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	s.recordAudit(ctx, changes)

	return timeentry.NewTimeEntryResponse(updated, s.loc, now), nil
}

// Get implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) Get(ctx context.Context, id string) (timeentry.TimeEntryResponse, error) {
	entry, err := s.visibleEntry(ctx, id)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	return timeentry.NewTimeEntryResponse(entry, s.loc, s.now()), nil
}

// AuditTrail implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) AuditTrail(ctx context.Context, id string) ([]audit.Record, error) {
	entry, err := s.visibleEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	records, err := s.audits.ListByEntity(ctx, entry.TenantID, audit.EntityTimeEntry, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	return records, nil
}

// List implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) List(ctx context.Context, filter timeentry.ListFilter) (timeentry.ListTimeEntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeentry.ListTimeEntryResponse{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return timeentry.ListTimeEntryResponse{}, err
	}

	switch {
	case filter.UserID == nil && !p.Can(user.PermissionTimeViewTeam):
		filter.UserID = &p.UserID
	case filter.UserID != nil && !p.CanAccessSubject(*filter.UserID, user.PermissionTimeViewTeam):
		return timeentry.ListTimeEntryResponse{}, timeentry.ErrForbidden
	}

	if filter.StartDate != nil {
		from, _ := time.ParseInLocation("2006-01-02", *filter.StartDate, s.loc)
		filter.From = &from
	}
	if filter.EndDate != nil {
		end, _ := time.ParseInLocation("2006-01-02", *filter.EndDate, s.loc)
		to := end.AddDate(0, 0, 1)
		filter.To = &to
	}

	entries, total, err := s.entries.List(ctx, p.TenantID, filter)
	if err != nil {
		return timeentry.ListTimeEntryResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	now := s.now()
	responses := make([]timeentry.TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, timeentry.NewTimeEntryResponse(e, s.loc, now))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))

	return timeentry.ListTimeEntryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.PageSize,
		TotalPages: totalPages,
		Entries:    responses,
	}, nil
}

// Delete implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) Delete(ctx context.Context, req timeentry.DeleteEntryRequest) (timeentry.TimeEntryResponse, error) {
	if !validator.IsValidUUID(req.ID) {
		return timeentry.TimeEntryResponse{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	now := s.now()
	var entry timeentry.TimeEntry
	var changes audit.Changes
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err = s.entries.GetByID(ctx, p.TenantID, req.ID)
		if err != nil {
			return err
		}
		if !p.CanAccessSubject(entry.UserID, user.PermissionTimeViewTeam) {
			return timeentry.ErrForbidden
		}

		t, err := approval.TimeEntry.Withdraw(entry.ApprovalStatus, reason)
		if err != nil {
			return err
		}

		entry.ApprovalStatus = t.To
		entry.EditedBy = &p.UserID
		if err := s.entries.UpdateStatus(ctx, entry, t.From); err != nil {
			return fmt.Errorf("failed to withdraw time entry: %w", err)
		}

		changes = audit.Changes{
			TenantID:   p.TenantID,
			EntityType: audit.EntityTimeEntry,
			EntityID:   entry.ID,
			ChangedBy:  p.UserID,
			Reason:     t.Reason,
		}
		changes.Set("status", string(t.From), string(t.To))
		return nil
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	s.recordAudit(ctx, changes)

	return timeentry.NewTimeEntryResponse(entry, s.loc, now), nil
}

// Approve implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) Approve(ctx context.Context, req timeentry.ApproveEntryRequest) (timeentry.ApprovalResult, error) {
	if err := req.Validate(); err != nil {
		return timeentry.ApprovalResult{}, err
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return timeentry.ApprovalResult{}, err
	}
	if !p.Can(user.PermissionTimeApprove) {
		return timeentry.ApprovalResult{}, user.ErrInsufficientPermissions
	}

	decision, _ := approval.ParseDecision(req.Decision)
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	entry, err := s.entries.GetByID(ctx, p.TenantID, req.ID)
	if err != nil {
		return timeentry.ApprovalResult{}, err
	}

	t, err := approval.TimeEntry.Decide(entry.ApprovalStatus, decision, reason)
	if err != nil {
		return timeentry.ApprovalResult{}, err
	}

	now := s.now()
	entry.ApprovalStatus = t.To
	entry.ApprovedBy = &p.UserID
	entry.ApprovedAt = &now
	if err := s.entries.UpdateStatus(ctx, entry, t.From); err != nil {
		return timeentry.ApprovalResult{}, fmt.Errorf("failed to update approval status: %w", err)
	}

	changes := audit.Changes{
		TenantID:   p.TenantID,
		EntityType: audit.EntityTimeEntry,
		EntityID:   entry.ID,
		ChangedBy:  p.UserID,
		Reason:     t.Reason,
	}
	changes.Set("status", string(t.From), string(t.To))

	report := s.recordAudit(ctx, changes)

	return timeentry.ApprovalResult{
		Record:      timeentry.NewTimeEntryResponse(entry, s.loc, now),
		SideEffects: report,
	}, nil
}

func (s *TimeEntryServiceImpl) visibleEntry(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	if !validator.IsValidUUID(id) {
		return timeentry.TimeEntry{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	p, err := user.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}

	entry, err := s.entries.GetByID(ctx, p.TenantID, id)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	if !p.CanAccessSubject(entry.UserID, user.PermissionTimeViewTeam) {
		return timeentry.TimeEntry{}, timeentry.ErrForbidden
	}
	return entry, nil
}

// checkOverlap rejects candidate when it conflicts with a non-rejected entry of the subject.
func (s *TimeEntryServiceImpl) checkOverlap(ctx context.Context, tenantID, userID string, candidate timeentry.Interval, excludeID string, now time.Time) error {
	existing, err := s.entries.ListActiveForSubject(ctx, tenantID, userID)
	if err != nil {
		return fmt.Errorf("failed to list entries for overlap check: %w", err)
	}
	if conflict := timeentry.FindConflict(existing, candidate, excludeID, now); conflict != nil {
		return fmt.Errorf("conflicts with entry %s: %w", conflict.ID, timeentry.ErrOverlap)
	}
	return nil
}

// initialStatus applies the approval policy. Auto-approved entries are approved by their creator.
func (s *TimeEntryServiceImpl) initialStatus(e timeentry.TimeEntry, creatorID string, now time.Time) timeentry.TimeEntry {
	if s.policy.RequiresApproval(e, now) {
		e.ApprovalStatus = approval.StatusPending
		return e
	}
	e.ApprovalStatus = approval.StatusApproved
	e.ApprovedBy = &creatorID
	e.ApprovedAt = &now
	return e
}

// recordAudit appends changes after the mutation has committed. A failed write is logged
// and reported; the mutation stands.
func (s *TimeEntryServiceImpl) recordAudit(ctx context.Context, changes audit.Changes) postcommit.Report {
	if changes.Empty() {
		return postcommit.Report{}
	}
	return postcommit.Run(ctx, postcommit.Step{
		Name: "audit",
		Run: func(ctx context.Context) error {
			return s.audits.Append(ctx, changes.Records()...)
		},
	})
}

// withClockTime keeps the calendar date of base in loc and replaces the wall-clock time.
func withClockTime(base time.Time, hhmm string, loc *time.Location) (time.Time, bool) {
	h, m, ok := validator.ParseClockTime(hhmm)
	if !ok {
		return base, false
	}
	b := base.In(loc)
	return time.Date(b.Year(), b.Month(), b.Day(), h, m, 0, 0, loc), true
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func utcPtr(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
