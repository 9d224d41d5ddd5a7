package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/summary"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type SummaryServiceImpl struct {
	entries    timeentry.Repository
	balances   leave.LeaveBalanceRepository
	overtime   overtime.BalanceRepository
	multiplier decimal.Decimal
	loc        *time.Location
	now        func() time.Time
}

func NewSummaryService(
	entries timeentry.Repository,
	balances leave.LeaveBalanceRepository,
	overtimeBalances overtime.BalanceRepository,
	multiplier decimal.Decimal,
	loc *time.Location,
) summary.SummaryService {
	if loc == nil {
		loc = time.UTC
	}
	if !multiplier.IsPositive() {
		multiplier = overtime.DefaultMultiplier
	}
	return &SummaryServiceImpl{
		entries:    entries,
		balances:   balances,
		overtime:   overtimeBalances,
		multiplier: multiplier,
		loc:        loc,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetSummary implements summary.SummaryService. The four reads run concurrently; the
// first failure cancels the rest.
func (s *SummaryServiceImpl) GetSummary(ctx context.Context, userID string) (summary.TimeSummaryResponse, error) {
	p, err := user.FromContext(ctx)
	if err != nil {
		return summary.TimeSummaryResponse{}, err
	}
	if userID == "" {
		userID = p.UserID
	}
	if !validator.IsValidUUID(userID) {
		return summary.TimeSummaryResponse{}, validator.ValidationErrors{{Field: "user_id", Message: "user_id must be a valid UUID"}}
	}
	if !p.CanAccessSubject(userID, user.PermissionTimeViewTeam) {
		return summary.TimeSummaryResponse{}, summary.ErrForbidden
	}

	now := s.now()
	weekStart, weekEnd := overtime.WeekBounds(now, s.loc)
	period := overtime.PeriodKey(weekStart)
	local := now.In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	var (
		week        summary.WeekHoursResponse
		activeEntry *timeentry.TimeEntryResponse
		balances    []leave.LeaveBalanceResponse
		otBalance   overtime.BalanceResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Week hours
	g.Go(func() error {
		entries, err := s.entries.ListInRange(gCtx, p.TenantID, userID, weekStart, weekEnd, approval.StatusApproved, approval.StatusPending)
		if err != nil {
			return fmt.Errorf("failed to load week entries: %w", err)
		}
		week = s.buildWeekHours(entries, weekStart, period, now)
		return nil
	})

	// 2. Active entry
	g.Go(func() error {
		open, err := s.entries.GetOpenEntry(gCtx, p.TenantID, userID)
		if errors.Is(err, timeentry.ErrTimeEntryNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load active entry: %w", err)
		}
		resp := timeentry.NewTimeEntryResponse(open, s.loc, now)
		activeEntry = &resp
		return nil
	})

	// 3. Leave balances
	g.Go(func() error {
		rows, err := s.balances.ListActive(gCtx, p.TenantID, userID, today)
		if err != nil {
			return fmt.Errorf("failed to load leave balances: %w", err)
		}
		balances = make([]leave.LeaveBalanceResponse, 0, len(rows))
		for _, b := range rows {
			balances = append(balances, leave.NewLeaveBalanceResponse(b))
		}
		return nil
	})

	// 4. Overtime balance
	g.Go(func() error {
		b, err := s.overtime.GetOrCreate(gCtx, p.TenantID, userID, period, s.multiplier)
		if err != nil {
			return fmt.Errorf("failed to load overtime balance: %w", err)
		}
		otBalance = overtime.NewBalanceResponse(b)
		return nil
	})

	if err := g.Wait(); err != nil {
		return summary.TimeSummaryResponse{}, err
	}

	return summary.TimeSummaryResponse{
		UserID:        userID,
		Week:          week,
		ActiveEntry:   activeEntry,
		LeaveBalances: balances,
		Overtime:      otBalance,
	}, nil
}

// buildWeekHours sums net hours per clock-in day. Rounding happens on the totals so daily
// items may not add up to the last cent.
func (s *SummaryServiceImpl) buildWeekHours(entries []timeentry.TimeEntry, weekStart time.Time, period string, now time.Time) summary.WeekHoursResponse {
	var approved, pending time.Duration
	daily := make([]time.Duration, 7)

	for _, e := range entries {
		net := e.NetDuration(now)
		switch e.ApprovalStatus {
		case approval.StatusApproved:
			approved += net
		case approval.StatusPending:
			pending += net
		default:
			continue
		}

		day := timeentry.DayOf(e.ClockIn, s.loc)
		for i := range daily {
			if weekStart.AddDate(0, 0, i).Equal(day) {
				daily[i] += net
				break
			}
		}
	}

	items := make([]summary.DailyHourItem, 0, len(daily))
	for i, d := range daily {
		day := weekStart.AddDate(0, 0, i)
		items = append(items, summary.DailyHourItem{
			Date:    day.Format("2006-01-02"),
			DayName: day.Weekday().String(),
			Hours:   timeentry.Hours(d),
		})
	}

	return summary.WeekHoursResponse{
		Period:        period,
		StartDate:     weekStart.Format("2006-01-02"),
		EndDate:       weekStart.AddDate(0, 0, 6).Format("2006-01-02"),
		ApprovedHours: timeentry.Hours(approved),
		PendingHours:  timeentry.Hours(pending),
		TotalHours:    timeentry.Hours(approved + pending),
		Daily:         items,
	}
}
