package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type LedgerImpl struct {
	tx       database.Transactor
	balances leave.LeaveBalanceRepository
	audits   audit.Repository
	loc      *time.Location
	now      func() time.Time
}

func NewLedger(tx database.Transactor, balances leave.LeaveBalanceRepository, audits audit.Repository, loc *time.Location) leave.Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerImpl{
		tx:       tx,
		balances: balances,
		audits:   audits,
		loc:      loc,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Adjust implements leave.Ledger. Without an active balance a calendar-year row is created
// whose allocation is the adjustment itself.
func (l *LedgerImpl) Adjust(ctx context.Context, req leave.AdjustBalanceRequest) (leave.LeaveBalance, error) {
	p, err := user.FromContext(ctx)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	today := civilDate(l.now(), l.loc)
	note := ""
	if req.Note != nil {
		note = *req.Note
	}

	var balance leave.LeaveBalance
	var changes audit.Changes
	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		changes = audit.Changes{
			TenantID:   p.TenantID,
			EntityType: audit.EntityLeaveBalance,
			ChangedBy:  p.UserID,
			Reason:     note,
		}

		current, err := l.balances.GetActive(ctx, p.TenantID, req.EmployeeID, req.LeaveTypeID, today)
		switch {
		case err == nil:
			balance, err = l.balances.AddUsed(ctx, p.TenantID, req.EmployeeID, req.LeaveTypeID, today, req.DeltaDays)
			if err != nil {
				return fmt.Errorf("failed to adjust leave balance: %w", err)
			}
			changes.EntityID = balance.ID
			changes.Set("used_ytd", current.UsedYTD.String(), balance.UsedYTD.String())

		case errors.Is(err, leave.ErrBalanceNotFound):
			start, end := leave.CalendarYear(today)
			balance, err = l.balances.Create(ctx, leave.LeaveBalance{
				TenantID:    p.TenantID,
				EmployeeID:  req.EmployeeID,
				LeaveTypeID: req.LeaveTypeID,
				PeriodStart: start,
				PeriodEnd:   end,
				BalanceDays: req.DeltaDays,
				UsedYTD:     decimal.Zero,
			})
			if err != nil {
				return fmt.Errorf("failed to create leave balance: %w", err)
			}
			changes.EntityID = balance.ID
			changes.Field("balance_days", nil, stringPtr(balance.BalanceDays.String()))

		default:
			return fmt.Errorf("failed to get leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	recordAudit(ctx, l.audits, changes)

	slog.InfoContext(ctx, "leave balance adjusted",
		"balance_id", balance.ID,
		"employee_id", req.EmployeeID,
		"leave_type_id", req.LeaveTypeID,
		"delta_days", req.DeltaDays.String(),
	)
	return balance, nil
}

// PostApprovalDelta implements leave.Ledger. The delta lands on the employee's balance
// that is active today, whatever dates the request covers.
func (l *LedgerImpl) PostApprovalDelta(ctx context.Context, request leave.LeaveRequest, from, to approval.Status) (decimal.Decimal, error) {
	delta := leave.UsageDelta(from, to, request.DaysCount)
	if delta.IsZero() {
		return decimal.Zero, nil
	}

	today := civilDate(l.now(), l.loc)
	_, err := l.balances.AddUsed(ctx, request.TenantID, request.EmployeeID, request.LeaveTypeID, today, delta)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			slog.WarnContext(ctx, "no active leave balance, ledger delta skipped",
				"leave_request_id", request.ID,
				"employee_id", request.EmployeeID,
				"leave_type_id", request.LeaveTypeID,
				"delta_days", delta.String(),
			)
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to post ledger delta: %w", err)
	}

	return delta, nil
}

// civilDate is t's calendar day in loc, as a UTC midnight suitable for DATE columns.
func civilDate(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
}

func stringPtr(s string) *string {
	return &s
}
