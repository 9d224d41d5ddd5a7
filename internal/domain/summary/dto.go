package summary

import (
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/shopspring/decimal"
)

// ========== TIME SUMMARY ==========

// TimeSummaryResponse is the read-only projection for one subject.
type TimeSummaryResponse struct {
	UserID        string                       `json:"user_id"`
	Week          WeekHoursResponse            `json:"week"`
	ActiveEntry   *timeentry.TimeEntryResponse `json:"active_entry"`
	LeaveBalances []leave.LeaveBalanceResponse `json:"leave_balances"`
	Overtime      overtime.BalanceResponse     `json:"overtime"`
}

// WeekHoursResponse holds net hours of the current ISO week. An open entry counts up to now.
type WeekHoursResponse struct {
	Period        string          `json:"period"`     // YYYY-Www
	StartDate     string          `json:"start_date"` // Monday
	EndDate       string          `json:"end_date"`   // Sunday
	ApprovedHours decimal.Decimal `json:"approved_hours"`
	PendingHours  decimal.Decimal `json:"pending_hours"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	Daily         []DailyHourItem `json:"daily"`
}

// DailyHourItem represents net hours for a single day of the week
type DailyHourItem struct {
	Date    string          `json:"date"`     // Format: "2006-01-02"
	DayName string          `json:"day_name"` // "Monday", "Tuesday", etc
	Hours   decimal.Decimal `json:"hours"`
}
