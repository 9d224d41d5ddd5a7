package overtime

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

type DayHours struct {
	Day      time.Time       `json:"-"`
	Date     string          `json:"date"`
	Worked   decimal.Decimal `json:"worked_hours"`
	Regular  decimal.Decimal `json:"regular_hours"`
	Overtime decimal.Decimal `json:"overtime_hours"`
}

type Split struct {
	Regular  decimal.Decimal
	Overtime decimal.Decimal
	Days     []DayHours
}

// Partition splits approved, closed entries into regular and overtime hours. Hours above
// the daily threshold are overtime; if the period total still exceeds the weekly
// threshold, the excess moves from regular to overtime as far as regular hours allow.
// Entries are grouped by clock-in calendar day in loc. Totals are rounded to 2 places.
func Partition(entries []timeentry.TimeEntry, rule Rule, loc *time.Location) Split {
	worked := make(map[time.Time]decimal.Decimal)
	for _, e := range entries {
		if e.ApprovalStatus != approval.StatusApproved || e.ClockOut == nil {
			continue
		}
		day := timeentry.DayOf(e.ClockIn, loc)
		net := decimal.NewFromInt(int64(e.NetDuration(*e.ClockOut) / time.Second)).Div(secondsPerHour)
		worked[day] = worked[day].Add(net)
	}

	days := make([]time.Time, 0, len(worked))
	for d := range worked {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	split := Split{Regular: decimal.Zero, Overtime: decimal.Zero}
	for _, d := range days {
		h := worked[d]
		dh := DayHours{Day: d, Date: d.Format("2006-01-02"), Worked: h.Round(2), Regular: h, Overtime: decimal.Zero}
		if h.GreaterThan(rule.DailyThresholdHours) {
			dh.Regular = rule.DailyThresholdHours
			dh.Overtime = h.Sub(rule.DailyThresholdHours)
		}
		split.Regular = split.Regular.Add(dh.Regular)
		split.Overtime = split.Overtime.Add(dh.Overtime)
		dh.Regular, dh.Overtime = dh.Regular.Round(2), dh.Overtime.Round(2)
		split.Days = append(split.Days, dh)
	}

	total := split.Regular.Add(split.Overtime)
	if total.GreaterThan(rule.WeeklyThresholdHours) {
		move := decimal.Min(total.Sub(rule.WeeklyThresholdHours), split.Regular)
		split.Regular = split.Regular.Sub(move)
		split.Overtime = split.Overtime.Add(move)
	}

	split.Regular = split.Regular.Round(2)
	split.Overtime = split.Overtime.Round(2)
	return split
}
