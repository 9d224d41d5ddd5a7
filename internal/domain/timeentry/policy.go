package timeentry

import "time"

// ApprovalPolicy decides whether a new entry starts as pending.
type ApprovalPolicy interface {
	RequiresApproval(e TimeEntry, now time.Time) bool
}

// PastManualEntryPolicy requires approval for manual entries dated before today in
// Location. Clock entries never require approval.
type PastManualEntryPolicy struct {
	Location *time.Location
}

func (p PastManualEntryPolicy) RequiresApproval(e TimeEntry, now time.Time) bool {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	return e.IsPastManual(now, loc)
}

// ApprovalPolicyFunc adapts a function to ApprovalPolicy.
type ApprovalPolicyFunc func(e TimeEntry, now time.Time) bool

func (f ApprovalPolicyFunc) RequiresApproval(e TimeEntry, now time.Time) bool {
	return f(e, now)
}
