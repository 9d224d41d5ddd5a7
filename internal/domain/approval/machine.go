package approval

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindTimeEntry       Kind = "time_entry"
	KindLeaveRequest    Kind = "leave_request"
	KindOvertimeRequest Kind = "overtime_request"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusDenied    Status = "denied"
	StatusCancelled Status = "cancelled"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
	DecisionReject  Decision = "reject"
)

// ParseDecision normalises client input. "deny" and "reject" are interchangeable;
// the machine maps both to its own denial status.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionApprove, DecisionDeny, DecisionReject:
		return d, nil
	default:
		return "", ErrInvalidDecision
	}
}

// Machine is the approval workflow shared by time entries, leave requests and overtime
// requests. The flags select the per-kind differences.
type Machine struct {
	Kind   Kind
	Denied Status
	// Reclassify allows approved and denied records to be decided again.
	Reclassify bool
	// Cancellable enables Cancel.
	Cancellable bool
	// Withdrawable enables Withdraw, a soft delete into the denial status.
	Withdrawable bool
}

var (
	TimeEntry = Machine{
		Kind:         KindTimeEntry,
		Denied:       StatusRejected,
		Withdrawable: true,
	}
	LeaveRequest = Machine{
		Kind:        KindLeaveRequest,
		Denied:      StatusDenied,
		Reclassify:  true,
		Cancellable: true,
	}
	OvertimeRequest = Machine{
		Kind:   KindOvertimeRequest,
		Denied: StatusDenied,
	}
)

// Transition is the outcome of a guard check. A transition whose From equals To is a
// no-op and must not be persisted.
type Transition struct {
	Kind   Kind
	From   Status
	To     Status
	Reason string
}

func (t Transition) Effective() bool {
	return t.From != t.To
}

// Decide validates an approve/deny decision against the current status. For kinds that
// reclassify, deciding into the current status is a no-op and needs no reason.
func (m Machine) Decide(current Status, decision Decision, reason string) (Transition, error) {
	var target Status
	switch decision {
	case DecisionApprove:
		target = StatusApproved
	case DecisionDeny, DecisionReject:
		target = m.Denied
	default:
		return Transition{}, ErrInvalidDecision
	}

	t := Transition{Kind: m.Kind, From: current, To: target, Reason: strings.TrimSpace(reason)}

	if m.Reclassify {
		switch current {
		case StatusCancelled:
			return Transition{}, fmt.Errorf("%s is %s: %w", m.Kind, current, ErrInvalidTransition)
		case StatusPending, StatusApproved, m.Denied:
			if current == target {
				return t, nil
			}
		default:
			return Transition{}, fmt.Errorf("%s has unknown status %q: %w", m.Kind, current, ErrInvalidTransition)
		}
	}

	if target == m.Denied && t.Reason == "" {
		return Transition{}, ErrReasonRequired
	}
	if !m.Reclassify && current != StatusPending {
		return Transition{}, fmt.Errorf("%s is %s: %w", m.Kind, current, ErrInvalidTransition)
	}
	return t, nil
}

// Cancel moves a pending or approved record to cancelled.
func (m Machine) Cancel(current Status, reason string) (Transition, error) {
	if !m.Cancellable {
		return Transition{}, fmt.Errorf("%s cannot be cancelled: %w", m.Kind, ErrInvalidTransition)
	}
	switch current {
	case StatusPending, StatusApproved:
		return Transition{Kind: m.Kind, From: current, To: StatusCancelled, Reason: strings.TrimSpace(reason)}, nil
	case StatusCancelled:
		return Transition{}, ErrAlreadyCancelled
	default:
		return Transition{}, fmt.Errorf("%s is %s: %w", m.Kind, current, ErrInvalidTransition)
	}
}

// Withdraw soft-deletes a record by moving it to the denial status.
func (m Machine) Withdraw(current Status, reason string) (Transition, error) {
	if !m.Withdrawable {
		return Transition{}, fmt.Errorf("%s cannot be withdrawn: %w", m.Kind, ErrInvalidTransition)
	}
	if current == m.Denied {
		return Transition{}, fmt.Errorf("%s is already %s: %w", m.Kind, current, ErrInvalidTransition)
	}
	if strings.TrimSpace(reason) == "" {
		reason = "deleted"
	}
	return Transition{Kind: m.Kind, From: current, To: m.Denied, Reason: strings.TrimSpace(reason)}, nil
}
