package approval

import "errors"

var (
	ErrInvalidDecision   = errors.New("decision must be one of approve, deny, reject")
	ErrReasonRequired    = errors.New("reason is required when denying or rejecting")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrAlreadyCancelled  = errors.New("record is already cancelled")
	// ErrStatusChanged is returned by repositories when a conditional status update finds
	// the row no longer in the observed status.
	ErrStatusChanged = errors.New("status changed concurrently")
)
