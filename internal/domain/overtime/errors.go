package overtime

import "errors"

var (
	ErrNoOvertimeRule            = errors.New("no default overtime rule configured")
	ErrOvertimeRequestNotFound   = errors.New("overtime request not found")
	ErrInvalidPeriod             = errors.New("period must be in YYYY-Www format")
	ErrForbidden                 = errors.New("not allowed to access another user's overtime")
	ErrThresholdsOutOfOrder      = errors.New("daily threshold must not exceed weekly threshold")
	ErrThresholdMustBePositive   = errors.New("threshold must be greater than zero")
	ErrEstimatedHoursNotPositive = errors.New("estimated_hours must be greater than zero")
)
