package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeInactive    = errors.New("leave type is not active")
	ErrNoWorkingDays        = errors.New("requested range contains no working days")
	ErrRequestNotPending    = errors.New("only pending leave requests can be edited")
	ErrForbidden            = errors.New("not allowed to access another employee's leave")
	ErrBalanceNotFound      = errors.New("no active leave balance")
	ErrZeroAdjustment       = errors.New("adjustment must not be zero")
)
