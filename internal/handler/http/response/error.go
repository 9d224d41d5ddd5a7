package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/summary"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, "Validation failed", validationErrs.ToMap())
		return
	}

	var complianceErr *leave.ComplianceError
	if errors.As(err, &complianceErr) {
		ValidationError(w, complianceErr.Error(), map[string]string{"code": complianceErr.Code})
		return
	}

	var dependencyErr *leave.DependencyError
	if errors.As(err, &dependencyErr) {
		if dependencyErr.ClientFault {
			DependencyUnavailable(w, http.StatusBadRequest, dependencyErr.Error())
			return
		}
		slog.Error("store procedure failed", "procedure", dependencyErr.Procedure, "error", dependencyErr.Err)
		DependencyUnavailable(w, http.StatusInternalServerError, "Leave policy check is unavailable")
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, user.ErrUnauthenticated), errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, "Company membership required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Approval workflow errors
	case errors.Is(err, approval.ErrInvalidDecision), errors.Is(err, approval.ErrReasonRequired):
		ValidationError(w, err.Error(), nil)
	case errors.Is(err, approval.ErrAlreadyCancelled):
		Conflict(w, err.Error())
	case errors.Is(err, approval.ErrInvalidTransition), errors.Is(err, approval.ErrStatusChanged):
		PreconditionFailed(w, err.Error())

	// Time entry errors
	case errors.Is(err, timeentry.ErrTimeEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timeentry.ErrAlreadyClockedIn), errors.Is(err, timeentry.ErrOverlap):
		Conflict(w, err.Error())
	case errors.Is(err, timeentry.ErrNoActiveEntry), errors.Is(err, timeentry.ErrEntryRejected):
		PreconditionFailed(w, err.Error())
	case errors.Is(err, timeentry.ErrInvalidRange):
		ValidationError(w, err.Error(), nil)
	case errors.Is(err, timeentry.ErrForbidden), errors.Is(err, timeentry.ErrEditPastForbidden):
		Forbidden(w, err.Error())

	// Leave errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeInactive), errors.Is(err, leave.ErrNoWorkingDays), errors.Is(err, leave.ErrZeroAdjustment):
		ValidationError(w, err.Error(), nil)
	case errors.Is(err, leave.ErrRequestNotPending):
		PreconditionFailed(w, err.Error())
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrForbidden):
		Forbidden(w, err.Error())

	// Overtime errors
	case errors.Is(err, overtime.ErrOvertimeRequestNotFound):
		NotFound(w, "Overtime request not found")
	case errors.Is(err, overtime.ErrNoOvertimeRule):
		PreconditionFailed(w, err.Error())
	case errors.Is(err, overtime.ErrInvalidPeriod):
		ValidationError(w, err.Error(), map[string]string{"period": err.Error()})
	case errors.Is(err, overtime.ErrForbidden):
		Forbidden(w, err.Error())

	// Summary errors
	case errors.Is(err, summary.ErrForbidden):
		Forbidden(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
