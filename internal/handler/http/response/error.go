package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// User domain errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrStageRoleRequired),
		errors.Is(err, user.ErrStudentAccessDenied):
		Forbidden(w, err.Error())

	// Approval domain errors
	case errors.Is(err, approval.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, approval.ErrUnknownStage):
		NotFound(w, "Approval stage not found")
	case errors.Is(err, approval.ErrNilRequest):
		BadRequest(w, "Leave request is required", nil)
	case errors.Is(err, approval.ErrStageNotInChain):
		UnprocessableEntity(w, "STAGE_NOT_IN_CHAIN", err.Error())
	case errors.Is(err, approval.ErrStageAlreadyDecided):
		Conflict(w, "Approval stage already decided")
	case errors.Is(err, approval.ErrStageNotActive):
		Conflict(w, "Approval stage is not the current pending stage")
	case errors.Is(err, approval.ErrRequestClosed):
		Conflict(w, "Leave request is already approved or rejected")
	case errors.Is(err, approval.ErrVersionConflict):
		Conflict(w, "Leave request was modified, reload and retry")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidRange),
		errors.Is(err, attendance.ErrUnknownGranularity),
		errors.Is(err, attendance.ErrRecordsRequired),
		errors.Is(err, attendance.ErrInvalidCutoff),
		errors.Is(err, attendance.ErrStudentIDRequired):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
