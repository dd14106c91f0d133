package approval

import "errors"

var (
	ErrNilRequest           = errors.New("leave request is required")
	ErrUnknownStage         = errors.New("unknown approval stage")
	ErrStageNotInChain      = errors.New("approval stage does not apply to this request type")
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrStageAlreadyDecided  = errors.New("approval stage already decided")
	ErrStageNotActive       = errors.New("approval stage is not the current pending stage")
	ErrRequestClosed        = errors.New("leave request is already approved or rejected")
	ErrVersionConflict      = errors.New("leave request was modified concurrently")
)
