package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or missing access token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrStageRoleRequired       = errors.New("caller's role does not decide this approval stage")
	ErrStudentAccessDenied     = errors.New("access to another student's data is not allowed")
)
