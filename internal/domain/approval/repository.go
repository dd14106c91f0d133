package approval

import (
	"context"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetByIDForUpdate locks the row inside the caller's transaction.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	// ListByStudentID returns every request of a student, newest first,
	// optionally narrowed to one request type.
	ListByStudentID(ctx context.Context, studentID string, requestType *RequestType) ([]LeaveRequest, error)

	// UpdateApprovals stores a new approvals map only if the stored version
	// still equals expectedVersion and returns the new version.
	// Returns ErrVersionConflict otherwise.
	UpdateApprovals(ctx context.Context, id string, approvals map[string]string, expectedVersion int64) (int64, error)
}
