package approval

import (
	"context"
)

type ApprovalService interface {
	// ResolveRequest resolves a posted request record without touching storage
	ResolveRequest(ctx context.Context, req ResolveRequest) (ResolutionResponse, error)

	// GetResolution loads a stored request and resolves its full chain.
	// A non-empty ownerID hides requests of any other student as not found.
	GetResolution(ctx context.Context, requestID string, ownerID string) (ResolutionResponse, error)

	// GetStageStatus returns the status of exactly one stage
	GetStageStatus(ctx context.Context, requestID string, stage StageName) (StageStatusResponse, error)

	ListStudentRequests(ctx context.Context, studentID string, filter LeaveRequestFilter) (ListResolutionResponse, error)

	// DecideStage records an approver decision on the current pending stage
	DecideStage(ctx context.Context, req DecideStageRequest) (ResolutionResponse, error)
}
