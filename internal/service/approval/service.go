package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/database"
)

type ApprovalServiceImpl struct {
	tx database.Transactor
	approval.LeaveRequestRepository
	resolver *CachedResolver
}

func NewApprovalService(tx database.Transactor, leaveRequestRepo approval.LeaveRequestRepository, cache *ResolutionCache) approval.ApprovalService {
	return &ApprovalServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepo,
		resolver:               NewCachedResolver(cache),
	}
}

// ResolveRequest implements approval.ApprovalService.
// Posted records carry no version, so they bypass the cache.
func (s *ApprovalServiceImpl) ResolveRequest(ctx context.Context, req approval.ResolveRequest) (approval.ResolutionResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.ResolutionResponse{}, err
	}

	lr := req.ToLeaveRequest()
	res, err := Resolve(lr)
	if err != nil {
		return approval.ResolutionResponse{}, err
	}

	return s.toResponse(lr, res), nil
}

// GetResolution implements approval.ApprovalService.
func (s *ApprovalServiceImpl) GetResolution(ctx context.Context, requestID string, ownerID string) (approval.ResolutionResponse, error) {
	lr, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return approval.ResolutionResponse{}, s.wrapLookup(err)
	}
	if ownerID != "" && lr.StudentID != ownerID {
		return approval.ResolutionResponse{}, approval.ErrLeaveRequestNotFound
	}

	res, err := s.resolver.Resolve(&lr)
	if err != nil {
		return approval.ResolutionResponse{}, err
	}

	return s.toResponse(&lr, res), nil
}

// GetStageStatus implements approval.ApprovalService.
func (s *ApprovalServiceImpl) GetStageStatus(ctx context.Context, requestID string, stage approval.StageName) (approval.StageStatusResponse, error) {
	name, ok := approval.ParseStageName(string(stage))
	if !ok {
		return approval.StageStatusResponse{}, fmt.Errorf("%w: %q", approval.ErrUnknownStage, stage)
	}

	lr, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return approval.StageStatusResponse{}, s.wrapLookup(err)
	}

	status, err := ResolveStage(&lr, name)
	if err != nil {
		return approval.StageStatusResponse{}, err
	}

	return approval.StageStatusResponse{
		RequestID: lr.ID,
		Stage:     name,
		Status:    status,
	}, nil
}

// ListStudentRequests implements approval.ApprovalService.
// The overall status is derived, so filtering on it and paging happen after
// resolution.
func (s *ApprovalServiceImpl) ListStudentRequests(ctx context.Context, studentID string, filter approval.LeaveRequestFilter) (approval.ListResolutionResponse, error) {
	if err := filter.Validate(); err != nil {
		return approval.ListResolutionResponse{}, err
	}

	var requestType *approval.RequestType
	if filter.RequestType != nil {
		t := approval.RequestType(*filter.RequestType)
		requestType = &t
	}

	requests, err := s.LeaveRequestRepository.ListByStudentID(ctx, studentID, requestType)
	if err != nil {
		return approval.ListResolutionResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	matched := make([]approval.ResolutionResponse, 0, len(requests))
	for i := range requests {
		res, err := s.resolver.Resolve(&requests[i])
		if err != nil {
			return approval.ListResolutionResponse{}, err
		}
		if filter.OverallStatus != nil && string(res.OverallStatus) != *filter.OverallStatus {
			continue
		}
		matched = append(matched, s.toResponse(&requests[i], res))
	}

	total := int64(len(matched))
	totalPages := (len(matched) + filter.Limit - 1) / filter.Limit
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return approval.ListResolutionResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Requests:   matched[start:end],
	}, nil
}

// DecideStage implements approval.ApprovalService.
func (s *ApprovalServiceImpl) DecideStage(ctx context.Context, req approval.DecideStageRequest) (approval.ResolutionResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.ResolutionResponse{}, err
	}

	stage, _ := approval.ParseStageName(string(req.Stage))
	decision := approval.ParseStageStatus(req.Decision)

	// The cache is only fed after commit; a failed commit must not leave a
	// resolution behind for a version that was never stored.
	var (
		decided    approval.LeaveRequest
		decidedRes approval.Resolution
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		lr, err := s.LeaveRequestRepository.GetByIDForUpdate(txCtx, req.RequestID)
		if err != nil {
			return s.wrapLookup(err)
		}

		if req.ExpectedVersion != nil && *req.ExpectedVersion != lr.ApprovalsVersion {
			return approval.ErrVersionConflict
		}

		if !approval.InChain(lr.RequestType, stage) {
			return fmt.Errorf("%w: %s on %s request", approval.ErrStageNotInChain, stage, lr.RequestType)
		}

		current, err := Resolve(&lr)
		if err != nil {
			return err
		}
		if current.OverallStatus != approval.OverallStatusPending {
			return approval.ErrRequestClosed
		}
		if lookupStatus(lr.Approvals, stage) != approval.StageStatusPending {
			return approval.ErrStageAlreadyDecided
		}
		if current.PendingStage == nil || *current.PendingStage != stage {
			return approval.ErrStageNotActive
		}

		approvals := make(map[string]string, len(lr.Approvals)+1)
		for k, v := range lr.Approvals {
			approvals[k] = v
		}
		approvals[string(stage)] = string(decision)

		newVersion, err := s.LeaveRequestRepository.UpdateApprovals(txCtx, lr.ID, approvals, lr.ApprovalsVersion)
		if err != nil {
			if errors.Is(err, approval.ErrVersionConflict) {
				return err
			}
			return fmt.Errorf("failed to update approvals: %w", err)
		}

		lr.Approvals = approvals
		lr.ApprovalsVersion = newVersion

		res, err := Resolve(&lr)
		if err != nil {
			return err
		}
		decided, decidedRes = lr, res
		return nil
	})
	if err != nil {
		return approval.ResolutionResponse{}, err
	}

	s.resolver.Remember(&decided, decidedRes)
	out := s.toResponse(&decided, decidedRes)

	slog.Info("Approval stage decided",
		"request_id", req.RequestID,
		"stage", string(stage),
		"decision", string(decision),
		"decided_by", req.DecidedBy,
		"overall_status", string(out.OverallStatus),
	)

	return out, nil
}

func (s *ApprovalServiceImpl) toResponse(lr *approval.LeaveRequest, res approval.Resolution) approval.ResolutionResponse {
	warnings := CheckIntegrity(lr)
	for _, w := range warnings {
		slog.Warn("Leave request integrity warning",
			"request_id", lr.ID,
			"code", w.Code,
			"stage", w.Stage,
			"message", w.Message,
		)
	}

	return approval.ResolutionResponse{
		RequestID:        lr.ID,
		StudentID:        lr.StudentID,
		RequestType:      lr.RequestType,
		ApprovalsVersion: lr.ApprovalsVersion,
		OverallStatus:    res.OverallStatus,
		PendingStage:     res.PendingStage,
		Stages:           res.Stages,
		Warnings:         warnings,
	}
}

func (s *ApprovalServiceImpl) wrapLookup(err error) error {
	if errors.Is(err, approval.ErrLeaveRequestNotFound) {
		return err
	}
	return fmt.Errorf("failed to get leave request: %w", err)
}
