package approval

import (
	"fmt"
	"sort"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/approval"
)

// buildStages evaluates the chain for req in canonical order. Keys outside
// the chain are never read.
func buildStages(req *approval.LeaveRequest) []approval.ApprovalStage {
	chain := approval.ChainFor(req.RequestType)
	stages := make([]approval.ApprovalStage, 0, len(chain))
	for i, name := range chain {
		stages = append(stages, approval.ApprovalStage{
			Name:   name,
			Order:  i + 1,
			Status: lookupStatus(req.Approvals, name),
		})
	}
	return stages
}

// lookupStatus reads one stage key. A nil map or a missing key reads as
// pending.
func lookupStatus(approvals map[string]string, name approval.StageName) approval.StageStatus {
	raw, ok := approvals[string(name)]
	if !ok {
		return approval.StageStatusPending
	}
	return approval.ParseStageStatus(raw)
}

// Resolve computes the overall status and the current pending stage of the
// full approval chain.
func Resolve(req *approval.LeaveRequest) (approval.Resolution, error) {
	if req == nil {
		return approval.Resolution{}, approval.ErrNilRequest
	}

	stages := buildStages(req)
	res := approval.Resolution{Stages: stages}

	// Any rejection anywhere in the chain wins.
	for _, s := range stages {
		if s.Status == approval.StageStatusRejected {
			res.OverallStatus = approval.OverallStatusRejected
			return res, nil
		}
	}

	allApproved := true
	for _, s := range stages {
		if s.Status != approval.StageStatusApproved {
			allApproved = false
			break
		}
	}
	if allApproved {
		res.OverallStatus = approval.OverallStatusApproved
		return res, nil
	}

	res.OverallStatus = approval.OverallStatusPending
	for _, s := range stages {
		if s.Status == approval.StageStatusPending {
			name := s.Name
			res.PendingStage = &name
			break
		}
	}
	return res, nil
}

// ResolveStage returns the status of exactly one stage. Stages outside the
// request's chain are reported as ErrStageNotInChain without reading the
// stored key.
func ResolveStage(req *approval.LeaveRequest, stage approval.StageName) (approval.StageStatus, error) {
	if req == nil {
		return "", approval.ErrNilRequest
	}
	name, ok := approval.ParseStageName(string(stage))
	if !ok {
		return "", fmt.Errorf("%w: %q", approval.ErrUnknownStage, stage)
	}
	if !approval.InChain(req.RequestType, name) {
		return "", fmt.Errorf("%w: %s on %s request", approval.ErrStageNotInChain, name, req.RequestType)
	}
	return lookupStatus(req.Approvals, name), nil
}

// CheckIntegrity lists everything in req that Resolve ignored or defaulted.
// Warnings are sorted by stage then code so output is deterministic.
func CheckIntegrity(req *approval.LeaveRequest) []approval.IntegrityWarning {
	if req == nil {
		return nil
	}

	var warnings []approval.IntegrityWarning

	if !req.RequestType.IsKnown() {
		warnings = append(warnings, approval.IntegrityWarning{
			Code:    approval.WarningUnknownRequestType,
			Message: fmt.Sprintf("request type %q is unknown, standard chain applied", req.RequestType),
		})
	}

	for key, raw := range req.Approvals {
		name := approval.StageName(key)
		if !approval.InChain(approval.RequestTypeInternship, name) {
			warnings = append(warnings, approval.IntegrityWarning{
				Code:    approval.WarningUnknownStage,
				Stage:   key,
				Message: fmt.Sprintf("approval key %q is not a stage", key),
			})
			continue
		}
		if !approval.InChain(req.RequestType, name) {
			warnings = append(warnings, approval.IntegrityWarning{
				Code:    approval.WarningStrayPlacementOfficer,
				Stage:   key,
				Message: fmt.Sprintf("stage %q present on a %s request and ignored", key, req.RequestType),
			})
			continue
		}
		if !approval.IsKnownStageStatus(raw) {
			warnings = append(warnings, approval.IntegrityWarning{
				Code:    approval.WarningUnknownStatus,
				Stage:   key,
				Message: fmt.Sprintf("status %q read as pending", raw),
			})
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].Stage != warnings[j].Stage {
			return warnings[i].Stage < warnings[j].Stage
		}
		return warnings[i].Code < warnings[j].Code
	})
	return warnings
}
