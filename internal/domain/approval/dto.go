package approval

import (
	"strings"

	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/validator"
)

// ========================================
// RESOLUTION DTOs
// ========================================

// ResolveRequest is the wire shape of a request record posted for
// stateless resolution.
type ResolveRequest struct {
	RequestID   string    `json:"requestId"`
	RequestType string    `json:"requestType"`
	Approvals   Approvals `json:"approvals"`
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "requestId",
			Message: "requestId is required",
		})
	}

	if validator.IsEmpty(r.RequestType) {
		errs = append(errs, validator.ValidationError{
			Field:   "requestType",
			Message: "requestType is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToLeaveRequest converts the wire shape into the entity the resolver reads.
func (r *ResolveRequest) ToLeaveRequest() *LeaveRequest {
	return &LeaveRequest{
		ID:          r.RequestID,
		RequestType: RequestType(strings.ToLower(strings.TrimSpace(r.RequestType))),
		Approvals:   r.Approvals,
	}
}

type ResolutionResponse struct {
	RequestID        string             `json:"requestId"`
	StudentID        string             `json:"studentId,omitempty"`
	RequestType      RequestType        `json:"requestType"`
	ApprovalsVersion int64              `json:"approvalsVersion"`
	OverallStatus    OverallStatus      `json:"overallStatus"`
	PendingStage     *StageName         `json:"pendingStage"`
	Stages           []ApprovalStage    `json:"stages"`
	Warnings         []IntegrityWarning `json:"warnings,omitempty"`
}

type StageStatusResponse struct {
	RequestID string      `json:"requestId"`
	Stage     StageName   `json:"stage"`
	Status    StageStatus `json:"status"`
}

// ========================================
// LISTING DTOs
// ========================================

type LeaveRequestFilter struct {
	OverallStatus *string `json:"overallStatus,omitempty"`
	RequestType   *string `json:"requestType,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.OverallStatus != nil {
		valid := []string{string(OverallStatusApproved), string(OverallStatusPending), string(OverallStatusRejected)}
		if !validator.IsInSlice(*f.OverallStatus, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "overallStatus",
				Message: "overallStatus must be one of: Approved, Pending, Rejected",
			})
		}
	}

	if f.RequestType != nil && !RequestType(*f.RequestType).IsKnown() {
		errs = append(errs, validator.ValidationError{
			Field:   "requestType",
			Message: "requestType is not a known request type",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListResolutionResponse struct {
	TotalCount int64                `json:"totalCount"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"totalPages"`
	Requests   []ResolutionResponse `json:"requests"`
}

// ========================================
// DECISION DTOs
// ========================================

type DecideStageRequest struct {
	RequestID string    `json:"-"`
	Stage     StageName `json:"-"`
	DecidedBy string    `json:"-"`
	Decision  string    `json:"decision"`
	// ExpectedVersion guards against deciding on a stale view. Nil skips
	// the check and uses whatever version is stored.
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

func (r *DecideStageRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "requestId",
			Message: "requestId must be a valid UUID",
		})
	}

	if _, ok := ParseStageName(string(r.Stage)); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "stage",
			Message: "stage must be one of: mentor, class-advisor, hod, placement-officer, principal",
		})
	}

	decision := StageStatus(strings.ToLower(strings.TrimSpace(r.Decision)))
	if decision != StageStatusApproved && decision != StageStatusRejected {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be one of: approved, rejected",
		})
	}

	if r.ExpectedVersion != nil && *r.ExpectedVersion < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "expectedVersion",
			Message: "expectedVersion must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
