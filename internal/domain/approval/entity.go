package approval

import (
	"encoding/json"
	"strings"
	"time"
)

// RequestType is the kind of request a student or staff member submits.
type RequestType string

const (
	RequestTypeLeave      RequestType = "leave"
	RequestTypeOnDuty     RequestType = "on-duty"
	RequestTypePermission RequestType = "permission"
	RequestTypeInternship RequestType = "internship"
	RequestTypeSick       RequestType = "sick"
	RequestTypeSymposium  RequestType = "symposium"
	RequestTypeConference RequestType = "conference"
	RequestTypeCultural   RequestType = "cultural"
	RequestTypeSports     RequestType = "sports"
	RequestTypeTraining   RequestType = "training"
	RequestTypeOther      RequestType = "other"
)

var knownRequestTypes = map[RequestType]struct{}{
	RequestTypeLeave:      {},
	RequestTypeOnDuty:     {},
	RequestTypePermission: {},
	RequestTypeInternship: {},
	RequestTypeSick:       {},
	RequestTypeSymposium:  {},
	RequestTypeConference: {},
	RequestTypeCultural:   {},
	RequestTypeSports:     {},
	RequestTypeTraining:   {},
	RequestTypeOther:      {},
}

// IsKnown reports whether t is one of the declared request types.
func (t RequestType) IsKnown() bool {
	_, ok := knownRequestTypes[t]
	return ok
}

// StageStatus is the decision recorded by a single approver.
type StageStatus string

const (
	StageStatusPending  StageStatus = "pending"
	StageStatusApproved StageStatus = "approved"
	StageStatusRejected StageStatus = "rejected"
)

// ParseStageStatus maps a stored status string onto a StageStatus.
// Anything that is not approved or rejected is pending.
func ParseStageStatus(raw string) StageStatus {
	switch StageStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StageStatusApproved:
		return StageStatusApproved
	case StageStatusRejected:
		return StageStatusRejected
	default:
		return StageStatusPending
	}
}

// IsKnownStageStatus reports whether raw is exactly one of the three statuses.
func IsKnownStageStatus(raw string) bool {
	switch StageStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StageStatusPending, StageStatusApproved, StageStatusRejected:
		return true
	}
	return false
}

// OverallStatus is the single verdict derived from every stage in a chain.
type OverallStatus string

const (
	OverallStatusApproved OverallStatus = "Approved"
	OverallStatusPending  OverallStatus = "Pending"
	OverallStatusRejected OverallStatus = "Rejected"
)

// StageName identifies an approver role. The value is also the key used in
// LeaveRequest.Approvals.
type StageName string

const (
	StageMentor           StageName = "Mentor"
	StageClassAdvisor     StageName = "Class Advisor"
	StageHOD              StageName = "HOD"
	StagePlacementOfficer StageName = "Placement Officer"
	StagePrincipal        StageName = "Principal"
)

var stageSlugs = map[string]StageName{
	"mentor":            StageMentor,
	"class-advisor":     StageClassAdvisor,
	"hod":               StageHOD,
	"placement-officer": StagePlacementOfficer,
	"principal":         StagePrincipal,
}

// ParseStageName accepts either the display name ("Class Advisor") or the
// URL slug ("class-advisor").
func ParseStageName(s string) (StageName, bool) {
	trimmed := strings.TrimSpace(s)
	for _, name := range []StageName{StageMentor, StageClassAdvisor, StageHOD, StagePlacementOfficer, StagePrincipal} {
		if strings.EqualFold(trimmed, string(name)) {
			return name, true
		}
	}
	name, ok := stageSlugs[strings.ToLower(trimmed)]
	return name, ok
}

// Slug returns the URL form of the stage name.
func (n StageName) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(n)), " ", "-")
}

// Approvals maps stage name to raw stage status.
type Approvals map[string]string

// UnmarshalJSON accepts any JSON value per stage. A non-string value is kept
// as its JSON text, which never parses as a known status and so reads as
// pending.
func (a *Approvals) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*a = nil
		return nil
	}

	out := make(Approvals, len(raw))
	for key, value := range raw {
		var status string
		if err := json.Unmarshal(value, &status); err != nil {
			status = string(value)
		}
		out[key] = status
	}
	*a = out
	return nil
}

// LeaveRequest is a request record as stored by the submission subsystem.
// The resolver only reads RequestType and Approvals.
type LeaveRequest struct {
	ID           string
	StudentID    string
	RequestType  RequestType
	DatesApplied time.Time
	StartDate    time.Time
	EndDate      time.Time
	Reason       string

	Approvals        Approvals
	ApprovalsVersion int64 // incremented on every recorded decision

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApprovalStage is one evaluated step of a chain. Built fresh on every
// resolution and never mutated afterwards.
type ApprovalStage struct {
	Name   StageName   `json:"name"`
	Order  int         `json:"order"`
	Status StageStatus `json:"status"`
}

// Resolution is the derived view of a request's approval chain.
type Resolution struct {
	OverallStatus OverallStatus   `json:"overallStatus"`
	PendingStage  *StageName      `json:"pendingStage"`
	Stages        []ApprovalStage `json:"stages"`
}

// Clone returns a deep copy so cached resolutions are never shared.
func (r Resolution) Clone() Resolution {
	out := Resolution{OverallStatus: r.OverallStatus}
	if r.PendingStage != nil {
		stage := *r.PendingStage
		out.PendingStage = &stage
	}
	if r.Stages != nil {
		out.Stages = make([]ApprovalStage, len(r.Stages))
		copy(out.Stages, r.Stages)
	}
	return out
}

// IntegrityWarning describes input the resolver ignored or defaulted.
type IntegrityWarning struct {
	Code    string `json:"code"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

const (
	WarningStrayPlacementOfficer = "STRAY_PLACEMENT_OFFICER"
	WarningUnknownStatus         = "UNKNOWN_STATUS"
	WarningUnknownStage          = "UNKNOWN_STAGE"
	WarningUnknownRequestType    = "UNKNOWN_REQUEST_TYPE"
)
