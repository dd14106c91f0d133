package user

import "github.com/cmlabs-hris/campus-attendance-go/internal/domain/approval"

type Role string

const (
	RoleStudent          Role = "student"           // Submits requests, sees own data
	RoleMentor           Role = "mentor"            // First approver
	RoleClassAdvisor     Role = "class_advisor"     // Second approver
	RoleHOD              Role = "hod"               // Head of department
	RolePlacementOfficer Role = "placement_officer" // Internship requests only
	RolePrincipal        Role = "principal"         // Final approver
	RoleAdmin            Role = "admin"             // Reads everything, decides nothing
)

// roleStages maps each approver role onto the chain stage it decides.
var roleStages = map[Role]approval.StageName{
	RoleMentor:           approval.StageMentor,
	RoleClassAdvisor:     approval.StageClassAdvisor,
	RoleHOD:              approval.StageHOD,
	RolePlacementOfficer: approval.StagePlacementOfficer,
	RolePrincipal:        approval.StagePrincipal,
}

// Principal is the authenticated caller as read from the access token.
type Principal struct {
	UserID    string
	StudentID *string
	Role      Role
}

// IsValid checks the role is one the system issues tokens for
func (r Role) IsValid() bool {
	if r == RoleStudent || r == RoleAdmin {
		return true
	}
	_, ok := roleStages[r]
	return ok
}

// Stage returns the approval stage this role decides, if any.
func (r Role) Stage() (approval.StageName, bool) {
	stage, ok := roleStages[r]
	return stage, ok
}

// CanDecide checks if the role owns the given stage
func (r Role) CanDecide(stage approval.StageName) bool {
	owned, ok := r.Stage()
	return ok && owned == stage
}

// IsStaff checks if the role is anything other than a student
func (r Role) IsStaff() bool {
	return r.IsValid() && r != RoleStudent
}

// CanAccessStudent checks if the principal may read data of studentID.
// Students only see themselves; staff see everyone.
func (p Principal) CanAccessStudent(studentID string) bool {
	if p.Role.IsStaff() {
		return true
	}
	return p.Role == RoleStudent && p.StudentID != nil && *p.StudentID == studentID
}
