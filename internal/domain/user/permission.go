package user

type Permission string

const (
	// Request resolution
	PermissionRequestResolve Permission = "request.resolve"
	PermissionRequestViewOwn Permission = "request.view_own"
	PermissionRequestViewAll Permission = "request.view_all"
	PermissionRequestDecide  Permission = "request.decide"

	// Attendance statistics
	PermissionAttendanceClassify Permission = "attendance.classify"
	PermissionAttendanceViewOwn  Permission = "attendance.view_own"
)

var approverPermissions = []Permission{
	PermissionRequestResolve,
	PermissionRequestViewOwn,
	PermissionRequestViewAll,
	PermissionRequestDecide,
	PermissionAttendanceClassify,
	PermissionAttendanceViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleStudent: {
		PermissionRequestViewOwn,
		PermissionAttendanceViewOwn,
	},
	RoleMentor:           approverPermissions,
	RoleClassAdvisor:     approverPermissions,
	RoleHOD:              approverPermissions,
	RolePlacementOfficer: approverPermissions,
	RolePrincipal:        approverPermissions,
	RoleAdmin: {
		// Admin reads everything but owns no stage
		PermissionRequestResolve,
		PermissionRequestViewOwn,
		PermissionRequestViewAll,
		PermissionAttendanceClassify,
		PermissionAttendanceViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
