package rbac

import "fmt"

// Role is the closed set of user roles. Stored as text in the users table;
// anything outside this set is rejected at the boundary.
type Role string

const (
	RoleManager    Role = "manager"
	RoleEditor     Role = "editor"
	RoleTranslator Role = "translator"
	RoleAdmin      Role = "admin"
)

// Permission constants for workflow operations.
const (
	PermissionCreateProject    = "project:create"
	PermissionCreateTask       = "task:create"
	PermissionAssignEditor     = "project:assign_editor"
	PermissionAssignTranslator = "task:assign_translator"
	PermissionSubmitWork       = "submission:create"
	PermissionGradeSubmission  = "submission:grade"
	PermissionRejectSubmission = "submission:reject"
	PermissionSetDeadline      = "task:set_deadline"
)

var rolePermissions = map[Role][]string{
	RoleManager: {
		PermissionCreateProject,
		PermissionCreateTask,
		PermissionAssignEditor,
		PermissionAssignTranslator,
		PermissionSetDeadline,
	},
	RoleEditor: {
		PermissionGradeSubmission,
		PermissionRejectSubmission,
	},
	RoleTranslator: {
		PermissionSubmitWork,
		PermissionSetDeadline,
	},
	RoleAdmin: {
		PermissionCreateProject,
		PermissionCreateTask,
		PermissionAssignEditor,
		PermissionAssignTranslator,
		PermissionSubmitWork,
		PermissionGradeSubmission,
		PermissionRejectSubmission,
		PermissionSetDeadline,
	},
}

// ParseRole maps a stored string to a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleManager, RoleEditor, RoleTranslator, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	return string(r)
}

// HasPermission checks whether a role grants a permission.
func HasPermission(role Role, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission returns a typed error when the role lacks the permission.
func CheckPermission(role Role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError reports a failed permission check.
type PermissionDeniedError struct {
	Role       Role
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}
