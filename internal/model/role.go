package model

// Role is a named bundle of permissions assigned to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Permission is a named capability required to invoke certain operations.
type Permission string

const (
	PermissionGetTasks    Permission = "getTasks"
	PermissionManageTasks Permission = "manageTasks"
)

// rolePermissions is the static role table. It is initialized once and never
// mutated; lookups go through Role.HasPermission.
var rolePermissions = map[Role][]Permission{
	RoleUser:  {},
	RoleAdmin: {PermissionGetTasks, PermissionManageTasks},
}

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// HasPermission reports whether the role holds the given permission.
func (r Role) HasPermission(p Permission) bool {
	for _, held := range rolePermissions[r] {
		if held == p {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the permission set held by the role.
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
