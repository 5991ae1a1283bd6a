package user

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN" // Organization owner - full access
	RoleHRAdmin    Role = "HR_ADMIN"    // HR operations and payroll
	RoleManager    Role = "MANAGER"     // Team visibility
	RoleEmployee   Role = "EMPLOYEE"    // Self service
)

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleHRAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsAdmin reports whether the role may administer organization data.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleHRAdmin
}
