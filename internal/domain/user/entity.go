package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can approve leave/time/overtime
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// Principal is the authenticated caller. UserID is the subject of time entries,
// leave requests and overtime records; TenantID is the company every row is scoped to.
type Principal struct {
	UserID     string
	TenantID   string
	EmployeeID *string
	Role       Role
}

func (p Principal) Can(permission Permission) bool {
	return HasPermission(p.Role, permission)
}

// CanAccessSubject reports whether p may act on records of subjectID. Callers other than
// the subject need the given team-wide permission.
func (p Principal) CanAccessSubject(subjectID string, teamPermission Permission) bool {
	return subjectID == p.UserID || p.Can(teamPermission)
}
