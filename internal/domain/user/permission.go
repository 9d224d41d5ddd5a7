package user

type Permission string

const (
	// Time Tracking
	PermissionTimeViewOwn  Permission = "time.view_own"
	PermissionTimeCreate   Permission = "time.create"
	PermissionTimeViewTeam Permission = "time.view_team"
	PermissionTimeEditPast Permission = "time.edit_past"
	PermissionTimeApprove  Permission = "time.approve"

	// Leave Management
	PermissionLeaveViewOwn       Permission = "leave.view_own"
	PermissionLeaveCreate        Permission = "leave.create"
	PermissionLeaveViewAll       Permission = "leave.view_all"
	PermissionLeaveApprove       Permission = "leave.approve"
	PermissionLeaveAdjustBalance Permission = "leave.adjust_balance"

	// Overtime
	PermissionOvertimeViewOwn     Permission = "overtime.view_own"
	PermissionOvertimeRequest     Permission = "overtime.request"
	PermissionOvertimeViewAll     Permission = "overtime.view_all"
	PermissionOvertimeCalculate   Permission = "overtime.calculate"
	PermissionOvertimeApprove     Permission = "overtime.approve"
	PermissionOvertimeManageRules Permission = "overtime.manage_rules"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionTimeViewOwn,
		PermissionTimeCreate,
		PermissionTimeViewTeam,
		PermissionTimeEditPast,
		PermissionTimeApprove,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveAdjustBalance,
		PermissionOvertimeViewOwn,
		PermissionOvertimeRequest,
		PermissionOvertimeViewAll,
		PermissionOvertimeCalculate,
		PermissionOvertimeApprove,
		PermissionOvertimeManageRules,
	},
	RoleManager: {
		// Manager can approve and view team data
		PermissionTimeViewOwn,
		PermissionTimeCreate,
		PermissionTimeViewTeam,
		PermissionTimeEditPast,
		PermissionTimeApprove,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionOvertimeViewOwn,
		PermissionOvertimeRequest,
		PermissionOvertimeViewAll,
		PermissionOvertimeCalculate,
		PermissionOvertimeApprove,
	},
	RoleEmployee: {
		// Employee has basic access
		PermissionTimeViewOwn,
		PermissionTimeCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionOvertimeViewOwn,
		PermissionOvertimeRequest,
	},
	RolePending: {
		// Pending role has no permissions
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
