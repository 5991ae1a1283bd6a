package user

// Resource is the object half of a permission check.
type Resource string

const (
	ResourceOrganization Resource = "organization"
	ResourceDepartment   Resource = "department"
	ResourceDesignation  Resource = "designation"
	ResourceEmployee     Resource = "employee"
	ResourceAttendance   Resource = "attendance"
	ResourceLeave        Resource = "leave"
	ResourceLeaveType    Resource = "leave_type"
	ResourceHoliday      Resource = "holiday"
	ResourcePayroll      Resource = "payroll"
)

// Action is the verb half of a permission check.
type Action string

const (
	ActionRead     Action = "read"
	ActionWrite    Action = "write"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionApprove  Action = "approve"
	ActionSelf     Action = "self"
	ActionRun      Action = "run"
	ActionFinalize Action = "finalize"
)
