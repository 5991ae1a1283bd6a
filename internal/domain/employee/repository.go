package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string, organizationID string) (Employee, error)
	List(ctx context.Context, organizationID string, filter EmployeeFilter) ([]Employee, int64, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	// Resign marks the employee RESIGNED as of date. The row is kept.
	Resign(ctx context.Context, id string, organizationID string, date time.Time) error
	// LatestCode returns the code of the most recently created employee, or "" when there is none.
	LatestCode(ctx context.Context, organizationID string) (string, error)
	ExistsInOrganization(ctx context.Context, id string, organizationID string) (bool, error)
	// FindIDByUserID returns "" when no employee is linked to the user.
	FindIDByUserID(ctx context.Context, userID string, organizationID string) (string, error)
	// ReferencesExist reports whether the department and designation belong to the organization.
	ReferencesExist(ctx context.Context, organizationID, departmentID, designationID string) (departmentOK, designationOK bool, err error)
}

// LeaveAllocator seeds leave balances for a newly created employee.
type LeaveAllocator interface {
	InitializeBalances(ctx context.Context, organizationID string, employeeID string, year int) (int64, error)
}
