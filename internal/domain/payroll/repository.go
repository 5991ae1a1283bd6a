package payroll

import "context"

// All repository methods are scoped by organizationID so one tenant can never read another's rows.

type StructureRepository interface {
	Create(ctx context.Context, s Structure) (Structure, error)
	GetByID(ctx context.Context, id string, organizationID string) (Structure, error)
	List(ctx context.Context, organizationID string) ([]Structure, error)
	Update(ctx context.Context, s Structure) (Structure, error)
	Delete(ctx context.Context, id string, organizationID string) error
	CountAssignments(ctx context.Context, id string, organizationID string) (int, error)
}

type AssignmentRepository interface {
	// Upsert inserts or replaces the single assignment keyed by (organization, employee).
	Upsert(ctx context.Context, a Assignment) (Assignment, error)
	GetByEmployee(ctx context.Context, employeeID string, organizationID string) (Assignment, error)
	// ListWithStructures returns every assignment of the organization with its structure joined, ordered by employee code.
	ListWithStructures(ctx context.Context, organizationID string) ([]Assignment, error)
}

type RecordRepository interface {
	// UpsertDraft inserts or replaces the record keyed by (organization, employee, month, year) in a single
	// statement. Existing records that are no longer DRAFT are left untouched and written is false.
	UpsertDraft(ctx context.Context, r SalaryRecord) (saved SalaryRecord, written bool, err error)
	// ApproveDrafts moves DRAFT records of the period to APPROVED and returns how many moved.
	ApproveDrafts(ctx context.Context, organizationID string, period Period) (int64, error)
	GetByID(ctx context.Context, id string, organizationID string) (SalaryRecord, error)
	List(ctx context.Context, organizationID string, filter RecordFilter) ([]SalaryRecord, int64, error)
	Summary(ctx context.Context, organizationID string, period Period) (Summary, error)
	ListByEmployee(ctx context.Context, employeeID string, organizationID string, year *int) ([]SalaryRecord, error)
}

// EmployeeDirectory is the slice of the employee store payroll needs.
type EmployeeDirectory interface {
	ExistsInOrganization(ctx context.Context, employeeID string, organizationID string) (bool, error)
	// FindIDByUserID returns "" when the user has no employee record.
	FindIDByUserID(ctx context.Context, userID string, organizationID string) (string, error)
}
