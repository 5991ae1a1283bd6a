package payroll

import "context"

type PayrollService interface {
	// Structures
	CreateStructure(ctx context.Context, req CreateStructureRequest) (StructureResponse, error)
	GetStructure(ctx context.Context, id string) (StructureResponse, error)
	ListStructures(ctx context.Context) ([]StructureResponse, error)
	UpdateStructure(ctx context.Context, req UpdateStructureRequest) (StructureResponse, error)
	DeleteStructure(ctx context.Context, id string) error

	// Assignments
	AssignSalary(ctx context.Context, req AssignSalaryRequest) (AssignmentResponse, error)
	GetAssignment(ctx context.Context, employeeID string) (AssignmentResponse, error)
	ListAssignments(ctx context.Context) ([]AssignmentResponse, error)
	PreviewSalary(ctx context.Context, employeeID string) (PreviewResponse, error)

	// Run and finalize
	RunPayroll(ctx context.Context, req RunPayrollRequest) (RunPayrollResponse, error)
	FinalizePayroll(ctx context.Context, req FinalizePayrollRequest) (FinalizePayrollResponse, error)

	// Records
	ListRecords(ctx context.Context, filter RecordFilter) ([]SalaryRecordResponse, int64, error)
	GetRecord(ctx context.Context, id string) (SalaryRecordResponse, error)
	GetSummary(ctx context.Context, period Period) (SummaryResponse, error)
	ListMyRecords(ctx context.Context, year *int) ([]SalaryRecordResponse, error)
}
