package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, lt LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string, organizationID string) (LeaveType, error)
	List(ctx context.Context, organizationID string) ([]LeaveType, error)
	Update(ctx context.Context, lt LeaveType) (LeaveType, error)
}

type BalanceRepository interface {
	ListByEmployee(ctx context.Context, employeeID string, organizationID string, year int) ([]Balance, error)
	// InitializeBalances creates a balance for every active leave type that the employee lacks for year.
	InitializeBalances(ctx context.Context, organizationID string, employeeID string, year int) (int64, error)
	// Consume moves days from available to used. Reports false when no balance row exists.
	Consume(ctx context.Context, organizationID, employeeID, leaveTypeID string, year int, days decimal.Decimal) (bool, error)
}

// Transition describes a review of a pending request.
type Transition struct {
	ID             string
	OrganizationID string
	To             RequestStatus
	ApproverID     *string
	ApproverNotes  *string
}

type RequestRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string, organizationID string) (Request, error)
	List(ctx context.Context, organizationID string, filter RequestFilter) ([]Request, int64, error)
	// TransitionFromPending applies t only while the request is PENDING and returns ErrLeaveNotPending otherwise.
	TransitionFromPending(ctx context.Context, t Transition) (Request, error)
}

type EmployeeDirectory interface {
	// FindIDByUserID returns "" when the user has no employee record.
	FindIDByUserID(ctx context.Context, userID string, organizationID string) (string, error)
}
