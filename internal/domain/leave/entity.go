package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaveType struct {
	ID              string
	OrganizationID  string
	Name            string
	Code            string
	Description     *string
	DefaultDays     decimal.Decimal
	CarryForward    bool
	MaxCarryForward *decimal.Decimal
	IsPaid          bool
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Balance is an employee's entitlement for one leave type in one calendar year.
type Balance struct {
	ID             string
	OrganizationID string
	EmployeeID     string
	LeaveTypeID    string
	Year           int
	Allocated      decimal.Decimal
	Used           decimal.Decimal
	Pending        decimal.Decimal
	Available      decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	LeaveTypeName string
	LeaveTypeCode string
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCancelled RequestStatus = "CANCELLED"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type Request struct {
	ID             string
	OrganizationID string
	EmployeeID     string
	LeaveTypeID    string
	StartDate      time.Time
	EndDate        time.Time
	Days           decimal.Decimal
	IsHalfDay      bool
	Reason         string
	Status         RequestStatus
	ApproverID     *string
	ApproverNotes  *string
	ApprovedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	EmployeeName  string
	EmployeeCode  string
	LeaveTypeName string
}

// CountDays counts calendar days from start to end inclusive. Only the dates matter,
// so the zone or time of day of either value never adds a day. A half day is 0.5.
func CountDays(start, end time.Time, halfDay bool) decimal.Decimal {
	if halfDay {
		return decimal.NewFromFloat(0.5)
	}
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return decimal.NewFromInt(int64(to.Sub(from)/(24*time.Hour)) + 1)
}
