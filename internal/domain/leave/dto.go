package leave

import (
	"strings"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ==================== LEAVE TYPES ====================

type CreateLeaveTypeRequest struct {
	Name            string           `json:"name" validate:"required,min=2,max=100"`
	Code            string           `json:"code" validate:"required,min=1,max=20,alphanum"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	DefaultDays     decimal.Decimal  `json:"default_days"`
	CarryForward    bool             `json:"carry_forward"`
	MaxCarryForward *decimal.Decimal `json:"max_carry_forward,omitempty"`
	IsPaid          *bool            `json:"is_paid,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if r.DefaultDays.IsNegative() {
		errs.Add("default_days", "default_days must be at least 0")
	}
	if r.MaxCarryForward != nil && r.MaxCarryForward.IsNegative() {
		errs.Add("max_carry_forward", "max_carry_forward must be at least 0")
	}
	return errs.OrNil()
}

func (r *CreateLeaveTypeRequest) LeaveType(organizationID string) LeaveType {
	lt := LeaveType{
		OrganizationID:  organizationID,
		Name:            strings.TrimSpace(r.Name),
		Code:            strings.ToUpper(r.Code),
		Description:     r.Description,
		DefaultDays:     r.DefaultDays,
		CarryForward:    r.CarryForward,
		MaxCarryForward: r.MaxCarryForward,
		IsPaid:          true,
		IsActive:        true,
	}
	if r.IsPaid != nil {
		lt.IsPaid = *r.IsPaid
	}
	if r.IsActive != nil {
		lt.IsActive = *r.IsActive
	}
	return lt
}

type UpdateLeaveTypeRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Code            *string          `json:"code,omitempty" validate:"omitempty,min=1,max=20,alphanum"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	DefaultDays     *decimal.Decimal `json:"default_days,omitempty"`
	CarryForward    *bool            `json:"carry_forward,omitempty"`
	MaxCarryForward *decimal.Decimal `json:"max_carry_forward,omitempty"`
	IsPaid          *bool            `json:"is_paid,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.DefaultDays != nil && r.DefaultDays.IsNegative() {
		errs.Add("default_days", "default_days must be at least 0")
	}
	if r.MaxCarryForward != nil && r.MaxCarryForward.IsNegative() {
		errs.Add("max_carry_forward", "max_carry_forward must be at least 0")
	}
	return errs.OrNil()
}

func (r *UpdateLeaveTypeRequest) Apply(lt *LeaveType) {
	if r.Name != nil {
		lt.Name = strings.TrimSpace(*r.Name)
	}
	if r.Code != nil {
		lt.Code = strings.ToUpper(*r.Code)
	}
	if r.Description != nil {
		lt.Description = r.Description
	}
	if r.DefaultDays != nil {
		lt.DefaultDays = *r.DefaultDays
	}
	if r.CarryForward != nil {
		lt.CarryForward = *r.CarryForward
	}
	if r.MaxCarryForward != nil {
		lt.MaxCarryForward = r.MaxCarryForward
	}
	if r.IsPaid != nil {
		lt.IsPaid = *r.IsPaid
	}
	if r.IsActive != nil {
		lt.IsActive = *r.IsActive
	}
}

type LeaveTypeResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Code            string           `json:"code"`
	Description     *string          `json:"description,omitempty"`
	DefaultDays     decimal.Decimal  `json:"default_days"`
	CarryForward    bool             `json:"carry_forward"`
	MaxCarryForward *decimal.Decimal `json:"max_carry_forward,omitempty"`
	IsPaid          bool             `json:"is_paid"`
	IsActive        bool             `json:"is_active"`
}

// ==================== BALANCES ====================

type BalanceResponse struct {
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName string          `json:"leave_type_name"`
	LeaveTypeCode string          `json:"leave_type_code"`
	Year          int             `json:"year"`
	Allocated     decimal.Decimal `json:"allocated"`
	Used          decimal.Decimal `json:"used"`
	Pending       decimal.Decimal `json:"pending"`
	Available     decimal.Decimal `json:"available"`
}

// ==================== REQUESTS ====================

type ApplyLeaveRequest struct {
	LeaveTypeID string `json:"leave_type_id" validate:"required,uuid"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason      string `json:"reason" validate:"required,min=5,max=1000"`
	IsHalfDay   bool   `json:"is_half_day"`
}

func (r *ApplyLeaveRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	if end.Before(start) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}
	if r.IsHalfDay && !end.Equal(start) {
		errs.Add("is_half_day", "a half day leave must start and end on the same date")
	}
	return errs.OrNil()
}

type ReviewLeaveRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r *ReviewLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type RequestFilter struct {
	EmployeeID *string
	Status     *RequestStatus
	Year       *int
	Page       int
	Limit      int
}

func (f *RequestFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Status != nil && !f.Status.IsValid() {
		errs.Add("status", "status must be one of: PENDING, APPROVED, REJECTED, CANCELLED")
	}
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return errs.OrNil()
}

func (f RequestFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type RequestResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	EmployeeCode  string          `json:"employee_code,omitempty"`
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName string          `json:"leave_type_name,omitempty"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Days          decimal.Decimal `json:"days"`
	IsHalfDay     bool            `json:"is_half_day"`
	Reason        string          `json:"reason"`
	Status        RequestStatus   `json:"status"`
	ApproverID    *string         `json:"approver_id,omitempty"`
	ApproverNotes *string         `json:"approver_notes,omitempty"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
