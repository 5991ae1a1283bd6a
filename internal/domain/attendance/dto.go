package attendance

import (
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CheckInRequest struct {
	Notes    *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
	Location *Location `json:"location,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	return validator.Struct(r)
}

type CheckOutRequest struct {
	Notes    *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
	Location *Location `json:"location,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	return validator.Struct(r)
}

type AttendanceFilter struct {
	EmployeeID *string
	From       *string
	To         *string
	Page       int
	Limit      int
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	var from, to time.Time
	var fromOK, toOK bool
	if f.From != nil {
		if from, fromOK = validator.IsValidDate(*f.From); !fromOK {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		}
	}
	if f.To != nil {
		if to, toOK = validator.IsValidDate(*f.To); !toOK {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		}
	}
	if fromOK && toOK && to.Before(from) {
		errs.Add("to", "to must not be before from")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	return errs.OrNil()
}

func (f AttendanceFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type AttendanceResponse struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employee_id"`
	EmployeeName     string           `json:"employee_name,omitempty"`
	EmployeeCode     string           `json:"employee_code,omitempty"`
	Date             string           `json:"date"`
	CheckIn          *time.Time       `json:"check_in,omitempty"`
	CheckOut         *time.Time       `json:"check_out,omitempty"`
	CheckInLocation  *Location        `json:"check_in_location,omitempty"`
	CheckOutLocation *Location        `json:"check_out_location,omitempty"`
	WorkingHours     *decimal.Decimal `json:"working_hours,omitempty"`
	Status           Status           `json:"status"`
	Notes            *string          `json:"notes,omitempty"`
}
