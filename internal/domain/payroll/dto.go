package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== STRUCTURE DTOs ==========

type ComponentInput struct {
	Name       string          `json:"name"`
	Kind       ComponentKind   `json:"type"`
	AmountType AmountType      `json:"amount_type"`
	Value      decimal.Decimal `json:"value"`
	IsTaxable  *bool           `json:"is_taxable,omitempty"`
}

type CreateStructureRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Earnings    []ComponentInput `json:"earnings"`
	Deductions  []ComponentInput `json:"deductions"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

func (r *CreateStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	name := strings.TrimSpace(r.Name)
	if len(name) < 2 {
		errs.Add("name", "name must be at least 2 characters")
	}
	if len(name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}

	errs = append(errs, validateComponents("earnings", KindEarning, r.Earnings)...)
	errs = append(errs, validateComponents("deductions", KindDeduction, r.Deductions)...)

	return errs.OrNil()
}

// Structure converts a validated request into an entity.
func (r *CreateStructureRequest) Structure(organizationID string) Structure {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return Structure{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(r.Name),
		Description:    r.Description,
		Earnings:       toComponents(KindEarning, r.Earnings),
		Deductions:     toComponents(KindDeduction, r.Deductions),
		IsActive:       active,
	}
}

// UpdateStructureRequest replaces the whole structure; component lists are not merged.
type UpdateStructureRequest struct {
	ID string `json:"-"`
	CreateStructureRequest
}

func (r *UpdateStructureRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if err := r.CreateStructureRequest.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}
	return errs.OrNil()
}

func validateComponents(field string, kind ComponentKind, components []ComponentInput) validator.ValidationErrors {
	var errs validator.ValidationErrors
	seen := make(map[string]bool, len(components))

	for i, c := range components {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		name := strings.TrimSpace(c.Name)

		if name == "" {
			errs.Add(prefix+".name", "name is required")
		} else if seen[name] {
			errs.Add(prefix+".name", fmt.Sprintf("duplicate component name %q", name))
		}
		seen[name] = true

		if c.Kind != "" && c.Kind != kind {
			errs.Add(prefix+".type", fmt.Sprintf("type must be '%s' in %s", kind, field))
		}
		if !c.AmountType.IsValid() {
			errs.Add(prefix+".amount_type", "amount_type must be 'fixed' or 'percentage'")
		}
		if c.Value.IsNegative() {
			errs.Add(prefix+".value", "value must be greater than or equal to 0")
		}
	}

	return errs
}

func toComponents(kind ComponentKind, inputs []ComponentInput) []Component {
	components := make([]Component, 0, len(inputs))
	for _, in := range inputs {
		taxable := true
		if in.IsTaxable != nil {
			taxable = *in.IsTaxable
		}
		components = append(components, Component{
			Name:       strings.TrimSpace(in.Name),
			Kind:       kind,
			AmountType: in.AmountType,
			Value:      in.Value,
			IsTaxable:  taxable,
		})
	}
	return components
}

type StructureResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	Earnings    []Component `json:"earnings"`
	Deductions  []Component `json:"deductions"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ========== ASSIGNMENT DTOs ==========

type AssignSalaryRequest struct {
	EmployeeID    string          `json:"employee_id"`
	StructureID   string          `json:"structure_id"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	EffectiveDate *string         `json:"effective_date,omitempty"`
}

func (r *AssignSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if r.StructureID != "" && !validator.IsValidUUID(r.StructureID) {
		errs.Add("structure_id", "structure_id must be a valid UUID")
	}
	if r.BaseSalary.IsNegative() {
		errs.Add("base_salary", "base_salary must be greater than or equal to 0")
	}
	if r.PaymentMethod != "" && !r.PaymentMethod.IsValid() {
		errs.Add("payment_method", "payment_method must be one of: BANK_TRANSFER, CASH, CHEQUE")
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs.Add("effective_date", "effective_date must be a date in YYYY-MM-DD format")
		}
	}

	return errs.OrNil()
}

type AssignmentResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeCode  string          `json:"employee_code,omitempty"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	StructureID   *string         `json:"structure_id"`
	StructureName *string         `json:"structure_name,omitempty"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	EffectiveDate string          `json:"effective_date"`
}

type PreviewResponse struct {
	EmployeeID  string          `json:"employee_id"`
	StructureID string          `json:"structure_id"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	Earnings    Breakdown       `json:"earnings"`
	Deductions  Breakdown       `json:"deductions"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
	NetSalary   decimal.Decimal `json:"net_salary"`
}

// ========== RUN DTOs ==========

func (p Period) Validate() error {
	var errs validator.ValidationErrors
	if p.Month < 1 || p.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	if p.Year < 1000 || p.Year > 9999 {
		errs.Add("year", "year must be a 4-digit year")
	}
	return errs.OrNil()
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

type RunPayrollRequest struct {
	Period
}

type RunPayrollResponse struct {
	Month            int                    `json:"month"`
	Year             int                    `json:"year"`
	ProcessedCount   int                    `json:"processed_count"`
	Records          []SalaryRecordResponse `json:"records"`
	SkippedEmployees []SkippedEmployee      `json:"skipped_employees"`
}

type FinalizePayrollRequest struct {
	Period
}

type FinalizePayrollResponse struct {
	Month         int   `json:"month"`
	Year          int   `json:"year"`
	ApprovedCount int64 `json:"approved_count"`
}

// ========== RECORD DTOs ==========

type RecordFilter struct {
	Month      *int
	Year       *int
	Status     *RecordStatus
	EmployeeID *string
	Page       int
	Limit      int
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Status != nil && !f.Status.IsValid() {
		errs.Add("status", "status must be one of: DRAFT, PROCESSED, APPROVED, PAID")
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return errs.OrNil()
}

func (f RecordFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type SalaryRecordResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeCode string          `json:"employee_code,omitempty"`
	EmployeeName string          `json:"employee_name,omitempty"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	BasicSalary  decimal.Decimal `json:"basic_salary"`
	Earnings     Breakdown       `json:"earnings"`
	Deductions   Breakdown       `json:"deductions"`
	GrossSalary  decimal.Decimal `json:"gross_salary"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	Status       RecordStatus    `json:"status"`
	PaymentDate  *time.Time      `json:"payment_date,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type SummaryResponse struct {
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	TotalRecords   int64           `json:"total_records"`
	DraftCount     int64           `json:"draft_count"`
	ProcessedCount int64           `json:"processed_count"`
	ApprovedCount  int64           `json:"approved_count"`
	PaidCount      int64           `json:"paid_count"`
	TotalGross     decimal.Decimal `json:"total_gross"`
	TotalNet       decimal.Decimal `json:"total_net"`
}
