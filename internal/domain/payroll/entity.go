package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type ComponentKind string

const (
	KindEarning   ComponentKind = "earning"
	KindDeduction ComponentKind = "deduction"
)

func (k ComponentKind) IsValid() bool {
	return k == KindEarning || k == KindDeduction
}

type AmountType string

const (
	AmountFixed      AmountType = "fixed"
	AmountPercentage AmountType = "percentage"
)

func (a AmountType) IsValid() bool {
	return a == AmountFixed || a == AmountPercentage
}

type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCash         PaymentMethod = "CASH"
	PaymentCheque       PaymentMethod = "CHEQUE"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentBankTransfer, PaymentCash, PaymentCheque:
		return true
	}
	return false
}

type RecordStatus string

const (
	StatusDraft     RecordStatus = "DRAFT"
	StatusProcessed RecordStatus = "PROCESSED"
	StatusApproved  RecordStatus = "APPROVED"
	StatusPaid      RecordStatus = "PAID"
)

func (s RecordStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusProcessed, StatusApproved, StatusPaid:
		return true
	}
	return false
}

// Component is one line item of a structure. It has no identity outside its position in the list.
type Component struct {
	Name       string          `json:"name"`
	Kind       ComponentKind   `json:"type"`
	AmountType AmountType      `json:"amount_type"`
	Value      decimal.Decimal `json:"value"`
	IsTaxable  bool            `json:"is_taxable"`
}

type Structure struct {
	ID             string
	OrganizationID string
	Name           string
	Description    *string
	Earnings       []Component
	Deductions     []Component
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s Structure) HasComponents() bool {
	return len(s.Earnings) > 0 || len(s.Deductions) > 0
}

// Assignment binds an employee to a structure. Structure is populated by reads that join it.
type Assignment struct {
	ID             string
	OrganizationID string
	EmployeeID     string
	StructureID    *string
	BaseSalary     decimal.Decimal
	PaymentMethod  PaymentMethod
	EffectiveDate  time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	EmployeeCode  string
	EmployeeName  string
	StructureName *string
	Structure     *Structure
}

type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type SalaryRecord struct {
	ID             string
	OrganizationID string
	EmployeeID     string
	Month          int
	Year           int
	BasicSalary    decimal.Decimal
	Earnings       Breakdown
	Deductions     Breakdown
	GrossSalary    decimal.Decimal
	NetSalary      decimal.Decimal
	Status         RecordStatus
	PaymentDate    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined
	EmployeeCode string
	EmployeeName string
}

type SkipReason string

const (
	SkipNoStructure      SkipReason = "NO_STRUCTURE"
	SkipEmptyStructure   SkipReason = "EMPTY_STRUCTURE"
	SkipAlreadyFinalized SkipReason = "ALREADY_FINALIZED"
)

type SkippedEmployee struct {
	EmployeeID   string     `json:"employee_id"`
	EmployeeCode string     `json:"employee_code,omitempty"`
	EmployeeName string     `json:"employee_name,omitempty"`
	Reason       SkipReason `json:"reason"`
}

type Summary struct {
	TotalRecords   int64
	DraftCount     int64
	ProcessedCount int64
	ApprovedCount  int64
	PaidCount      int64
	TotalGross     decimal.Decimal
	TotalNet       decimal.Decimal
}
