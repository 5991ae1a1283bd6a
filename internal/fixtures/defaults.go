package fixtures

import (
	"github.com/hrmlabs/hrm-backend-go/internal/domain/leave"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/department"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/designation"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func days(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ==========================================
// DEFAULT DEPARTMENTS
// ==========================================

func DefaultDepartments(organizationID string) []department.Department {
	return []department.Department{
		{OrganizationID: organizationID, Name: "Human Resources", Description: strPtr("People operations and payroll"), IsActive: true},
		{OrganizationID: organizationID, Name: "Finance", Description: strPtr("Accounting and treasury"), IsActive: true},
		{OrganizationID: organizationID, Name: "Engineering", IsActive: true},
		{OrganizationID: organizationID, Name: "Operations", IsActive: true},
		{OrganizationID: organizationID, Name: "Sales", IsActive: true},
	}
}

// ==========================================
// DEFAULT DESIGNATIONS
// ==========================================

// DefaultDesignations are ordered from the most senior level (1) down.
func DefaultDesignations(organizationID string) []designation.Designation {
	names := []string{"Director", "Manager", "Team Lead", "Senior Associate", "Associate", "Intern"}
	out := make([]designation.Designation, len(names))
	for i, name := range names {
		out[i] = designation.Designation{OrganizationID: organizationID, Name: name, Level: i + 1, IsActive: true}
	}
	return out
}

// ==========================================
// DEFAULT LEAVE TYPES
// ==========================================

func DefaultLeaveTypes(organizationID string) []leave.LeaveType {
	carry := days(5)
	return []leave.LeaveType{
		{
			OrganizationID:  organizationID,
			Name:            "Annual Leave",
			Code:            "AL",
			Description:     strPtr("Paid annual entitlement"),
			DefaultDays:     days(12),
			CarryForward:    true,
			MaxCarryForward: &carry,
			IsPaid:          true,
			IsActive:        true,
		},
		{
			OrganizationID: organizationID,
			Name:           "Sick Leave",
			Code:           "SL",
			DefaultDays:    days(10),
			IsPaid:         true,
			IsActive:       true,
		},
		{
			OrganizationID: organizationID,
			Name:           "Casual Leave",
			Code:           "CL",
			DefaultDays:    days(6),
			IsPaid:         true,
			IsActive:       true,
		},
		{
			OrganizationID: organizationID,
			Name:           "Unpaid Leave",
			Code:           "UL",
			Description:    strPtr("Taken once paid entitlements are used up"),
			DefaultDays:    days(0),
			IsPaid:         false,
			IsActive:       true,
		},
	}
}

// ==========================================
// DEFAULT SALARY STRUCTURE
// ==========================================

// DefaultSalaryStructure is a common split: allowances as a share of base, fixed transport, statutory deductions.
func DefaultSalaryStructure(organizationID string) payroll.Structure {
	return payroll.Structure{
		OrganizationID: organizationID,
		Name:           "Standard",
		Description:    strPtr("Default structure created at onboarding"),
		Earnings: []payroll.Component{
			{Name: "House Rent Allowance", Kind: payroll.KindEarning, AmountType: payroll.AmountPercentage, Value: decimal.NewFromInt(40), IsTaxable: true},
			{Name: "Transport Allowance", Kind: payroll.KindEarning, AmountType: payroll.AmountFixed, Value: decimal.NewFromInt(1600), IsTaxable: false},
		},
		Deductions: []payroll.Component{
			{Name: "Provident Fund", Kind: payroll.KindDeduction, AmountType: payroll.AmountPercentage, Value: decimal.NewFromInt(12), IsTaxable: false},
			{Name: "Professional Tax", Kind: payroll.KindDeduction, AmountType: payroll.AmountFixed, Value: decimal.NewFromInt(200), IsTaxable: false},
		},
		IsActive: true,
	}
}
