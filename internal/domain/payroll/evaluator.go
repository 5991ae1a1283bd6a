package payroll

import "github.com/shopspring/decimal"

// Evaluation is the result of applying a structure to a base salary.
type Evaluation struct {
	Earnings   Breakdown
	Deductions Breakdown
	Gross      decimal.Decimal
	Net        decimal.Decimal
}

// MoneyScale is the number of decimal places every stored amount carries (NUMERIC(14,2)).
const MoneyScale = 2

// ResolveComponent returns value for fixed components and base*value/100 for percentage components,
// rounded half away from zero to MoneyScale places.
func ResolveComponent(c Component, base decimal.Decimal) ResolvedComponent {
	amount := c.Value
	if c.AmountType == AmountPercentage {
		amount = base.Mul(c.Value).Shift(-2)
	}
	return ResolvedComponent{
		Name:   c.Name,
		Amount: amount.Round(MoneyScale),
		Type:   c.AmountType,
		Value:  c.Value,
	}
}

// EvaluateStructure resolves every component of s against base. Zero-valued components are kept.
// Totals are sums of the rounded amounts, so gross and net always reconcile with the breakdowns.
func EvaluateStructure(s Structure, base decimal.Decimal) Evaluation {
	earnings := make(Breakdown, 0, len(s.Earnings))
	for _, c := range s.Earnings {
		earnings = append(earnings, ResolveComponent(c, base))
	}

	deductions := make(Breakdown, 0, len(s.Deductions))
	for _, c := range s.Deductions {
		deductions = append(deductions, ResolveComponent(c, base))
	}

	gross := earnings.Total()
	return Evaluation{
		Earnings:   earnings,
		Deductions: deductions,
		Gross:      gross,
		Net:        gross.Sub(deductions.Total()),
	}
}

// BuildRun computes one DRAFT record per assignment with a usable structure. Assignments without a
// structure, or whose structure has no components, are reported as skipped in input order.
func BuildRun(organizationID string, period Period, assignments []Assignment) ([]SalaryRecord, []SkippedEmployee) {
	records := make([]SalaryRecord, 0, len(assignments))
	skipped := []SkippedEmployee{}

	for _, a := range assignments {
		switch {
		case a.Structure == nil:
			skipped = append(skipped, skippedFrom(a, SkipNoStructure))
			continue
		case !a.Structure.HasComponents():
			skipped = append(skipped, skippedFrom(a, SkipEmptyStructure))
			continue
		}

		eval := EvaluateStructure(*a.Structure, a.BaseSalary)
		records = append(records, SalaryRecord{
			OrganizationID: organizationID,
			EmployeeID:     a.EmployeeID,
			Month:          period.Month,
			Year:           period.Year,
			BasicSalary:    a.BaseSalary.Round(MoneyScale),
			Earnings:       eval.Earnings,
			Deductions:     eval.Deductions,
			GrossSalary:    eval.Gross,
			NetSalary:      eval.Net,
			Status:         StatusDraft,
			EmployeeCode:   a.EmployeeCode,
			EmployeeName:   a.EmployeeName,
		})
	}

	return records, skipped
}

func skippedFrom(a Assignment, reason SkipReason) SkippedEmployee {
	return SkippedEmployee{
		EmployeeID:   a.EmployeeID,
		EmployeeCode: a.EmployeeCode,
		EmployeeName: a.EmployeeName,
		Reason:       reason,
	}
}
