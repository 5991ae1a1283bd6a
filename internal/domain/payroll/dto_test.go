package payroll

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationMap(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs.ToMap()
}

func TestCreateStructureRequest_DecodeAndConvert(t *testing.T) {
	body := `{
		"name": "Standard",
		"earnings": [
			{"name": "Basic", "type": "earning", "amount_type": "percentage", "value": 40},
			{"name": "HRA", "amount_type": "percentage", "value": "20", "is_taxable": false}
		],
		"deductions": [
			{"name": "Tax", "type": "deduction", "amount_type": "fixed", "value": 200}
		]
	}`

	var req CreateStructureRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NoError(t, req.Validate())

	s := req.Structure("org-1")
	assert.Equal(t, "org-1", s.OrganizationID)
	assert.True(t, s.IsActive)
	require.Len(t, s.Earnings, 2)
	assert.Equal(t, KindEarning, s.Earnings[1].Kind)
	assert.True(t, s.Earnings[0].IsTaxable)
	assert.False(t, s.Earnings[1].IsTaxable)
	assert.Equal(t, KindDeduction, s.Deductions[0].Kind)
}

func TestCreateStructureRequest_Invalid(t *testing.T) {
	req := CreateStructureRequest{
		Name: "A",
		Earnings: []ComponentInput{
			{Name: "Basic", AmountType: AmountPercentage, Value: d("40")},
			{Name: "Basic", AmountType: AmountFixed, Value: d("10")},
			{Name: " ", AmountType: "ratio", Value: d("-1")},
		},
		Deductions: []ComponentInput{
			{Name: "Tax", Kind: KindEarning, AmountType: AmountFixed, Value: d("1")},
		},
	}

	m := validationMap(t, req.Validate())
	assert.Equal(t, "name must be at least 2 characters", m["name"])
	assert.Equal(t, `duplicate component name "Basic"`, m["earnings[1].name"])
	assert.Equal(t, "name is required", m["earnings[2].name"])
	assert.Equal(t, "amount_type must be 'fixed' or 'percentage'", m["earnings[2].amount_type"])
	assert.Equal(t, "value must be greater than or equal to 0", m["earnings[2].value"])
	assert.Equal(t, "type must be 'deduction' in deductions", m["deductions[0].type"])
}

func TestUpdateStructureRequest_RequiresID(t *testing.T) {
	req := UpdateStructureRequest{CreateStructureRequest: CreateStructureRequest{Name: "Standard"}}
	m := validationMap(t, req.Validate())
	assert.Equal(t, "id is required", m["id"])
}

func TestAssignSalaryRequest_Validate(t *testing.T) {
	bad := "2026-13-01"
	req := AssignSalaryRequest{
		EmployeeID:    "nope",
		StructureID:   "also-nope",
		BaseSalary:    d("-5"),
		PaymentMethod: "CRYPTO",
		EffectiveDate: &bad,
	}

	m := validationMap(t, req.Validate())
	assert.Contains(t, m, "employee_id")
	assert.Contains(t, m, "structure_id")
	assert.Contains(t, m, "base_salary")
	assert.Contains(t, m, "payment_method")
	assert.Contains(t, m, "effective_date")

	ok := AssignSalaryRequest{
		EmployeeID: "0190b6a4-6f0e-7c3a-9d55-3b1f5a2c9e10",
		BaseSalary: d("1000"),
	}
	assert.NoError(t, ok.Validate())
}

func TestPeriod_Validate(t *testing.T) {
	assert.NoError(t, Period{Month: 1, Year: 2026}.Validate())
	assert.NoError(t, Period{Month: 12, Year: 1999}.Validate())

	m := validationMap(t, Period{Month: 13, Year: 26}.Validate())
	assert.Equal(t, "month must be between 1 and 12", m["month"])
	assert.Equal(t, "year must be a 4-digit year", m["year"])

	assert.Equal(t, "2026-03", Period{Month: 3, Year: 2026}.String())
}

func TestRecordFilter_DefaultsPaging(t *testing.T) {
	f := RecordFilter{Page: 0, Limit: 1000}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = RecordFilter{Page: 3, Limit: 10}
	require.NoError(t, f.Validate())
	assert.Equal(t, 20, f.Offset())

	status := RecordStatus("VOID")
	f = RecordFilter{Status: &status}
	m := validationMap(t, f.Validate())
	assert.Contains(t, m, "status")
}

func TestNoComputableRecordsError_MatchesSentinel(t *testing.T) {
	err := error(&NoComputableRecordsError{Skipped: []SkippedEmployee{{EmployeeID: "e1", Reason: SkipNoStructure}}})

	assert.ErrorIs(t, err, ErrNoComputableRecords)
	assert.NotErrorIs(t, err, ErrNoAssignments)
	assert.Equal(t, "no payroll records could be computed: 1 employee(s) skipped", err.Error())

	var typed *NoComputableRecordsError
	require.ErrorAs(t, err, &typed)
	assert.Len(t, typed.Skipped, 1)
}
