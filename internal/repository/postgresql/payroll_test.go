package postgresql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	orgID      = "0190a1b2-0000-7000-8000-000000000001"
	employeeID = "0190a1b2-0000-7000-8000-0000000000a1"
)

// decimalArg matches a decimal argument by value rather than representation.
type decimalArg struct{ want decimal.Decimal }

func (a decimalArg) Match(v interface{}) bool {
	d, ok := v.(decimal.Decimal)
	return ok && d.Equal(a.want)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newMockDB(t *testing.T) (pgxmock.PgxPoolIface, *database.DB) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, database.NewFromPool(mock)
}

func draftRecord() payroll.SalaryRecord {
	st := payroll.Structure{
		Earnings: []payroll.Component{
			{Name: "Basic", AmountType: payroll.AmountPercentage, Value: dec("40")},
			{Name: "HRA", AmountType: payroll.AmountPercentage, Value: dec("20")},
		},
		Deductions: []payroll.Component{
			{Name: "Tax", AmountType: payroll.AmountFixed, Value: dec("200")},
		},
	}
	records, _ := payroll.BuildRun(orgID, payroll.Period{Month: 3, Year: 2026}, []payroll.Assignment{
		{EmployeeID: employeeID, BaseSalary: dec("1000"), Structure: &st},
	})
	return records[0]
}

var upsertRecordSQL = regexp.QuoteMeta("INSERT INTO salary_records") + `(?s).*` +
	regexp.QuoteMeta("ON CONFLICT (organization_id, employee_id, month, year) DO UPDATE SET") + `.*` +
	regexp.QuoteMeta("WHERE salary_records.status = 'DRAFT'")

var upsertReturning = []string{"id", "status", "basic_salary", "gross_salary", "net_salary", "created_at", "updated_at"}

// anyUpsertArgs matches the ten insert parameters of UpsertDraft.
func anyUpsertArgs() []interface{} {
	args := make([]interface{}, 10)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestSalaryRecordRepository_UpsertDraftInTransaction(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSalaryRecordRepository(db)
	rec := draftRecord()
	now := time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(upsertRecordSQL).
		WithArgs(
			pgxmock.AnyArg(), orgID, employeeID, 3, 2026, decimalArg{dec("1000")},
			[]byte(`{"Basic":{"amount":400,"type":"percentage","value":40},"HRA":{"amount":200,"type":"percentage","value":20}}`),
			[]byte(`{"Tax":{"amount":200,"type":"fixed","value":200}}`),
			decimalArg{dec("600")}, decimalArg{dec("400")},
		).
		WillReturnRows(pgxmock.NewRows(upsertReturning).
			AddRow("rec-1", payroll.StatusDraft, dec("1000"), dec("600"), dec("400"), now, now))
	mock.ExpectCommit()

	var (
		saved   payroll.SalaryRecord
		written bool
	)
	err := WithTransaction(context.Background(), db, func(ctx context.Context) error {
		var err error
		saved, written, err = repo.UpsertDraft(ctx, rec)
		return err
	})
	require.NoError(t, err)

	assert.True(t, written)
	assert.Equal(t, "rec-1", saved.ID)
	assert.Equal(t, payroll.StatusDraft, saved.Status)
	assert.True(t, saved.NetSalary.Equal(dec("400")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryRecordRepository_UpsertDraftReturnsStoredAmounts(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSalaryRecordRepository(db)
	now := time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)

	rec := draftRecord()
	rec.GrossSalary = dec("86.4192")
	rec.NetSalary = dec("45.308352")

	mock.ExpectQuery(upsertRecordSQL).
		WithArgs(anyUpsertArgs()...).
		WillReturnRows(pgxmock.NewRows(upsertReturning).
			AddRow("rec-2", payroll.StatusDraft, dec("1000"), dec("86.42"), dec("45.31"), now, now))

	saved, written, err := repo.UpsertDraft(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, "86.42", saved.GrossSalary.String())
	assert.Equal(t, "45.31", saved.NetSalary.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryRecordRepository_UpsertDraftSkipsFinalized(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSalaryRecordRepository(db)

	mock.ExpectQuery(upsertRecordSQL).
		WithArgs(anyUpsertArgs()...).
		WillReturnRows(pgxmock.NewRows(upsertReturning))

	_, written, err := repo.UpsertDraft(context.Background(), draftRecord())
	require.NoError(t, err)
	assert.False(t, written)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryRecordRepository_UpsertFailureRollsBack(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSalaryRecordRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(upsertRecordSQL).
		WithArgs(anyUpsertArgs()...).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := WithTransaction(context.Background(), db, func(ctx context.Context) error {
		_, _, err := repo.UpsertDraft(ctx, draftRecord())
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock detected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

var approveSQL = regexp.QuoteMeta("SET status = 'APPROVED', updated_at = NOW()") + `.*` +
	regexp.QuoteMeta("WHERE organization_id = $1 AND month = $2 AND year = $3 AND status = 'DRAFT'")

func TestSalaryRecordRepository_ApproveDrafts(t *testing.T) {
	cases := []struct {
		name     string
		affected int64
	}{
		{"all already approved", 0},
		{"three drafts among approved", 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mock, db := newMockDB(t)
			repo := NewSalaryRecordRepository(db)

			mock.ExpectExec(approveSQL).
				WithArgs(orgID, 3, 2026).
				WillReturnResult(pgxmock.NewResult("UPDATE", c.affected))

			n, err := repo.ApproveDrafts(context.Background(), orgID, payroll.Period{Month: 3, Year: 2026})
			require.NoError(t, err)
			assert.Equal(t, c.affected, n)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func recordRow(rows *pgxmock.Rows, id string, status payroll.RecordStatus) *pgxmock.Rows {
	now := time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, orgID, employeeID, 3, 2026, dec("1000"),
		[]byte(`{"Basic":{"amount":400,"type":"percentage","value":40}}`),
		[]byte(`{}`),
		dec("400"), dec("400"), status, (*time.Time)(nil),
		now, now, "EMP2026001", "Asha Rao",
	)
}

var recordColumns = []string{
	"id", "organization_id", "employee_id", "month", "year", "basic_salary",
	"earnings", "deductions", "gross_salary", "net_salary", "status", "payment_date",
	"created_at", "updated_at", "employee_code", "employee_name",
}

func TestSalaryRecordRepository_ListWithFilters(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSalaryRecordRepository(db)

	month, year := 3, 2026
	status := payroll.StatusDraft
	filter := payroll.RecordFilter{Month: &month, Year: &year, Status: &status, Page: 2, Limit: 10}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")+`.*`+regexp.QuoteMeta("AND sr.month = $2 AND sr.year = $3 AND sr.status = $4")).
		WithArgs(orgID, 3, 2026, "DRAFT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(11)))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $5 OFFSET $6")).
		WithArgs(orgID, 3, 2026, "DRAFT", 10, 10).
		WillReturnRows(recordRow(pgxmock.NewRows(recordColumns), "rec-11", payroll.StatusDraft))

	records, total, err := repo.List(context.Background(), orgID, filter)
	require.NoError(t, err)

	assert.EqualValues(t, 11, total)
	require.Len(t, records, 1)
	assert.Equal(t, "EMP2026001", records[0].EmployeeCode)
	require.Len(t, records[0].Earnings, 1)
	assert.Equal(t, "Basic", records[0].Earnings[0].Name)
	assert.Empty(t, records[0].Deductions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryRecordRepository_GetByIDNotFound(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSalaryRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE sr.id = $1 AND sr.organization_id = $2")).
		WithArgs("missing", orgID).
		WillReturnRows(pgxmock.NewRows(recordColumns))

	_, err := repo.GetByID(context.Background(), "missing", orgID)
	assert.ErrorIs(t, err, payroll.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryStructureRepository_DeleteMissing(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSalaryStructureRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM salary_structures WHERE id = $1 AND organization_id = $2")).
		WithArgs("s-1", orgID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "s-1", orgID)
	assert.ErrorIs(t, err, payroll.ErrStructureNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryAssignmentRepository_UpsertConflictKey(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewSalaryAssignmentRepository(db)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (organization_id, employee_id) DO UPDATE SET")).
		WithArgs(pgxmock.AnyArg(), orgID, employeeID, (*string)(nil), decimalArg{dec("5000")}, "CASH", now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("a-1", now, now))

	saved, err := repo.Upsert(context.Background(), payroll.Assignment{
		OrganizationID: orgID,
		EmployeeID:     employeeID,
		BaseSalary:     dec("5000"),
		PaymentMethod:  payroll.PaymentCash,
		EffectiveDate:  now,
	})
	require.NoError(t, err)
	assert.Equal(t, "a-1", saved.ID)
	assert.Nil(t, saved.StructureID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
