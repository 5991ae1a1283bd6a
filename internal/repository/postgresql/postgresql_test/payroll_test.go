package postgresql_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/fixtures"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/events"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/repository/postgresql"
	payrollService "github.com/hrmlabs/hrm-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollLifecycle(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	orgID := createOrganization(t, ctx, db)
	tx := postgresql.NewTransactor(db)

	seeded, err := fixtures.NewSeeder(
		tx,
		postgresql.NewOrganizationRepository(db),
		postgresql.NewDepartmentRepository(db),
		postgresql.NewDesignationRepository(db),
		postgresql.NewLeaveTypeRepository(db),
		postgresql.NewSalaryStructureRepository(db),
		nil,
	).Seed(ctx, orgID)
	require.NoError(t, err)
	require.NotEmpty(t, seeded.StructureID)

	empID := createEmployee(t, ctx, db, orgID, seeded.DepartmentIDs["Engineering"], seeded.DesignationIDs["Associate"], "EMP2025001")

	svc := payrollService.NewPayrollService(
		tx,
		postgresql.NewSalaryStructureRepository(db),
		postgresql.NewSalaryAssignmentRepository(db),
		postgresql.NewSalaryRecordRepository(db),
		postgresql.NewEmployeeRepository(db),
		events.NewNoopPublisher(),
		nil,
	)
	adminCtx := jwt.NewContext(ctx, jwt.Claims{UserID: "hr-1", OrganizationID: orgID, Role: "HR_ADMIN"})
	period := payroll.Period{Month: 3, Year: 2026}

	_, err = svc.AssignSalary(adminCtx, payroll.AssignSalaryRequest{
		EmployeeID:    empID,
		StructureID:   seeded.StructureID,
		BaseSalary:    decimal.NewFromInt(50000),
		PaymentMethod: payroll.PaymentBankTransfer,
	})
	require.NoError(t, err)

	first, err := svc.RunPayroll(adminCtx, payroll.RunPayrollRequest{Period: period})
	require.NoError(t, err)
	require.Len(t, first.Records, 1)
	assert.True(t, decimal.NewFromInt(21600).Equal(first.Records[0].GrossSalary), first.Records[0].GrossSalary.String())
	assert.True(t, decimal.NewFromInt(15400).Equal(first.Records[0].NetSalary), first.Records[0].NetSalary.String())
	assert.Equal(t, payroll.StatusDraft, first.Records[0].Status)

	// A second run replaces the draft instead of adding a row.
	second, err := svc.RunPayroll(adminCtx, payroll.RunPayrollRequest{Period: period})
	require.NoError(t, err)
	require.Len(t, second.Records, 1)
	assert.Equal(t, first.Records[0].ID, second.Records[0].ID)

	finalized, err := svc.FinalizePayroll(adminCtx, payroll.FinalizePayrollRequest{Period: period})
	require.NoError(t, err)
	assert.Equal(t, int64(1), finalized.ApprovedCount)

	third, err := svc.RunPayroll(adminCtx, payroll.RunPayrollRequest{Period: period})
	require.NoError(t, err)
	assert.Empty(t, third.Records)
	require.Len(t, third.SkippedEmployees, 1)
	assert.Equal(t, payroll.SkipAlreadyFinalized, third.SkippedEmployees[0].Reason)

	summary, err := svc.GetSummary(adminCtx, period)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalRecords)
	assert.Equal(t, int64(1), summary.ApprovedCount)
	assert.True(t, decimal.NewFromInt(15400).Equal(summary.TotalNet))

	// Another tenant sees none of it.
	otherOrg := createOrganization(t, ctx, db)
	records := postgresql.NewSalaryRecordRepository(db)
	list, total, err := records.List(ctx, otherOrg, payroll.RecordFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	_, err = records.GetByID(ctx, first.Records[0].ID, otherOrg)
	assert.ErrorIs(t, err, payroll.ErrRecordNotFound)
}

func TestSeeder_SecondRunSkipsEverything(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	orgID := createOrganization(t, ctx, db)
	seeder := fixtures.NewSeeder(
		postgresql.NewTransactor(db),
		postgresql.NewOrganizationRepository(db),
		postgresql.NewDepartmentRepository(db),
		postgresql.NewDesignationRepository(db),
		postgresql.NewLeaveTypeRepository(db),
		postgresql.NewSalaryStructureRepository(db),
		nil,
	)

	_, err := seeder.Seed(ctx, orgID)
	require.NoError(t, err)

	again, err := seeder.Seed(ctx, orgID)
	require.NoError(t, err)
	assert.Len(t, again.Skipped, 5+6+4+1)
}

func TestSeeder_OnboardCreatesOrganizationAndDefaults(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	orgs := postgresql.NewOrganizationRepository(db)
	seeder := fixtures.NewSeeder(
		postgresql.NewTransactor(db),
		orgs,
		postgresql.NewDepartmentRepository(db),
		postgresql.NewDesignationRepository(db),
		postgresql.NewLeaveTypeRepository(db),
		postgresql.NewSalaryStructureRepository(db),
		nil,
	)
	slug := "onboard-" + uuid.NewString()[:8]

	org, ids, err := seeder.Onboard(ctx, organization.CreateOrganizationRequest{Name: "Onboard Co", Slug: slug})
	require.NoError(t, err)
	assert.Len(t, ids.DepartmentIDs, 5)
	assert.NotEmpty(t, ids.StructureID)

	stored, err := orgs.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, slug, stored.Slug)
	assert.Empty(t, stored.Email)

	_, _, err = seeder.Onboard(ctx, organization.CreateOrganizationRequest{Name: "Onboard Again", Slug: slug})
	assert.ErrorIs(t, err, organization.ErrSlugExists)

	var count int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM organizations WHERE name = 'Onboard Again'`).Scan(&count))
	assert.Zero(t, count)
}
