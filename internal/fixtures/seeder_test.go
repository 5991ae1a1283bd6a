package fixtures

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/leave"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/department"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/designation"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orgID = "0190a0e0-0000-7000-8000-000000000001"

type fakeTransactor struct{ calls int }

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeOrganizations struct {
	organization.OrganizationRepository
	missing   bool
	created   []organization.Organization
	createErr error
}

func (f *fakeOrganizations) Create(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	if f.createErr != nil {
		return organization.Organization{}, f.createErr
	}
	o.ID = "0190a0e0-0000-7000-8000-0000000000f1"
	f.created = append(f.created, o)
	return o, nil
}

func (f *fakeOrganizations) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	if f.missing {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	return organization.Organization{ID: id}, nil
}

type fakeDepartments struct {
	department.DepartmentRepository
	rows []department.Department
}

func (f *fakeDepartments) List(ctx context.Context, organizationID string) ([]department.Department, error) {
	return f.rows, nil
}

func (f *fakeDepartments) Create(ctx context.Context, d department.Department) (department.Department, error) {
	d.ID = fmt.Sprintf("dept-%d", len(f.rows)+1)
	f.rows = append(f.rows, d)
	return d, nil
}

type fakeDesignations struct {
	designation.DesignationRepository
	rows []designation.Designation
}

func (f *fakeDesignations) List(ctx context.Context, organizationID string) ([]designation.Designation, error) {
	return f.rows, nil
}

func (f *fakeDesignations) Create(ctx context.Context, d designation.Designation) (designation.Designation, error) {
	d.ID = fmt.Sprintf("desig-%d", len(f.rows)+1)
	f.rows = append(f.rows, d)
	return d, nil
}

type fakeLeaveTypes struct {
	leave.LeaveTypeRepository
	rows      []leave.LeaveType
	createErr error
}

func (f *fakeLeaveTypes) List(ctx context.Context, organizationID string) ([]leave.LeaveType, error) {
	return f.rows, nil
}

func (f *fakeLeaveTypes) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	if f.createErr != nil {
		return leave.LeaveType{}, f.createErr
	}
	lt.ID = "lt-" + lt.Code
	f.rows = append(f.rows, lt)
	return lt, nil
}

type fakeStructures struct {
	payroll.StructureRepository
	rows []payroll.Structure
}

func (f *fakeStructures) List(ctx context.Context, organizationID string) ([]payroll.Structure, error) {
	return f.rows, nil
}

func (f *fakeStructures) Create(ctx context.Context, s payroll.Structure) (payroll.Structure, error) {
	s.ID = "st-1"
	f.rows = append(f.rows, s)
	return s, nil
}

type seederFixture struct {
	tx           *fakeTransactor
	orgs         *fakeOrganizations
	departments  *fakeDepartments
	designations *fakeDesignations
	leaveTypes   *fakeLeaveTypes
	structures   *fakeStructures
}

func newSeederFixture() *seederFixture {
	return &seederFixture{
		tx:           &fakeTransactor{},
		orgs:         &fakeOrganizations{},
		departments:  &fakeDepartments{},
		designations: &fakeDesignations{},
		leaveTypes:   &fakeLeaveTypes{},
		structures:   &fakeStructures{},
	}
}

func (f *seederFixture) seeder() *Seeder {
	return NewSeeder(f.tx, f.orgs, f.departments, f.designations, f.leaveTypes, f.structures, nil)
}

func TestSeed_CreatesDefaults(t *testing.T) {
	f := newSeederFixture()

	ids, err := f.seeder().Seed(context.Background(), orgID)
	require.NoError(t, err)

	assert.Equal(t, 1, f.tx.calls)
	assert.Len(t, ids.DepartmentIDs, len(DefaultDepartments(orgID)))
	assert.Len(t, ids.DesignationIDs, len(DefaultDesignations(orgID)))
	assert.Equal(t, "lt-AL", ids.LeaveTypeIDs["AL"])
	assert.Equal(t, "st-1", ids.StructureID)
	assert.Empty(t, ids.Skipped)
}

func TestSeed_SecondRunSkipsEverything(t *testing.T) {
	f := newSeederFixture()
	s := f.seeder()

	_, err := s.Seed(context.Background(), orgID)
	require.NoError(t, err)

	ids, err := s.Seed(context.Background(), orgID)
	require.NoError(t, err)

	total := len(DefaultDepartments(orgID)) + len(DefaultDesignations(orgID)) + len(DefaultLeaveTypes(orgID)) + 1
	assert.Len(t, ids.Skipped, total)
	assert.Empty(t, ids.DepartmentIDs)
	assert.Empty(t, ids.StructureID)
	assert.Len(t, f.departments.rows, len(DefaultDepartments(orgID)))
}

func TestSeed_ExistingNameMatchesCaseInsensitively(t *testing.T) {
	f := newSeederFixture()
	f.departments.rows = []department.Department{{ID: "d-0", OrganizationID: orgID, Name: "finance"}}

	ids, err := f.seeder().Seed(context.Background(), orgID)
	require.NoError(t, err)

	assert.Contains(t, ids.Skipped, "department Finance")
	assert.NotContains(t, ids.DepartmentIDs, "Finance")
}

func TestSeed_CreateFailureAborts(t *testing.T) {
	f := newSeederFixture()
	f.leaveTypes.createErr = errors.New("insert failed")

	ids, err := f.seeder().Seed(context.Background(), orgID)

	assert.Nil(t, ids)
	assert.ErrorContains(t, err, "seed leave type AL")
	assert.Empty(t, f.structures.rows)
}

func TestSeed_UnknownOrganization(t *testing.T) {
	f := newSeederFixture()
	f.orgs.missing = true

	_, err := f.seeder().Seed(context.Background(), orgID)

	assert.ErrorIs(t, err, organization.ErrOrganizationNotFound)
	assert.Zero(t, f.tx.calls)
}

func TestOnboard_CreatesOrganizationWithDefaults(t *testing.T) {
	f := newSeederFixture()
	email := "hr@acme.io"

	org, ids, err := f.seeder().Onboard(context.Background(), organization.CreateOrganizationRequest{
		Name:  " Acme Corp ",
		Slug:  "acme-corp",
		Email: &email,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.tx.calls)
	require.Len(t, f.orgs.created, 1)
	assert.Equal(t, "Acme Corp", f.orgs.created[0].Name)
	assert.Equal(t, organization.PlanFree, f.orgs.created[0].SubscriptionPlan)
	assert.Equal(t, organization.SubscriptionActive, f.orgs.created[0].SubscriptionStatus)
	assert.Equal(t, "hr@acme.io", org.Email)

	assert.Len(t, ids.DepartmentIDs, len(DefaultDepartments(org.ID)))
	assert.Equal(t, "st-1", ids.StructureID)
	for _, d := range f.departments.rows {
		assert.Equal(t, org.ID, d.OrganizationID)
	}
	require.Len(t, f.structures.rows, 1)
	assert.Equal(t, org.ID, f.structures.rows[0].OrganizationID)
}

func TestOnboard_InvalidRequest(t *testing.T) {
	tests := []struct {
		name  string
		req   organization.CreateOrganizationRequest
		field string
	}{
		{"missing name", organization.CreateOrganizationRequest{Slug: "acme"}, "name"},
		{"uppercase slug", organization.CreateOrganizationRequest{Name: "Acme", Slug: "Acme"}, "slug"},
		{"double hyphen", organization.CreateOrganizationRequest{Name: "Acme", Slug: "acme--corp"}, "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSeederFixture()

			_, _, err := f.seeder().Onboard(context.Background(), tt.req)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestOnboard_DuplicateSlug(t *testing.T) {
	f := newSeederFixture()
	f.orgs.createErr = fmt.Errorf("failed to create organization: %w",
		&pgconn.PgError{Code: "23505", ConstraintName: "organizations_slug_key"})

	_, ids, err := f.seeder().Onboard(context.Background(), organization.CreateOrganizationRequest{Name: "Acme", Slug: "acme"})

	assert.ErrorIs(t, err, organization.ErrSlugExists)
	assert.Nil(t, ids)
	assert.Empty(t, f.departments.rows)
}

func TestOnboard_SeedFailureFailsWholeOnboarding(t *testing.T) {
	f := newSeederFixture()
	f.leaveTypes.createErr = errors.New("insert failed")

	org, ids, err := f.seeder().Onboard(context.Background(), organization.CreateOrganizationRequest{Name: "Acme", Slug: "acme"})

	assert.ErrorContains(t, err, "seed leave type AL")
	assert.Empty(t, org.ID)
	assert.Nil(t, ids)
}

func TestDefaultSalaryStructure_Evaluates(t *testing.T) {
	st := DefaultSalaryStructure(orgID)
	require.True(t, st.HasComponents())

	eval := payroll.EvaluateStructure(st, decimal.NewFromInt(50000))

	assert.True(t, eval.Gross.Equal(decimal.NewFromInt(21600)), eval.Gross.String())
	assert.True(t, eval.Net.Equal(decimal.NewFromInt(15400)), eval.Net.String())
}

func TestDefaultDesignations_Levels(t *testing.T) {
	for i, d := range DefaultDesignations(orgID) {
		assert.Equal(t, i+1, d.Level, d.Name)
	}
}
