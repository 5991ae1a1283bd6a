package master

import (
	"context"
	"testing"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/department"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/master/designation"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	orgID  = "0190a1b2-0000-7000-8000-000000000001"
	deptID = "0190a1b2-0000-7000-8000-0000000000d1"
	headID = "0190a1b2-0000-7000-8000-0000000000e1"
)

type passTx struct{}

func (passTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDepartments struct {
	rows      map[string]department.Department
	employees int
	createErr error
	deleted   []string
}

func (f *fakeDepartments) Create(ctx context.Context, d department.Department) (department.Department, error) {
	if f.createErr != nil {
		return department.Department{}, f.createErr
	}
	d.ID = deptID
	f.rows[d.ID] = d
	return d, nil
}

func (f *fakeDepartments) GetByID(ctx context.Context, id, organizationID string) (department.Department, error) {
	d, ok := f.rows[id]
	if !ok || d.OrganizationID != organizationID {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, nil
}

func (f *fakeDepartments) List(ctx context.Context, organizationID string) ([]department.Department, error) {
	out := []department.Department{}
	for _, d := range f.rows {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDepartments) Update(ctx context.Context, d department.Department) (department.Department, error) {
	f.rows[d.ID] = d
	return d, nil
}

func (f *fakeDepartments) Delete(ctx context.Context, id, organizationID string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDepartments) CountEmployees(ctx context.Context, id, organizationID string) (int, error) {
	return f.employees, nil
}

type fakeDesignations struct {
	employees int
	deleted   []string
}

func (f *fakeDesignations) Create(ctx context.Context, d designation.Designation) (designation.Designation, error) {
	d.ID = "desig-1"
	return d, nil
}

func (f *fakeDesignations) GetByID(ctx context.Context, id, organizationID string) (designation.Designation, error) {
	return designation.Designation{}, designation.ErrDesignationNotFound
}

func (f *fakeDesignations) List(ctx context.Context, organizationID string) ([]designation.Designation, error) {
	return nil, nil
}

func (f *fakeDesignations) Update(ctx context.Context, d designation.Designation) (designation.Designation, error) {
	return d, nil
}

func (f *fakeDesignations) Delete(ctx context.Context, id, organizationID string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDesignations) CountEmployees(ctx context.Context, id, organizationID string) (int, error) {
	return f.employees, nil
}

type fakeLookup map[string]bool

func (f fakeLookup) ExistsInOrganization(ctx context.Context, employeeID, organizationID string) (bool, error) {
	return f[employeeID], nil
}

func newService() (MasterService, *fakeDepartments, *fakeDesignations, fakeLookup) {
	deps := &fakeDepartments{rows: map[string]department.Department{}}
	desigs := &fakeDesignations{}
	lookup := fakeLookup{}
	return NewMasterService(passTx{}, deps, desigs, lookup), deps, desigs, lookup
}

func adminCtx() context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{UserID: "u-1", OrganizationID: orgID, Role: "HR_ADMIN"})
}

func ptr[T any](v T) *T { return &v }

func TestCreateDepartment(t *testing.T) {
	svc, deps, _, lookup := newService()
	lookup[headID] = true

	res, err := svc.CreateDepartment(adminCtx(), department.CreateDepartmentRequest{Name: "  Engineering ", HeadID: ptr(headID)})
	require.NoError(t, err)
	assert.Equal(t, "Engineering", res.Name)
	assert.True(t, res.IsActive)
	assert.Equal(t, headID, *deps.rows[deptID].HeadID)
}

func TestCreateDepartment_Errors(t *testing.T) {
	svc, deps, _, _ := newService()

	_, err := svc.CreateDepartment(adminCtx(), department.CreateDepartmentRequest{Name: "E"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "name must be at least 2 characters", verrs.ToMap()["name"])

	_, err = svc.CreateDepartment(adminCtx(), department.CreateDepartmentRequest{Name: "Sales", HeadID: ptr(headID)})
	assert.ErrorIs(t, err, department.ErrHeadNotFound)

	deps.createErr = &pgconn.PgError{Code: "23505"}
	_, err = svc.CreateDepartment(adminCtx(), department.CreateDepartmentRequest{Name: "Sales"})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)

	_, err = svc.CreateDepartment(context.Background(), department.CreateDepartmentRequest{Name: "Sales"})
	assert.ErrorIs(t, err, user.ErrOrganizationRequired)
}

func TestUpdateDepartment_ClearsHead(t *testing.T) {
	svc, deps, _, _ := newService()
	deps.rows[deptID] = department.Department{ID: deptID, OrganizationID: orgID, Name: "Ops", HeadID: ptr(headID), IsActive: true}

	res, err := svc.UpdateDepartment(adminCtx(), department.UpdateDepartmentRequest{ID: deptID, HeadID: ptr(""), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Nil(t, res.HeadID)
	assert.False(t, res.IsActive)
	assert.Equal(t, "Ops", res.Name)
}

func TestDeleteDepartment_BlockedWhileReferenced(t *testing.T) {
	svc, deps, _, _ := newService()
	deps.employees = 4

	err := svc.DeleteDepartment(adminCtx(), deptID)
	assert.ErrorIs(t, err, department.ErrDepartmentInUse)
	assert.Empty(t, deps.deleted)

	deps.employees = 0
	require.NoError(t, svc.DeleteDepartment(adminCtx(), deptID))
	assert.Equal(t, []string{deptID}, deps.deleted)
}

func TestDesignation_CreateAndDelete(t *testing.T) {
	svc, _, desigs, _ := newService()

	_, err := svc.CreateDesignation(adminCtx(), designation.CreateDesignationRequest{Name: "Engineer", Level: 0})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "level")

	res, err := svc.CreateDesignation(adminCtx(), designation.CreateDesignationRequest{Name: "Engineer", Level: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Level)

	desigs.employees = 1
	err = svc.DeleteDesignation(adminCtx(), "0190a1b2-0000-7000-8000-0000000000f1")
	assert.ErrorIs(t, err, designation.ErrDesignationInUse)
}
