package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/dashboard"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orgID = "0190a0e0-0000-7000-8000-000000000001"

type fakeRepo struct {
	since       time.Time
	date        time.Time
	year, month int
	pendingErr  error
}

func (f *fakeRepo) EmployeeSummary(ctx context.Context, organizationID string, since time.Time) (dashboard.EmployeeSummaryStats, error) {
	f.since = since
	return dashboard.EmployeeSummaryStats{Total: 12, Active: 8, OnLeave: 1, Resigned: 3, New: 2}, nil
}

func (f *fakeRepo) EmploymentTypes(ctx context.Context, organizationID string) (dashboard.EmploymentTypeStats, error) {
	return dashboard.EmploymentTypeStats{FullTime: 6, Contract: 2, Intern: 1}, nil
}

func (f *fakeRepo) Structure(ctx context.Context, organizationID string) (dashboard.StructureStats, error) {
	return dashboard.StructureStats{Departments: 3, Designations: 5}, nil
}

func (f *fakeRepo) AttendanceOn(ctx context.Context, organizationID string, date time.Time) (dashboard.AttendanceStats, error) {
	f.date = date
	return dashboard.AttendanceStats{Present: 3, CheckedIn: 2}, nil
}

func (f *fakeRepo) PendingLeaves(ctx context.Context, organizationID string) (int64, error) {
	return 4, f.pendingErr
}

func (f *fakeRepo) PayrollPeriod(ctx context.Context, organizationID string, year, month int) (dashboard.PayrollStats, error) {
	f.year, f.month = year, month
	return dashboard.PayrollStats{Draft: 5, Approved: 2, TotalNet: decimal.RequireFromString("123400.50")}, nil
}

func newTestService(repo *fakeRepo) *DashboardServiceImpl {
	svc := NewDashboardService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestGetDashboard(t *testing.T) {
	repo := &fakeRepo{}
	ctx := jwt.NewContext(context.Background(), jwt.Claims{UserID: "u-1", OrganizationID: orgID, Role: "HR_ADMIN"})

	got, err := newTestService(repo).GetDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(12), got.Employees.Total)
	assert.Equal(t, int64(2), got.Employees.New)
	assert.Equal(t, int64(6), got.EmploymentTypes.FullTime)
	assert.Equal(t, int64(5), got.Structure.Designations)
	assert.Equal(t, int64(4), got.PendingLeaves)

	assert.Equal(t, "2026-03-15", got.Attendance.Date)
	assert.Equal(t, 37.5, got.Attendance.PresentRatio)

	assert.Equal(t, 3, got.Payroll.Month)
	assert.Equal(t, 2026, got.Payroll.Year)
	assert.True(t, got.Payroll.TotalNet.Equal(decimal.RequireFromString("123400.50")))

	assert.Equal(t, time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), repo.since)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), repo.date)
	assert.Equal(t, 2026, repo.year)
	assert.Equal(t, 3, repo.month)
}

func TestGetDashboard_QueryFailure(t *testing.T) {
	repo := &fakeRepo{pendingErr: errors.New("connection reset")}
	ctx := jwt.NewContext(context.Background(), jwt.Claims{UserID: "u-1", OrganizationID: orgID, Role: "HR_ADMIN"})

	_, err := newTestService(repo).GetDashboard(ctx)
	assert.EqualError(t, err, "connection reset")
}

func TestGetDashboard_NoOrganization(t *testing.T) {
	ctx := jwt.NewContext(context.Background(), jwt.Claims{UserID: "u-1", Role: "HR_ADMIN"})

	_, err := newTestService(&fakeRepo{}).GetDashboard(ctx)
	assert.ErrorIs(t, err, user.ErrOrganizationRequired)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, percent(3, 0))
	assert.Equal(t, 33.3, percent(1, 3))
	assert.Equal(t, 100.0, percent(4, 4))
}
