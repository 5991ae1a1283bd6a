package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID = "0190a1b2-0000-7000-8000-000000000001"
	testEmpID = "0190a1b2-0000-7000-8000-0000000000a1"
)

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendance struct {
	open      *attendance.Attendance
	createErr error
	created   []attendance.Attendance
	closed    []attendance.Attendance
	lastList  attendance.AttendanceFilter

	staleBefore time.Time
	staleLength time.Duration
	staleNote   string
	staleCount  int64
}

func (f *fakeAttendance) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if f.createErr != nil {
		return attendance.Attendance{}, f.createErr
	}
	a.ID = "att-1"
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAttendance) FindOpenSession(ctx context.Context, employeeID, organizationID string) (attendance.Attendance, error) {
	if f.open == nil {
		return attendance.Attendance{}, attendance.ErrNoOpenSession
	}
	return *f.open, nil
}

func (f *fakeAttendance) Close(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.closed = append(f.closed, a)
	f.open = nil
	return a, nil
}

func (f *fakeAttendance) List(ctx context.Context, organizationID string, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	f.lastList = filter
	return []attendance.Attendance{}, 0, nil
}

func (f *fakeAttendance) CloseStale(ctx context.Context, checkedInBefore time.Time, sessionLength time.Duration, note string) (int64, error) {
	f.staleBefore, f.staleLength, f.staleNote = checkedInBefore, sessionLength, note
	return f.staleCount, nil
}

type fakeDirectory map[string]string

func (f fakeDirectory) FindIDByUserID(ctx context.Context, userID, organizationID string) (string, error) {
	return f[userID], nil
}

var clock = time.Date(2026, time.March, 2, 17, 20, 0, 0, time.UTC)

func newService(repo *fakeAttendance) *AttendanceServiceImpl {
	svc := NewAttendanceService(fakeTransactor{}, repo, fakeDirectory{"user-1": testEmpID}, nil)
	svc.now = func() time.Time { return clock }
	return svc
}

func employeeCtx() context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{UserID: "user-1", OrganizationID: testOrgID, Role: "EMPLOYEE"})
}

func TestCheckIn_CreatesPresentRecord(t *testing.T) {
	repo := &fakeAttendance{}
	svc := newService(repo)
	notes := "wfh"

	resp, err := svc.CheckIn(employeeCtx(), attendance.CheckInRequest{
		Notes:    &notes,
		Location: &attendance.Location{Latitude: 12.97, Longitude: 77.59},
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, "2026-03-02", resp.Date)
	require.Len(t, repo.created, 1)
	assert.Equal(t, testEmpID, repo.created[0].EmployeeID)
	assert.Equal(t, clock, *repo.created[0].CheckIn)
	assert.Equal(t, 12.97, repo.created[0].CheckInLocation.Latitude)
}

func TestCheckIn_RejectsSecondOpenSession(t *testing.T) {
	checkIn := clock.Add(-time.Hour)
	repo := &fakeAttendance{open: &attendance.Attendance{ID: "att-0", CheckIn: &checkIn}}
	svc := newService(repo)

	_, err := svc.CheckIn(employeeCtx(), attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Empty(t, repo.created)
}

func TestCheckIn_ConcurrentInsertConflict(t *testing.T) {
	repo := &fakeAttendance{createErr: &pgconn.PgError{Code: "23505"}}
	svc := newService(repo)

	_, err := svc.CheckIn(employeeCtx(), attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_InvalidLocation(t *testing.T) {
	svc := newService(&fakeAttendance{})
	_, err := svc.CheckIn(employeeCtx(), attendance.CheckInRequest{
		Location: &attendance.Location{Latitude: 120, Longitude: 77.59},
	})
	require.Error(t, err)
}

func TestCheckIn_WithoutEmployeeProfile(t *testing.T) {
	svc := newService(&fakeAttendance{})
	ctx := jwt.NewContext(context.Background(), jwt.Claims{UserID: "user-9", OrganizationID: testOrgID})

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoEmployeeProfile)

	_, err = svc.CheckIn(context.Background(), attendance.CheckInRequest{})
	assert.ErrorIs(t, err, user.ErrOrganizationRequired)
}

func TestCheckOut_ClosesSessionWithHoursAndNotes(t *testing.T) {
	checkIn := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	morning := "wfh"
	repo := &fakeAttendance{open: &attendance.Attendance{ID: "att-0", EmployeeID: testEmpID, CheckIn: &checkIn, Notes: &morning}}
	svc := newService(repo)
	notes := "done"

	resp, err := svc.CheckOut(employeeCtx(), attendance.CheckOutRequest{Notes: &notes})
	require.NoError(t, err)

	require.NotNil(t, resp.WorkingHours)
	assert.Equal(t, "8.33", resp.WorkingHours.String())
	assert.Equal(t, "wfh\n[Out]: done", *resp.Notes)
	assert.Equal(t, clock, *resp.CheckOut)
	require.Len(t, repo.closed, 1)
}

func TestCheckOut_NoOpenSession(t *testing.T) {
	svc := newService(&fakeAttendance{})
	_, err := svc.CheckOut(employeeCtx(), attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestListMine_ScopesToCaller(t *testing.T) {
	repo := &fakeAttendance{}
	svc := newService(repo)
	other := "0190a1b2-0000-7000-8000-0000000000b2"

	_, _, err := svc.ListMine(employeeCtx(), attendance.AttendanceFilter{EmployeeID: &other})
	require.NoError(t, err)
	require.NotNil(t, repo.lastList.EmployeeID)
	assert.Equal(t, testEmpID, *repo.lastList.EmployeeID)
	assert.Equal(t, 20, repo.lastList.Limit)
}

func TestList_RejectsInvertedRange(t *testing.T) {
	svc := newService(&fakeAttendance{})
	from, to := "2026-03-10", "2026-03-01"
	_, _, err := svc.List(employeeCtx(), attendance.AttendanceFilter{From: &from, To: &to})
	require.Error(t, err)
}

func TestCloseStaleSessions(t *testing.T) {
	repo := &fakeAttendance{staleCount: 3}
	svc := newService(repo)

	closed, err := svc.CloseStaleSessions(context.Background(), 16*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), closed)
	assert.Equal(t, clock.Add(-16*time.Hour), repo.staleBefore)
	assert.Equal(t, 16*time.Hour, repo.staleLength)
	assert.Equal(t, "[Out]: auto-closed", repo.staleNote)
}

func TestCloseStaleSessions_DisabledWhenNoLimit(t *testing.T) {
	repo := &fakeAttendance{staleCount: 3}
	svc := newService(repo)

	closed, err := svc.CloseStaleSessions(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, closed)
	assert.True(t, repo.staleBefore.IsZero())
}
