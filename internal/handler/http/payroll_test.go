package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/payroll"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/rbac"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "handler-test-secret"
	testOrgID  = "0190a0e0-0000-7000-8000-000000000001"
)

// fakePayrollService answers the calls a test configures and fails loudly on the rest.
type fakePayrollService struct {
	payroll.PayrollService

	runFn         func(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error)
	finalizeFn    func(ctx context.Context, req payroll.FinalizePayrollRequest) (payroll.FinalizePayrollResponse, error)
	listRecordsFn func(ctx context.Context, filter payroll.RecordFilter) ([]payroll.SalaryRecordResponse, int64, error)
	myRecordsFn   func(ctx context.Context, year *int) ([]payroll.SalaryRecordResponse, error)
}

func (f *fakePayrollService) RunPayroll(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error) {
	return f.runFn(ctx, req)
}

func (f *fakePayrollService) FinalizePayroll(ctx context.Context, req payroll.FinalizePayrollRequest) (payroll.FinalizePayrollResponse, error) {
	return f.finalizeFn(ctx, req)
}

func (f *fakePayrollService) ListRecords(ctx context.Context, filter payroll.RecordFilter) ([]payroll.SalaryRecordResponse, int64, error) {
	return f.listRecordsFn(ctx, filter)
}

func (f *fakePayrollService) ListMyRecords(ctx context.Context, year *int) ([]payroll.SalaryRecordResponse, error) {
	return f.myRecordsFn(ctx, year)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
}

func newTestServer(t *testing.T, svc payroll.PayrollService) *testServer {
	t.Helper()
	enforcer, err := rbac.NewEnforcer()
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(testSecret, "")
	router := NewRouter(jwtService, enforcer, Handlers{
		Organization: NewOrganizationHandler(nil),
		Master:       NewMasterHandler(nil),
		Employee:     NewEmployeeHandler(nil),
		Attendance:   NewAttendanceHandler(nil),
		Leave:        NewLeaveHandler(nil),
		Holiday:      NewHolidayHandler(nil),
		Payroll:      NewPayrollHandler(svc),
		Dashboard:    NewDashboardHandler(nil),
	}, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}})

	return &testServer{handler: router, jwt: jwtService}
}

func (s *testServer) do(t *testing.T, role user.Role, orgID, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	token, _, err := s.jwt.GenerateAccessToken(jwt.Claims{
		UserID:         "0190a0e0-0000-7000-8000-0000000000aa",
		OrganizationID: orgID,
		Role:           string(role),
	}, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestRunPayroll_Success(t *testing.T) {
	svc := &fakePayrollService{
		runFn: func(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error) {
			orgID, err := jwt.OrganizationFromContext(ctx)
			require.NoError(t, err)
			assert.Equal(t, testOrgID, orgID)
			assert.Equal(t, payroll.Period{Month: 3, Year: 2026}, req.Period)

			return payroll.RunPayrollResponse{
				Month:          3,
				Year:           2026,
				ProcessedCount: 1,
				Records: []payroll.SalaryRecordResponse{{
					EmployeeID:  "e-1",
					GrossSalary: decimal.RequireFromString("65000"),
					NetSalary:   decimal.RequireFromString("58000"),
					Status:      payroll.StatusDraft,
				}},
				SkippedEmployees: []payroll.SkippedEmployee{{EmployeeID: "e-2", Reason: payroll.SkipNoStructure}},
			}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec, env := srv.do(t, user.RoleHRAdmin, testOrgID, http.MethodPost, "/api/v1/payroll/run", map[string]int{"month": 3, "year": 2026})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data payroll.RunPayrollResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.ProcessedCount)
	require.Len(t, data.SkippedEmployees, 1)
	assert.Equal(t, payroll.SkipNoStructure, data.SkippedEmployees[0].Reason)
	assert.True(t, data.Records[0].NetSalary.Equal(decimal.RequireFromString("58000")))
}

func TestRunPayroll_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing organization", payroll.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"no assignments", payroll.ErrNoAssignments, http.StatusUnprocessableEntity, "NO_ASSIGNMENTS"},
		{
			"nothing computable",
			&payroll.NoComputableRecordsError{Skipped: []payroll.SkippedEmployee{
				{EmployeeID: "e-1", Reason: payroll.SkipNoStructure},
				{EmployeeID: "e-2", Reason: payroll.SkipEmptyStructure},
			}},
			http.StatusUnprocessableEntity,
			"NO_COMPUTABLE_RECORDS",
		},
		{"store failure", fmt.Errorf("%w: connection reset", payroll.ErrPersistence), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePayrollService{
				runFn: func(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error) {
					return payroll.RunPayrollResponse{}, tt.err
				},
			}
			srv := newTestServer(t, svc)

			rec, env := srv.do(t, user.RoleSuperAdmin, testOrgID, http.MethodPost, "/api/v1/payroll/run", map[string]int{"month": 3, "year": 2026})

			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)

			var noComputable *payroll.NoComputableRecordsError
			if errors.As(tt.err, &noComputable) {
				skipped, ok := env.Error.Details["skipped_employees"].([]interface{})
				require.True(t, ok)
				assert.Len(t, skipped, 2)
			}
		})
	}
}

func TestRunPayroll_Authorization(t *testing.T) {
	called := false
	svc := &fakePayrollService{
		runFn: func(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunPayrollResponse, error) {
			called = true
			return payroll.RunPayrollResponse{}, nil
		},
	}
	srv := newTestServer(t, svc)

	t.Run("employee is forbidden", func(t *testing.T) {
		rec, env := srv.do(t, user.RoleEmployee, testOrgID, http.MethodPost, "/api/v1/payroll/run", map[string]int{"month": 3, "year": 2026})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("manager is forbidden", func(t *testing.T) {
		rec, _ := srv.do(t, user.RoleManager, testOrgID, http.MethodPost, "/api/v1/payroll/run", map[string]int{"month": 3, "year": 2026})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("token without organization", func(t *testing.T) {
		rec, env := srv.do(t, user.RoleHRAdmin, "", http.MethodPost, "/api/v1/payroll/run", map[string]int{"month": 3, "year": 2026})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	assert.False(t, called)
}

func TestFinalizePayroll(t *testing.T) {
	svc := &fakePayrollService{
		finalizeFn: func(ctx context.Context, req payroll.FinalizePayrollRequest) (payroll.FinalizePayrollResponse, error) {
			return payroll.FinalizePayrollResponse{Month: req.Month, Year: req.Year, ApprovedCount: 4}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec, env := srv.do(t, user.RoleHRAdmin, testOrgID, http.MethodPost, "/api/v1/payroll/finalize", map[string]int{"month": 2, "year": 2026})

	require.Equal(t, http.StatusOK, rec.Code)
	var data payroll.FinalizePayrollResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(4), data.ApprovedCount)
}

func TestListRecords(t *testing.T) {
	svc := &fakePayrollService{
		listRecordsFn: func(ctx context.Context, filter payroll.RecordFilter) ([]payroll.SalaryRecordResponse, int64, error) {
			require.NotNil(t, filter.Month)
			assert.Equal(t, 3, *filter.Month)
			require.NotNil(t, filter.Status)
			assert.Equal(t, payroll.StatusDraft, *filter.Status)
			assert.Equal(t, 2, filter.Page)
			assert.Equal(t, 10, filter.Limit)
			return []payroll.SalaryRecordResponse{{EmployeeID: "e-1"}}, 11, nil
		},
	}
	srv := newTestServer(t, svc)

	t.Run("paginated", func(t *testing.T) {
		rec, env := srv.do(t, user.RoleHRAdmin, testOrgID, http.MethodGet, "/api/v1/payroll/records?month=3&status=DRAFT&page=2&limit=10", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(11), env.Meta.TotalItems)
		assert.Equal(t, 2, env.Meta.TotalPages)
	})

	t.Run("malformed month", func(t *testing.T) {
		rec, env := srv.do(t, user.RoleHRAdmin, testOrgID, http.MethodGet, "/api/v1/payroll/records?month=march", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Details, "month")
	})

	t.Run("employee cannot list all records", func(t *testing.T) {
		rec, _ := srv.do(t, user.RoleEmployee, testOrgID, http.MethodGet, "/api/v1/payroll/records", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestListMyRecords(t *testing.T) {
	svc := &fakePayrollService{
		myRecordsFn: func(ctx context.Context, year *int) ([]payroll.SalaryRecordResponse, error) {
			require.NotNil(t, year)
			assert.Equal(t, 2026, *year)
			return []payroll.SalaryRecordResponse{{EmployeeID: "e-1", Month: 1, Year: 2026}}, nil
		},
	}
	srv := newTestServer(t, svc)

	rec, env := srv.do(t, user.RoleEmployee, testOrgID, http.MethodGet, "/api/v1/payroll/records/me?year=2026", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var data []payroll.SalaryRecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data, 1)
}
