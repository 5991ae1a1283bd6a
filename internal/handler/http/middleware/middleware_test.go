package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/handler/http/response"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "ok")
})

func bearer(t *testing.T, svc jwt.Service, claims jwt.Claims) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(claims, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService(testSecret, "")
	chain := jwtauth.Verifier(svc.JWTAuth())(AuthRequired(RequireOrganization(okHandler)))

	_, refresh, err := svc.JWTAuth().Encode(map[string]interface{}{
		jwt.ClaimUserID:         "u-1",
		jwt.ClaimOrganizationID: "org-1",
		jwt.ClaimType:           "refresh",
		"exp":                   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	other := jwt.NewJWTService("another-secret", "")

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid access token", bearer(t, svc, jwt.Claims{UserID: "u-1", OrganizationID: "org-1", Role: "EMPLOYEE"}), http.StatusOK},
		{"missing token", "", http.StatusUnauthorized},
		{"wrong signature", bearer(t, other, jwt.Claims{UserID: "u-1", OrganizationID: "org-1"}), http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"no organization", bearer(t, svc, jwt.Claims{UserID: "u-1", Role: "EMPLOYEE"}), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			chain.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	enforcer, err := rbac.NewEnforcer()
	require.NoError(t, err)

	tests := []struct {
		name     string
		role     user.Role
		resource user.Resource
		action   user.Action
		status   int
	}{
		{"hr admin runs payroll", user.RoleHRAdmin, user.ResourcePayroll, user.ActionRun, http.StatusOK},
		{"employee cannot run payroll", user.RoleEmployee, user.ResourcePayroll, user.ActionRun, http.StatusForbidden},
		{"employee reads own payslips", user.RoleEmployee, user.ResourcePayroll, user.ActionSelf, http.StatusOK},
		{"manager reads employees", user.RoleManager, user.ResourceEmployee, user.ActionRead, http.StatusOK},
		{"hr admin cannot delete employees", user.RoleHRAdmin, user.ResourceEmployee, user.ActionDelete, http.StatusForbidden},
		{"unknown role", user.Role("GUEST"), user.ResourceHoliday, user.ActionRead, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequirePermission(enforcer, tt.resource, tt.action)(okHandler)
			ctx := jwt.NewContext(context.Background(), jwt.Claims{UserID: "u-1", OrganizationID: "org-1", Role: string(tt.role)})
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", decodeError(t, rec))
			}
		})
	}
}

func TestRequirePermission_NoClaims(t *testing.T) {
	enforcer, err := rbac.NewEnforcer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	RequirePermission(enforcer, user.ResourceHoliday, user.ActionRead)(okHandler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1, 2)(okHandler)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:3333"))

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111"))
}

func TestClientLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	l := newClientLimiter(1, 1)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	l.get("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Minute)
	l.get("10.0.0.2")

	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
}
