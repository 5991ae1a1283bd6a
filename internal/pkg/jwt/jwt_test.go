package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "")

	token, expiresAt, err := svc.GenerateAccessToken(Claims{
		UserID:         "user-1",
		OrganizationID: "org-1",
		EmployeeID:     "emp-1",
		Role:           "HR_ADMIN",
	}, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "user-1", OrganizationID: "org-1", EmployeeID: "emp-1", Role: "HR_ADMIN"}, claims)

	orgID, err := OrganizationFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "org-1", orgID)
}

func TestOrganizationFromContext_Missing(t *testing.T) {
	svc := NewJWTService("test-secret", "")

	token, _, err := svc.GenerateAccessToken(Claims{UserID: "user-1", Role: "EMPLOYEE"}, time.Hour)
	require.NoError(t, err)
	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	_, err = OrganizationFromContext(jwtauth.NewContext(context.Background(), decoded, nil))
	assert.ErrorIs(t, err, ErrMissingOrganization)
}

func TestOrganizationFromContext_NoToken(t *testing.T) {
	_, err := OrganizationFromContext(context.Background())
	assert.Error(t, err)
}

func TestDecode_WrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a", "").GenerateAccessToken(Claims{UserID: "u"}, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", "").JWTAuth().Decode(token)
	assert.Error(t, err)
}

func TestNewContext(t *testing.T) {
	ctx := NewContext(context.Background(), Claims{UserID: "u", OrganizationID: "o", Role: "EMPLOYEE"})

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "u", OrganizationID: "o", Role: "EMPLOYEE"}, claims)
}
