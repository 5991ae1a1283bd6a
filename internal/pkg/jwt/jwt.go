package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	ClaimUserID         = "user_id"
	ClaimOrganizationID = "organization_id"
	ClaimEmployeeID     = "employee_id"
	ClaimRole           = "role"
	ClaimType           = "type"

	TokenTypeAccess = "access"
)

var ErrMissingOrganization = errors.New("organization_id claim is missing or invalid")

// Claims are the identity facts the external identity provider puts in an access token.
type Claims struct {
	UserID         string
	OrganizationID string
	EmployeeID     string
	Role           string
}

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	// GenerateAccessToken signs a token the same way the identity provider does. Used by tests and local tooling.
	GenerateAccessToken(claims Claims, ttl time.Duration) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
	issuer    string
}

func NewJWTService(secretKey string, issuer string) Service {
	opts := []jwt.ValidateOption{jwt.WithAcceptableSkew(30 * time.Second)}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, opts...),
		issuer:    issuer,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(c Claims, ttl time.Duration) (string, int64, error) {
	expiresAt := time.Now().Add(ttl).Unix()

	claims := map[string]interface{}{
		ClaimUserID: c.UserID,
		ClaimRole:   c.Role,
		ClaimType:   TokenTypeAccess,
		"exp":       expiresAt,
	}
	if c.OrganizationID != "" {
		claims[ClaimOrganizationID] = c.OrganizationID
	}
	if c.EmployeeID != "" {
		claims[ClaimEmployeeID] = c.EmployeeID
	}
	if j.issuer != "" {
		claims["iss"] = j.issuer
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ClaimsFromContext reads the verified claims placed in ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	var c Claims
	c.UserID, _ = raw[ClaimUserID].(string)
	c.OrganizationID, _ = raw[ClaimOrganizationID].(string)
	c.EmployeeID, _ = raw[ClaimEmployeeID].(string)
	c.Role, _ = raw[ClaimRole].(string)
	return c, nil
}

// OrganizationFromContext returns the caller's organization or ErrMissingOrganization.
func OrganizationFromContext(ctx context.Context) (string, error) {
	c, err := ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	if c.OrganizationID == "" {
		return "", ErrMissingOrganization
	}
	return c.OrganizationID, nil
}

// NewContext returns ctx carrying a token built from c, as jwtauth.Verifier would leave it.
// Used where a request did not pass through the verifier, such as service tests and jobs.
func NewContext(ctx context.Context, c Claims) context.Context {
	token := jwt.New()
	_ = token.Set(ClaimUserID, c.UserID)
	_ = token.Set(ClaimRole, c.Role)
	_ = token.Set(ClaimType, TokenTypeAccess)
	if c.OrganizationID != "" {
		_ = token.Set(ClaimOrganizationID, c.OrganizationID)
	}
	if c.EmployeeID != "" {
		_ = token.Set(ClaimEmployeeID, c.EmployeeID)
	}
	return jwtauth.NewContext(ctx, token, nil)
}
