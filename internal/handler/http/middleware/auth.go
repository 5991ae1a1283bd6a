package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/handler/http/response"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests whose token failed verification or is not an access token.
// It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, user.ErrUnauthenticated)
			return
		}

		tokenType, ok := claims[jwt.ClaimType].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, user.ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireOrganization rejects callers whose token carries no organization.
func RequireOrganization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwt.OrganizationFromContext(r.Context()); err != nil {
			response.HandleError(w, user.ErrOrganizationRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
