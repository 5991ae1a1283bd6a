package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/handler/http/response"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/rbac"
)

// RequirePermission allows the request only when the caller's role may perform action on resource.
func RequirePermission(authz rbac.Authorizer, resource user.Resource, action user.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.HandleError(w, user.ErrUnauthenticated)
				return
			}

			allowed, err := authz.Can(user.Role(claims.Role), resource, action)
			if err != nil {
				slog.Error("permission check failed", slog.String("resource", string(resource)), slog.Any("error", err))
				response.InternalServerError(w, "Internal server error")
				return
			}
			if !allowed {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
