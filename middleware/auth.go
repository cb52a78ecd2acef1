package middleware

import (
	"net/http"

	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/session"
	"github.com/kelydev/apiGrants/utils"
)

// RequireRole lets the request through only when the guarded session holds
// one of roles. It must run behind the session guard.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !allowed[s.Role] {
				utils.WriteError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin admits the roles that administer shared records.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin, models.RoleInstitutionalAdmin)(next)
}
