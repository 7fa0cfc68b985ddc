package middleware

import (
	"net/http"
	"slices"

	"github.com/angelmondragon/catalog-backend/api/responses"
	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

var errAuthRequired = pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")

// guard runs check against the resolved actor. Anonymous callers always get
// 401; a failed check on a known caller gets 403.
func guard(logg *logger.Logger, check func(pkgAuth.Actor) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			switch {
			case !actor.Authenticated():
				responses.WriteError(r.Context(), logg, w, errAuthRequired)
			case check != nil && !check(actor):
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return guard(logg, nil)
}

// RequireRole admits callers holding any of roles.
func RequireRole(logg *logger.Logger, roles ...enums.Role) func(http.Handler) http.Handler {
	return guard(logg, func(a pkgAuth.Actor) bool {
		return slices.Contains(roles, a.Role)
	})
}
