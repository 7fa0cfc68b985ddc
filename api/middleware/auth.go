package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/catalog-backend/api/responses"
	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

// Authenticator verifies a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (pkgAuth.Actor, error)
}

// Auth resolves the caller from a Basic or Bearer Authorization header and
// seeds the request context with it. Requests without credentials continue
// anonymously; malformed or wrong credentials are rejected.
func Auth(cfg config.JWTConfig, authenticator Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			var (
				actor pkgAuth.Actor
				err   error
			)
			scheme, credentials, _ := strings.Cut(raw, " ")
			credentials = strings.TrimSpace(credentials)
			switch strings.ToLower(scheme) {
			case "basic":
				actor, err = basicActor(r, authenticator)
			case "bearer":
				actor, err = bearerActor(cfg, credentials)
			default:
				err = pkgerrors.New(pkgerrors.CodeUnauthorized, "unsupported authorization scheme")
			}
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithActor(r.Context(), actor)
			if logg != nil {
				ctx = logg.WithActor(ctx, actor.UserID, string(actor.Role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func basicActor(r *http.Request, authenticator Authenticator) (pkgAuth.Actor, error) {
	if authenticator == nil {
		return pkgAuth.Actor{}, pkgerrors.New(pkgerrors.CodeInternal, "authenticator unavailable")
	}
	username, password, ok := r.BasicAuth()
	if !ok {
		return pkgAuth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed basic credentials")
	}
	return authenticator.Authenticate(r.Context(), username, password)
}

func bearerActor(cfg config.JWTConfig, token string) (pkgAuth.Actor, error) {
	if token == "" {
		return pkgAuth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return pkgAuth.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	return claims.Actor(), nil
}
