package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

type stubAuthenticator struct {
	username string
	password string
	actor    pkgAuth.Actor
}

func (s stubAuthenticator) Authenticate(ctx context.Context, username, password string) (pkgAuth.Actor, error) {
	if username != s.username || password != s.password {
		return pkgAuth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return s.actor, nil
}

func captureActor(captured *pkgAuth.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthAllowsAnonymousRequests(t *testing.T) {
	var actor pkgAuth.Actor
	handler := Auth(testJWT, stubAuthenticator{}, nil)(captureActor(&actor))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if actor.Authenticated() {
		t.Fatalf("expected anonymous actor, got %+v", actor)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	var actor pkgAuth.Actor
	handler := Auth(testJWT, stubAuthenticator{}, nil)(captureActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   12,
		Username: "shopper",
		Role:     enums.RoleUser,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var actor pkgAuth.Actor
	handler := Auth(testJWT, stubAuthenticator{}, nil)(captureActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if actor.UserID != 12 || actor.Username != "shopper" || actor.Role != enums.RoleUser {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestAuthBasicCredentials(t *testing.T) {
	authn := stubAuthenticator{
		username: "admin",
		password: "pw",
		actor:    pkgAuth.Actor{UserID: 1, Username: "admin", Role: enums.RoleAdmin},
	}
	var actor pkgAuth.Actor
	handler := Auth(testJWT, authn, nil)(captureActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "pw")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !actor.IsAdmin() {
		t.Fatalf("expected admin actor, got code=%d actor=%+v", resp.Code, actor)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "wrong")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsUnknownScheme(t *testing.T) {
	var actor pkgAuth.Actor
	handler := Auth(testJWT, stubAuthenticator{}, nil)(captureActor(&actor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Digest abc")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), pkgAuth.Actor{UserID: 3, Role: enums.RoleUser}))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(nil, enums.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name  string
		actor pkgAuth.Actor
		want  int
	}{
		{"anonymous", pkgAuth.Actor{}, http.StatusUnauthorized},
		{"user", pkgAuth.Actor{UserID: 2, Role: enums.RoleUser}, http.StatusForbidden},
		{"admin", pkgAuth.Actor{UserID: 1, Role: enums.RoleAdmin}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithActor(req.Context(), tc.actor))
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d", tc.want, resp.Code)
			}
		})
	}
}
