package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/catalog-backend/api/middleware"
	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: "debug", Output: io.Discard})
}

// newRequest builds a request carrying chi URL params and, when actor is
// authenticated, a caller identity.
func newRequest(t *testing.T, method, target, body string, params map[string]string, actor pkgAuth.Actor) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	if actor.Authenticated() {
		ctx = middleware.WithActor(ctx, actor)
	}
	return req.WithContext(ctx)
}
