package middleware

import (
	"context"

	pkgAuth "github.com/angelmondragon/catalog-backend/pkg/auth"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the caller identity resolved by Auth. Anonymous
// requests yield the zero Actor.
func ActorFromContext(ctx context.Context) pkgAuth.Actor {
	if ctx == nil {
		return pkgAuth.Actor{}
	}
	if v, ok := ctx.Value(ctxActor).(pkgAuth.Actor); ok {
		return v
	}
	return pkgAuth.Actor{}
}

// WithActor injects the caller identity into the context.
func WithActor(ctx context.Context, actor pkgAuth.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
