package shared

import (
	"context"

	"github.com/courierdesk/courierdesk/internal/access"
)

type sessionContextKey struct{}

type actorContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithActor stores the actor resolved for the current request.
func ContextWithActor(ctx context.Context, actor *access.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the request's actor, or nil when the request is anonymous.
func ActorFromContext(ctx context.Context) *access.Actor {
	actor, _ := ctx.Value(actorContextKey{}).(*access.Actor)
	return actor
}
