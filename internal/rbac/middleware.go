package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/platform/httpx"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// ActorResolver loads the actor for an ID.
type ActorResolver interface {
	Resolve(ctx context.Context, id string) (*access.Actor, error)
}

// Identifier finds the actor ID behind a request; "" means anonymous.
type Identifier interface {
	Identify(r *http.Request) (string, error)
}

// DecisionObserver counts access decisions.
type DecisionObserver interface {
	ObserveAccess(reason string)
}

// Denial describes one refused request.
type Denial struct {
	ActorID string
	Role    access.Role
	Method  string
	Path    string
	Reason  access.Reason
	At      time.Time
}

// AuditSink receives denials for asynchronous recording.
type AuditSink interface {
	RecordDenial(ctx context.Context, d Denial) error
}

// Middleware wires access gating for HTTP handlers.
type Middleware struct {
	Actors   ActorResolver
	Identity Identifier
	Logger   *slog.Logger
	Metrics  DecisionObserver
	Audit    AuditSink
}

// Require serves the request only when access.ResolveAccess holds for the
// request's actor. Otherwise it answers 403.
func (m Middleware) Require(opts access.Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := m.CurrentActor(r)
			decision := access.Explain(actor, opts)
			if m.Metrics != nil {
				m.Metrics.ObserveAccess(string(decision.Reason))
			}
			if !decision.Granted {
				m.deny(r, actor, decision.Reason)
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
		})
	}
}

// RequireAny ensures the actor holds at least one of the capabilities.
func (m Middleware) RequireAny(caps ...access.Capability) func(http.Handler) http.Handler {
	return m.Require(access.Options{RequiredCapabilities: caps})
}

// RequireAll ensures the actor holds every capability.
func (m Middleware) RequireAll(caps ...access.Capability) func(http.Handler) http.Handler {
	return m.Require(access.Options{RequiredCapabilities: caps, RequireAll: true})
}

// RequireRoles ensures the actor holds one of the roles.
func (m Middleware) RequireRoles(roles ...access.Role) func(http.Handler) http.Handler {
	return m.Require(access.Options{AllowedRoles: roles})
}

// Attach stores the actor, if any, in the request context without gating.
func (m Middleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := m.CurrentActor(r); actor != nil {
			r = r.WithContext(shared.ContextWithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentActor resolves the request's actor. Identification and lookup
// failures are logged and yield nil, the same as an anonymous request.
func (m Middleware) CurrentActor(r *http.Request) *access.Actor {
	if actor := shared.ActorFromContext(r.Context()); actor != nil {
		return actor
	}
	if m.Identity == nil || m.Actors == nil {
		return nil
	}
	id, err := m.Identity.Identify(r)
	if err != nil {
		m.logger().Info("rbac identify", slog.String("path", r.URL.Path), slog.Any("error", err))
		return nil
	}
	if id == "" {
		return nil
	}
	actor, err := m.Actors.Resolve(r.Context(), id)
	if err != nil {
		m.logger().Warn("rbac resolve actor", slog.String("actor_id", id), slog.Any("error", err))
		return nil
	}
	return actor
}

func (m Middleware) deny(r *http.Request, actor *access.Actor, reason access.Reason) {
	d := Denial{Method: r.Method, Path: r.URL.Path, Reason: reason, At: time.Now().UTC()}
	if actor != nil {
		d.ActorID = actor.ID
		d.Role = actor.Role
	}
	m.logger().Info("access denied",
		slog.String("actor_id", d.ActorID),
		slog.String("role", string(d.Role)),
		slog.String("path", d.Path),
		slog.String("reason", string(reason)),
	)
	if m.Audit == nil {
		return
	}
	if err := m.Audit.RecordDenial(r.Context(), d); err != nil {
		m.logger().Warn("rbac audit denial", slog.Any("error", err))
	}
}

func (m Middleware) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
