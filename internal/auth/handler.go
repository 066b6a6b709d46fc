package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/platform/httpx"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// ActorResolver loads the actor for an ID.
type ActorResolver interface {
	Resolve(ctx context.Context, id string) (*access.Actor, error)
}

// Handler exchanges bearer tokens for cookie sessions.
type Handler struct {
	logger   *slog.Logger
	tokens   *TokenVerifier
	actors   ActorResolver
	sessions *shared.SessionManager
	csrf     *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, tokens *TokenVerifier, actors ActorResolver, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, tokens: tokens, actors: actors, sessions: sessions, csrf: csrf}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/session", h.createSession)
	r.Delete("/session", h.destroySession)
	r.Get("/csrf", h.csrfToken)
}

type sessionResponse struct {
	ActorID     string      `json:"actor_id"`
	Role        access.Role `json:"role"`
	Description string      `json:"description"`
	CSRFToken   string      `json:"csrf_token"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during sign in")
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	actorID, err := h.tokens.Verify(BearerToken(r))
	if err != nil {
		h.logger.Info("sign in rejected", slog.Any("error", err))
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	actor, err := h.actors.Resolve(r.Context(), actorID)
	if err != nil {
		h.logger.Warn("sign in profile lookup", slog.String("actor_id", actorID), slog.Any("error", err))
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	sess.SetActor(actor.ID)
	token, err := h.csrf.RotateToken(r.Context(), sess)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sessionResponse{
		ActorID:     actor.ID,
		Role:        actor.Role,
		Description: access.DescribeRole(actor),
		CSRFToken:   token,
	})
}

func (h *Handler) destroySession(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessions.Destroy(sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrf.EnsureToken(r.Context(), sess)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}
