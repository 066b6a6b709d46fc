package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/platform/httpx"
	"github.com/courierdesk/courierdesk/internal/rbac"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// Handler serves the signed-in actor's dashboard profile.
type Handler struct {
	rbac rbac.Middleware
}

// NewHandler builds a Handler.
func NewHandler(rbac rbac.Middleware) *Handler {
	return &Handler{rbac: rbac}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Attach).Get("/me", h.me)
}

// Profile is the payload that drives client-side navigation.
type Profile struct {
	ID             string                `json:"id"`
	Role           access.Role           `json:"role"`
	Status         access.Status         `json:"status"`
	Classification access.Classification `json:"classification"`
	Description    string                `json:"description"`
	Capabilities   []access.Capability   `json:"capabilities"`
	Sections       []Section             `json:"sections"`
}

// ProfileFor assembles the profile for a signed-in actor.
func ProfileFor(actor *access.Actor) Profile {
	return Profile{
		ID:             actor.ID,
		Role:           actor.Role,
		Status:         actor.Status,
		Classification: access.Classify(actor),
		Description:    access.DescribeRole(actor),
		Capabilities:   access.Capabilities(actor),
		Sections:       VisibleSections(actor),
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, ProfileFor(actor))
}
