package fleet

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/platform/httpx"
	"github.com/courierdesk/courierdesk/internal/rbac"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// Handler manages fleet directory endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	rbac      rbac.Middleware
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New(), rbac: rbac}
}

// MountRoutes registers fleet routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.RequireAny(access.CapManageAllDrivers, access.CapViewOwnDrivers, access.CapManageOwnDrivers)).
		Get("/drivers", h.listDrivers)
	r.With(h.rbac.RequireAny(access.CapManageAllDrivers, access.CapManageOwnDrivers)).
		Post("/drivers", h.addDriver)
	r.With(h.rbac.RequireAll(access.CapViewAllPartners)).Get("/partners", h.listPartners)
	r.With(h.rbac.RequireAll(access.CapViewPartnerProfile)).Get("/partner-profile", h.partnerProfile)
	r.With(h.rbac.RequireAll(access.CapViewCourierOptions)).Get("/courier-options", h.courierOptions)
}

func (h *Handler) listDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.service.ListDrivers(r.Context(), shared.ActorFromContext(r.Context()))
	if drivers == nil {
		drivers = []Driver{}
	}
	h.respond(w, r, http.StatusOK, map[string]any{"drivers": drivers}, err)
}

func (h *Handler) addDriver(w http.ResponseWriter, r *http.Request) {
	var req AddDriverRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			err = fmt.Errorf("%w: %s failed %s", httpx.ErrValidation, fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		httpx.RespondError(w, err)
		return
	}
	driver, err := h.service.AddDriver(r.Context(), shared.ActorFromContext(r.Context()), req)
	h.respond(w, r, http.StatusCreated, driver, err)
}

func (h *Handler) listPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.service.ListPartners(r.Context(), shared.ActorFromContext(r.Context()))
	if partners == nil {
		partners = []Partner{}
	}
	h.respond(w, r, http.StatusOK, map[string]any{"partners": partners}, err)
}

func (h *Handler) partnerProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.PartnerProfile(r.Context(), shared.ActorFromContext(r.Context()))
	h.respond(w, r, http.StatusOK, profile, err)
}

func (h *Handler) courierOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.CourierOptions(r.Context(), shared.ActorFromContext(r.Context()))
	if options == nil {
		options = []CourierOption{}
	}
	h.respond(w, r, http.StatusOK, map[string]any{"couriers": options}, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, body any, err error) {
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrForbidden) &&
			!errors.Is(err, shared.ErrConflict) && !errors.Is(err, shared.ErrInvalidInput) {
			h.logger.Error("fleet request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, status, body)
}
