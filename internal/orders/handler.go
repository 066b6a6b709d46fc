package orders

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/platform/httpx"
	"github.com/courierdesk/courierdesk/internal/rbac"
	"github.com/courierdesk/courierdesk/internal/shared"
)

// Handler manages order HTTP endpoints.
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
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		rbac:      rbac,
	}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	// View routes
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(access.CapViewAllOrders, access.CapViewOwnOrders))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
	})

	r.With(h.rbac.RequireAll(access.CapCreateOrders)).Post("/", h.create)
	r.With(h.rbac.RequireAll(access.CapEditOrders)).Patch("/{id}", h.edit)
	r.With(h.rbac.RequireAll(access.CapCancelOrders)).Post("/{id}/cancel", h.cancel)
	r.With(h.rbac.RequireAll(access.CapAcceptOrders)).Post("/{id}/accept", h.accept)
	r.With(h.rbac.RequireAll(access.CapAcceptOrders)).Post("/{id}/deliver", h.deliver)
	r.With(h.rbac.RequireAll(access.CapAssignDrivers)).Post("/{id}/assign", h.assign)
	r.With(h.rbac.RequireAll(access.CapSetPricing)).Put("/{id}/price", h.price)
}

// ListResponse is the paginated order listing.
type ListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	orders, total, err := h.service.List(r.Context(), actorFrom(r), OrderStatus(q.Get("status")), limit, offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Orders: orders, Total: total, Limit: limit, Offset: offset})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, order, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.service.Create(r.Context(), actorFrom(r), req)
	h.respond(w, r, http.StatusCreated, order, err)
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.service.Edit(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req)
	h.respond(w, r, http.StatusOK, order, err)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Cancel(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, order, err)
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Accept(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, order, err)
}

func (h *Handler) deliver(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Deliver(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	h.respond(w, r, http.StatusOK, order, err)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.service.AssignDriver(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.DriverID)
	h.respond(w, r, http.StatusOK, order, err)
}

func (h *Handler) price(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.service.SetPrice(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.PriceCents)
	h.respond(w, r, http.StatusOK, order, err)
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	if err := h.validator.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s failed %s", httpx.ErrValidation, fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return nil
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, order *Order, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, status, order)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrForbidden) &&
		!errors.Is(err, shared.ErrConflict) && !errors.Is(err, shared.ErrInvalidInput) &&
		!errors.Is(err, httpx.ErrValidation) {
		h.logger.Error("order request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func actorFrom(r *http.Request) *access.Actor {
	return shared.ActorFromContext(r.Context())
}

// TrackingHandler serves public parcel tracking. It is mounted without any
// access gate.
type TrackingHandler struct {
	service *Service
}

// NewTrackingHandler creates a tracking handler.
func NewTrackingHandler(service *Service) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// MountRoutes registers tracking routes.
func (h *TrackingHandler) MountRoutes(r chi.Router) {
	r.Get("/{code}", h.track)
}

func (h *TrackingHandler) track(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Track(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}
