package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/dashboard"
	"github.com/courierdesk/courierdesk/internal/observability"
	"github.com/courierdesk/courierdesk/internal/orders"
	"github.com/courierdesk/courierdesk/internal/rbac"
	"github.com/courierdesk/courierdesk/internal/shared"
	"github.com/courierdesk/courierdesk/jobs"
)

type headerIdentity struct{}

func (headerIdentity) Identify(r *http.Request) (string, error) {
	return r.Header.Get("X-Test-Actor"), nil
}

type actorTable map[string]*access.Actor

func (a actorTable) Resolve(ctx context.Context, id string) (*access.Actor, error) {
	if actor, ok := a[id]; ok {
		return actor, nil
	}
	return nil, shared.ErrNotFound
}

type trackingRepo struct {
	orders.Repository
	order orders.Order
}

func (r trackingRepo) GetByTrackingCode(ctx context.Context, code string) (*orders.Order, error) {
	if code != r.order.TrackingCode {
		return nil, orders.ErrNotFound
	}
	o := r.order
	return &o, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	m := rbac.Middleware{
		Actors:   actorTable{"p-1": {ID: "p-1", Role: access.RolePartner, HasOwnFleet: true, Status: access.StatusActive}},
		Identity: headerIdentity{},
		Logger:   discardLogger,
	}
	repo := trackingRepo{order: orders.Order{ID: "o-1", TrackingCode: "CD-ABCD2345", Status: orders.StatusInTransit, UpdatedAt: time.Now()}}
	svc := orders.NewService(repo, nil, discardLogger)

	return NewRouter(RouterParams{
		Logger:             discardLogger,
		Config:             &Config{AppEnv: "test"},
		SessionManager:     newSessions(t),
		CSRFManager:        shared.NewCSRFManager("csrf"),
		DashboardHandler:   dashboard.NewHandler(m),
		TrackingHandler:    orders.NewTrackingHandler(svc),
		PermissionsHandler: rbac.NewPermissionsHandler(m),
		JobHandler:         jobs.NewHandler(nil, discardLogger),
		Metrics:            observability.NewMetrics(),
	})
}

func get(router http.Handler, path, actorID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if actorID != "" {
		req.Header.Set("X-Test-Actor", actorID)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestRouterHealthz(t *testing.T) {
	res := get(newTestRouter(t), "/healthz", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
}

func TestRouterDashboardRequiresActor(t *testing.T) {
	router := newTestRouter(t)

	res := get(router, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = get(router, "/api/me", "p-1")
	require.Equal(t, http.StatusOK, res.Code)
	var profile dashboard.Profile
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &profile))
	assert.Equal(t, access.RolePartner, profile.Role)
	assert.Contains(t, profile.Capabilities, access.CapSetPricing)
}

func TestRouterTrackingIsPublic(t *testing.T) {
	router := newTestRouter(t)

	res := get(router, "/track/cd-abcd2345", "")
	require.Equal(t, http.StatusOK, res.Code)
	var view orders.TrackingView
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &view))
	assert.Equal(t, orders.StatusInTransit, view.Status)

	assert.Equal(t, http.StatusNotFound, get(router, "/track/CD-NOPE0000", "").Code)
}

func TestRouterOperationalEndpoints(t *testing.T) {
	router := newTestRouter(t)

	res := get(router, "/jobs/health", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"queue":"audit"`)

	res = get(router, "/metrics", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "courierdesk_http_requests_total")
}
