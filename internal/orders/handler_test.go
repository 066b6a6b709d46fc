package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/rbac"
	"github.com/courierdesk/courierdesk/internal/shared"
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

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _ := newTestService()
	table := actorTable{}
	for _, a := range []*access.Actor{adminActor, fleetActor, businessActor, courierActor, driverActor, customerActor, otherCustomer} {
		table[a.ID] = a
	}
	m := rbac.Middleware{Actors: table, Identity: headerIdentity{}}

	r := chi.NewRouter()
	r.Route("/api/orders", NewHandler(nil, svc, m).MountRoutes)
	r.Route("/track", NewTrackingHandler(svc).MountRoutes)
	return r, svc
}

func do(t *testing.T, h http.Handler, method, path, actorID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if actorID != "" {
		req.Header.Set("X-Test-Actor", actorID)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerCreateAndList(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := do(t, h, http.MethodPost, "/api/orders/", "c-1", `{"pickup_address":"1 Depot Rd","dropoff_address":"9 Harbour St"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "c-1", created.CustomerID)

	rr = do(t, h, http.MethodGet, "/api/orders/", "c-1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	rr = do(t, h, http.MethodGet, "/api/orders/", "c-2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"orders":[],"total":0,"limit":50,"offset":0}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/orders/"+created.ID, "c-2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerGatesByCapability(t *testing.T) {
	h, _ := newTestRouter(t)

	cases := []struct {
		method, path, actor, body string
		want                      int
	}{
		{http.MethodGet, "/api/orders/", "", "", http.StatusForbidden},
		{http.MethodPost, "/api/orders/", "d-fleet", `{"pickup_address":"a","dropoff_address":"b"}`, http.StatusForbidden},
		{http.MethodPut, "/api/orders/x/price", "p-shop", `{"price_cents":100}`, http.StatusForbidden},
		{http.MethodPost, "/api/orders/x/assign", "d-courier", `{"driver_id":"d-fleet"}`, http.StatusForbidden},
		{http.MethodPost, "/api/orders/x/accept", "c-1", "", http.StatusForbidden},
		{http.MethodPost, "/api/orders/x/accept", "p-fleet", "", http.StatusNotFound},
		{http.MethodPost, "/api/orders/x/deliver", "c-1", "", http.StatusForbidden},
		{http.MethodPost, "/api/orders/x/deliver", "d-fleet", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := do(t, h, tc.method, tc.path, tc.actor, tc.body)
		assert.Equal(t, tc.want, rr.Code, "%s %s as %q", tc.method, tc.path, tc.actor)
	}
}

func TestHandlerValidatesPayloads(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := do(t, h, http.MethodPost, "/api/orders/", "c-1", `{"pickup_address":"","dropoff_address":"b"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	rr = do(t, h, http.MethodPost, "/api/orders/", "c-1", `{"pickup_address":"a","dropoff_address":"b","price":3}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerStatusConflict(t *testing.T) {
	h, svc := newTestRouter(t)
	o := mustCreate(t, svc, customerActor)

	rr := do(t, h, http.MethodPost, "/api/orders/"+o.ID+"/cancel", "c-1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/orders/"+o.ID+"/cancel", "c-1", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandlerDeliverCompletesOrder(t *testing.T) {
	h, svc := newTestRouter(t)
	o := mustCreate(t, svc, customerActor)

	for i := 0; i < 2; i++ {
		rr := do(t, h, http.MethodPost, "/api/orders/"+o.ID+"/accept", "d-courier", "")
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := do(t, h, http.MethodPost, "/api/orders/"+o.ID+"/deliver", "d-courier", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, StatusDelivered, got.Status)

	rr = do(t, h, http.MethodPost, "/api/orders/"+o.ID+"/deliver", "d-courier", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandlerTrackingIsPublic(t *testing.T) {
	h, svc := newTestRouter(t)
	o := mustCreate(t, svc, customerActor)

	rr := do(t, h, http.MethodGet, "/track/"+o.TrackingCode, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, o.TrackingCode, view["tracking_code"])
	assert.Equal(t, "pending", view["status"])
	assert.NotContains(t, view, "customer_id")
	assert.NotContains(t, view, "pickup_address")

	rr = do(t, h, http.MethodGet, "/track/CD-MISSING", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
