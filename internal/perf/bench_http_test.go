package perf

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/dashboard"
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

var actors = []*access.Actor{
	{ID: "admin", Role: access.RoleAdministrator},
	{ID: "fleet", Role: access.RolePartner, HasOwnFleet: true},
	{ID: "shop", Role: access.RolePartner},
	{ID: "courier", Role: access.RoleDriver, PartnerSubtype: access.SubtypeCourier},
	{ID: "driver", Role: access.RoleDriver},
	{ID: "customer", Role: access.RoleCustomer},
}

func gatedHandler() http.Handler {
	table := actorTable{}
	for _, a := range actors {
		table[a.ID] = a
	}
	m := rbac.Middleware{Actors: table, Identity: headerIdentity{}, Logger: slog.New(slog.DiscardHandler)}
	return m.RequireAll(access.CapAssignDrivers, access.CapSetPricing)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestGateLatencyTargets(t *testing.T) {
	h := gatedHandler()
	samples := make([]time.Duration, 0, 600)
	for i := 0; i < 600; i++ {
		a := actors[i%len(actors)]
		req := httptest.NewRequest(http.MethodPost, "/api/orders/o-1/assign", nil)
		req.Header.Set("X-Test-Actor", a.ID)
		res := httptest.NewRecorder()

		start := time.Now()
		h.ServeHTTP(res, req)
		samples = append(samples, time.Since(start))

		want := http.StatusForbidden
		if a.ID == "admin" || a.ID == "fleet" {
			want = http.StatusNoContent
		}
		if res.Code != want {
			t.Fatalf("actor %s: got %d want %d", a.ID, res.Code, want)
		}
	}

	if p95 := percentile95(samples); p95 > 5*time.Millisecond {
		t.Fatalf("access gate latency regression: p95=%s", p95)
	}
}

func BenchmarkResolveAccess(b *testing.B) {
	opts := access.Options{
		AllowedRoles:         []access.Role{access.RoleAdministrator, access.RolePartner},
		RequiredCapabilities: []access.Capability{access.CapSetPricing, access.CapAssignDrivers},
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		access.ResolveAccess(actors[i%len(actors)], opts)
	}
}

func BenchmarkVisibleSections(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dashboard.VisibleSections(actors[i%len(actors)])
	}
}

func BenchmarkGate(b *testing.B) {
	h := gatedHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/o-1/assign", nil)
	req.Header.Set("X-Test-Actor", "fleet")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
