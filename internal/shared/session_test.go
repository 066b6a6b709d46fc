package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdesk/courierdesk/internal/access"
)

func newTestSessionManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "cd_session", "secret", time.Hour, false), mr
}

func TestSessionRoundTrip(t *testing.T) {
	sm, mr := newTestSessionManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "", sess.ActorID())

	sess.SetActor("actor-1")
	res := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, res, sess))
	assert.True(t, mr.Exists("session:"+sess.ID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range res.Result().Cookies() {
		req.AddCookie(c)
	}
	loaded, err := sm.Load(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "actor-1", loaded.ActorID())
}

func TestAnonymousSessionIsNotPersisted(t *testing.T) {
	sm, mr := newTestSessionManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	res := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, res, sess))
	assert.False(t, mr.Exists("session:"+sess.ID))
	assert.Empty(t, res.Result().Cookies())
}

func TestUnknownSessionCookieGetsFreshID(t *testing.T) {
	sm, _ := newTestSessionManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: "forged"})

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "forged", sess.ID)
	assert.Equal(t, "", sess.ActorID())
}

func TestDestroyRemovesSession(t *testing.T) {
	sm, mr := newTestSessionManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetActor("actor-2")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))

	sm.Destroy(sess)
	res := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, res, sess))
	assert.False(t, mr.Exists("session:"+sess.ID))
	cookies := res.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCSRFTokenBoundToSession(t *testing.T) {
	sm, _ := newTestSessionManager(t)
	csrf := NewCSRFManager("csrf")
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	token, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	again, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, csrf.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, "nope"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, nil, token), ErrCSRFTokenMissing)
}

func TestCSRFTokenFollowsActorBinding(t *testing.T) {
	sm, _ := newTestSessionManager(t)
	csrf := NewCSRFManager("csrf")
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	anonymous, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)

	sess.SetActor("p-1")
	assert.ErrorIs(t, csrf.VerifyToken(ctx, sess, anonymous), ErrCSRFTokenMismatch)

	bound, err := csrf.RotateToken(ctx, sess)
	require.NoError(t, err)
	assert.NotEqual(t, anonymous, bound)
	assert.NoError(t, csrf.VerifyToken(ctx, sess, bound))

	other := NewCSRFManager("other-secret")
	assert.ErrorIs(t, other.VerifyToken(ctx, sess, bound), ErrCSRFTokenMismatch)
}

func TestActorContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ActorFromContext(ctx))

	actor := &access.Actor{ID: "c-1", Role: access.RoleCustomer}
	assert.Same(t, actor, ActorFromContext(ContextWithActor(ctx, actor)))
}

func TestValidateAuditLog(t *testing.T) {
	assert.Error(t, ValidateAuditLog(AuditLog{Action: "access.denied"}))
	assert.NoError(t, ValidateAuditLog(AuditLog{Action: "access.denied", Entity: "route", EntityID: "/api/fleet/partners"}))
}
