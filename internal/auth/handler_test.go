package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/actors"
	"github.com/courierdesk/courierdesk/internal/auth"
	"github.com/courierdesk/courierdesk/internal/shared"
	_ "github.com/courierdesk/courierdesk/testing"
)

var testSecret = []byte("token-secret")

type stubActors map[string]*access.Actor

func (s stubActors) Resolve(ctx context.Context, id string) (*access.Actor, error) {
	if a, ok := s[id]; ok {
		return a, nil
	}
	return nil, actors.ErrNotFound
}

func signToken(t *testing.T, claims jwt.RegisteredClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "https://auth.courierdesk.test",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func newVerifier(t *testing.T) *auth.TokenVerifier {
	t.Helper()
	v, err := auth.NewTokenVerifier(auth.TokenConfig{
		Secret:   testSecret,
		Issuer:   "https://auth.courierdesk.test",
		Audience: "authenticated",
	})
	require.NoError(t, err)
	return v
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	v := newVerifier(t)
	sub, err := v.Verify(signToken(t, validClaims("actor-1"), jwt.SigningMethodHS256, testSecret))
	require.NoError(t, err)
	assert.Equal(t, "actor-1", sub)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	v := newVerifier(t)

	expired := validClaims("actor-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := validClaims("actor-1")
	noExpiry.ExpiresAt = nil

	wrongIssuer := validClaims("actor-1")
	wrongIssuer.Issuer = "https://elsewhere"

	wrongAudience := validClaims("actor-1")
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"wrong secret":   signToken(t, validClaims("actor-1"), jwt.SigningMethodHS256, []byte("other")),
		"expired":        signToken(t, expired, jwt.SigningMethodHS256, testSecret),
		"no expiry":      signToken(t, noExpiry, jwt.SigningMethodHS256, testSecret),
		"wrong issuer":   signToken(t, wrongIssuer, jwt.SigningMethodHS256, testSecret),
		"wrong audience": signToken(t, wrongAudience, jwt.SigningMethodHS256, testSecret),
		"no subject":     signToken(t, validClaims(""), jwt.SigningMethodHS256, testSecret),
		"wrong alg":      signToken(t, validClaims("actor-1"), jwt.SigningMethodHS512, testSecret),
	}
	for name, token := range cases {
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, shared.ErrInvalidToken, name)
	}
}

func TestNewTokenVerifierRequiresSecret(t *testing.T) {
	_, err := auth.NewTokenVerifier(auth.TokenConfig{})
	assert.Error(t, err)
}

func TestIdentifyPrefersBearerToken(t *testing.T) {
	id := auth.Identifier{Tokens: newVerifier(t)}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := id.Identify(req)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	sess := &shared.Session{}
	sess.SetActor("cookie-actor")
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	got, err = id.Identify(req)
	require.NoError(t, err)
	assert.Equal(t, "cookie-actor", got)

	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("token-actor"), jwt.SigningMethodHS256, testSecret))
	got, err = id.Identify(req)
	require.NoError(t, err)
	assert.Equal(t, "token-actor", got)

	req.Header.Set("Authorization", "Bearer junk")
	_, err = id.Identify(req)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func newHandler(t *testing.T) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	resolver := stubActors{"p-1": {ID: "p-1", Role: access.RolePartner, HasOwnFleet: true, Status: access.StatusActive}}
	return auth.NewHandler(nil, newVerifier(t), resolver, sessions, shared.NewCSRFManager("csrf")), sessions
}

func serve(t *testing.T, h *auth.Handler, sessions *shared.SessionManager, req *http.Request) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	sess, err := sessions.Load(req.Context(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	router := chiRouter(h)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.NoError(t, sessions.Commit(req.Context(), res, sess))
	return res, sess
}

func chiRouter(h *auth.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/auth", h.MountRoutes)
	return r
}

func TestCreateSessionBindsActor(t *testing.T) {
	h, sessions := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("p-1"), jwt.SigningMethodHS256, testSecret))
	res, sess := serve(t, h, sessions, req)

	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "p-1", sess.ActorID())

	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Fleet partner with delivery vehicles", body["description"])
	assert.NotEmpty(t, body["csrf_token"])
}

func TestCreateSessionRejectsUnknownProfile(t *testing.T) {
	h, sessions := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("ghost"), jwt.SigningMethodHS256, testSecret))
	res, sess := serve(t, h, sessions, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "", sess.ActorID())
}

func TestCreateSessionRejectsMissingToken(t *testing.T) {
	h, sessions := newHandler(t)
	res, _ := serve(t, h, sessions, httptest.NewRequest(http.MethodPost, "/auth/session", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestDestroySession(t *testing.T) {
	h, sessions := newHandler(t)
	res, _ := serve(t, h, sessions, httptest.NewRequest(http.MethodDelete, "/auth/session", nil))
	assert.Equal(t, http.StatusNoContent, res.Code)
}
