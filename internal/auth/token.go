package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/courierdesk/courierdesk/internal/shared"
)

// TokenConfig defines how bearer tokens from the hosted auth provider are verified.
type TokenConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	Now      func() time.Time
}

// TokenVerifier validates HS256 access tokens and extracts the actor ID.
type TokenVerifier struct {
	cfg TokenConfig
}

// NewTokenVerifier constructs a verifier. The secret is required.
func NewTokenVerifier(cfg TokenConfig) (*TokenVerifier, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: token secret is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenVerifier{cfg: cfg}, nil
}

// Verify checks signature, expiry and the configured issuer/audience and
// returns the token subject.
func (v *TokenVerifier) Verify(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty token", shared.ErrInvalidToken)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.cfg.Now),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", fmt.Errorf("%w: sub is required", shared.ErrInvalidToken)
	}
	return subject, nil
}

// BearerToken extracts the token from an Authorization header, or "".
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
