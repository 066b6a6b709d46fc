package auth

import (
	"net/http"

	"github.com/courierdesk/courierdesk/internal/shared"
)

// Identifier finds the actor ID behind a request.
type Identifier struct {
	Tokens *TokenVerifier
}

// Identify returns the actor ID carried by the request. A bearer token takes
// precedence over the cookie session. It returns "" with a nil error for
// anonymous requests, and an error only for a bearer token that fails
// verification.
func (i Identifier) Identify(r *http.Request) (string, error) {
	if raw := BearerToken(r); raw != "" {
		if i.Tokens == nil {
			return "", shared.ErrInvalidToken
		}
		return i.Tokens.Verify(raw)
	}
	return shared.SessionFromContext(r.Context()).ActorID(), nil
}
