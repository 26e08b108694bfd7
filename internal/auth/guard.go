package auth

import (
	"strings"

	"hrdocs/internal/apperr"
	"hrdocs/internal/model"
)

const bearerPrefix = "Bearer "

// CredentialHeaders are consulted in order. Some proxies move the original
// Authorization header to X-Forwarded-Authorization.
var CredentialHeaders = []string{"Authorization", "X-Forwarded-Authorization"}

var (
	ErrTokenRequired = apperr.Authentication("TOKEN_REQUIRED", "token required")
	ErrTokenFormat   = apperr.Authentication("TOKEN_FORMAT", "invalid token format")
	ErrForbidden     = apperr.Authorization("FORBIDDEN", "access not authorized")
)

// HeaderFunc returns the value of a request header; lookups are expected to be
// case-insensitive, as with net/http and fiber.
type HeaderFunc func(name string) string

// Guard authenticates requests against a TokenService.
type Guard struct {
	tokens *TokenService
}

func NewGuard(tokens *TokenService) *Guard {
	return &Guard{tokens: tokens}
}

// Authenticate extracts the bearer token and verifies it.
func (g *Guard) Authenticate(header HeaderFunc) (Identity, error) {
	raw := ""
	for _, name := range CredentialHeaders {
		if v := strings.TrimSpace(header(name)); v != "" {
			raw = v
			break
		}
	}
	if raw == "" {
		return Identity{}, ErrTokenRequired
	}
	if !strings.HasPrefix(raw, bearerPrefix) {
		return Identity{}, ErrTokenFormat
	}

	claims, err := g.tokens.Verify(strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix)))
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

// Authorize requires id.Role to be in allowed. An empty allow-list admits any
// authenticated identity.
func (g *Guard) Authorize(id Identity, allowed []model.Role) error {
	if len(allowed) == 0 {
		return nil
	}
	for _, r := range allowed {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbidden
}
