// Package auth issues and verifies session tokens and turns inbound credentials
// into an authenticated Identity.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hrdocs/internal/apperr"
	"hrdocs/internal/model"
)

var (
	ErrNotConfigured = apperr.Configuration("AUTH_NOT_CONFIGURED",
		"session signing is not configured on the server",
		"set JWT_SECRET in the environment and restart the service")
	ErrInvalidTTL   = apperr.Internal("INVALID_TTL", "token ttl must be positive")
	ErrTokenInvalid = apperr.Authentication("TOKEN_INVALID", "invalid or expired token")
)

// Claims is the payload of a session token.
type Claims struct {
	UserID     int64      `json:"id"`
	Role       model.Role `json:"rol"`
	Name       string     `json:"name"`
	EmployeeID *int64     `json:"empleado_id"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens with a single secret
// fixed at construction. It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService returns a service bound to secret. An empty secret yields a
// service whose every operation fails with ErrNotConfigured.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Configured reports whether a signing secret is present.
func (s *TokenService) Configured() bool {
	return len(s.secret) > 0
}

// Issue signs claims with an expiry of now+ttl.
func (s *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("TOKEN_SIGN_FAILED", "could not sign session token").WithCause(err)
	}
	return signed, nil
}

// Verify checks the signature with a constant-time comparison and rejects
// expired tokens. The expiry second itself is still valid.
func (s *TokenService) Verify(token string) (*Claims, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Second),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid.WithCause(err)
	}

	role, ok := model.ParseRole(string(claims.Role))
	if !ok || claims.UserID <= 0 {
		return nil, ErrTokenInvalid
	}
	claims.Role = role
	return claims, nil
}
