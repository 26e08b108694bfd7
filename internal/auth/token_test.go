package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdocs/internal/apperr"
	"hrdocs/internal/model"
)

func int64Ptr(v int64) *int64 { return &v }

func newTestService(secret string, now time.Time) *TokenService {
	s := NewTokenService(secret)
	s.now = func() time.Time { return now }
	return s
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t0 := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService("test-secret", t0)

	tests := []struct {
		name   string
		claims Claims
	}{
		{
			name:   "privileged without employee",
			claims: Claims{UserID: 1, Role: model.RoleAdmin, Name: "Ana"},
		},
		{
			name:   "employee with link",
			claims: Claims{UserID: 7, Role: model.RoleYardAssistant, Name: "Luis", EmployeeID: int64Ptr(42)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := svc.Issue(tt.claims, time.Hour)
			require.NoError(t, err)
			assert.Len(t, strings.Split(tok, "."), 3)

			svc.now = func() time.Time { return t0.Add(30 * time.Minute) }
			got, err := svc.Verify(tok)
			require.NoError(t, err)
			assert.Equal(t, tt.claims.UserID, got.UserID)
			assert.Equal(t, tt.claims.Role, got.Role)
			assert.Equal(t, tt.claims.Name, got.Name)
			assert.Equal(t, tt.claims.EmployeeID, got.EmployeeID)
			assert.Equal(t, t0.Add(time.Hour).Unix(), got.ExpiresAt.Unix())

			svc.now = func() time.Time { return t0.Add(2 * time.Hour) }
			_, err = svc.Verify(tok)
			assert.ErrorIs(t, err, ErrTokenInvalid)

			svc.now = func() time.Time { return t0 }
		})
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	t0 := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestService("test-secret", t0)
	tok, err := svc.Issue(Claims{UserID: 1, Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)

	svc.now = func() time.Time { return t0.Add(time.Minute + 500*time.Millisecond) }
	_, err = svc.Verify(tok)
	assert.NoError(t, err, "the expiry second is still valid")

	svc.now = func() time.Time { return t0.Add(time.Minute + time.Second) }
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsFlippedSignatureBits(t *testing.T) {
	svc := newTestService("test-secret", time.Now())
	tok, err := svc.Issue(Claims{UserID: 3, Role: model.RoleHR}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := 0; i < len(sig)*8; i++ {
		flipped := make([]byte, len(sig))
		copy(flipped, sig)
		flipped[i/8] ^= 1 << (i % 8)
		forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)

		_, err := svc.Verify(forged)
		assert.ErrorIs(t, err, ErrTokenInvalid, "bit %d", i)
	}
}

func TestVerifyRejectsFlippedEncodedCharacters(t *testing.T) {
	svc := newTestService("test-secret", time.Now())
	tok, err := svc.Issue(Claims{UserID: 3, Role: model.RoleHR}, time.Hour)
	require.NoError(t, err)

	sigStart := strings.LastIndex(tok, ".") + 1
	for i := sigStart; i < len(tok); i++ {
		b := []byte(tok)
		b[i] ^= 1
		_, err := svc.Verify(string(b))
		assert.Error(t, err, "char %d", i)
	}
}

func TestVerifyRejectsMalformedAndForeign(t *testing.T) {
	svc := newTestService("test-secret", time.Now())
	other := newTestService("other-secret", time.Now())

	foreign, err := other.Issue(Claims{UserID: 1, Role: model.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	badRole, err := svc.Issue(Claims{UserID: 1, Role: model.Role("superuser")}, time.Hour)
	require.NoError(t, err)

	noSubject, err := svc.Issue(Claims{Role: model.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":          "",
		"two segments":   "a.b",
		"four segments":  "a.b.c.d",
		"garbage":        "not-a-token",
		"foreign secret": foreign,
		"unknown role":   badRole,
		"no subject":     noSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(tok)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestMissingSecretFailsClosed(t *testing.T) {
	svc := NewTokenService("")
	assert.False(t, svc.Configured())

	_, err := svc.Issue(Claims{UserID: 1, Role: model.RoleAdmin}, time.Hour)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))

	signed, err := newTestService("some-secret", time.Now()).Issue(Claims{UserID: 1, Role: model.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrNotConfigured)

	// An unsigned token is never accepted either.
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"id":1,"rol":"admin","exp":9999999999}`))
	_, err = svc.Verify(header + "." + payload + ".")
	assert.Error(t, err)
}

func TestIssueRejectsNonPositiveTTL(t *testing.T) {
	svc := newTestService("test-secret", time.Now())
	_, err := svc.Issue(Claims{UserID: 1, Role: model.RoleAdmin}, 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestVerifyNormalizesLegacyRole(t *testing.T) {
	svc := newTestService("test-secret", time.Now())
	tok, err := svc.Issue(Claims{UserID: 5, Role: model.Role("RRHH")}, time.Hour)
	require.NoError(t, err)

	got, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, model.RoleHR, got.Role)
	assert.True(t, got.Identity().Privileged())
}
