package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSigner(t *testing.T) *Signer {
	t.Helper()

	s, err := NewSigner(testSecret, "stocklane-test")
	require.NoError(t, err)
	return s
}

func TestNewSigner_WeakSecret(t *testing.T) {
	_, err := NewSigner("too-short", "stocklane-test")
	require.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewSigner("", "stocklane-test")
	require.ErrorIs(t, err, ErrWeakSecret)
}

func TestSignParseRoundTrip(t *testing.T) {
	s := newTestSigner(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	claims := NewSessionClaims("user-1", "SALES_MANAGER", "Alice", "alice@example.com",
		false, true, true, s.Issuer(), now)

	raw, err := s.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	parsed, err := s.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, parsed.Subject)
	require.Equal(t, claims.Role, parsed.Role)
	require.Equal(t, claims.Email, parsed.Email)
	require.True(t, parsed.IsTwoFactorEnabled)
	require.True(t, parsed.Remember())
	require.Equal(t, claims.IssuedAt.Unix(), parsed.IssuedAt.Unix())
	require.Equal(t, claims.ExpiresAt.Unix(), parsed.ExpiresAt.Unix())
}

func TestSignIsDeterministic(t *testing.T) {
	// HS256 over identical claims yields an identical compact token, which
	// lets the session layer hand back the same cookie unchanged.
	s := newTestSigner(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	claims := NewSessionClaims("user-1", "VIEWER", "", "", false, false, true,
		s.Issuer(), now)

	a, err := s.Sign(claims)
	require.NoError(t, err)
	b, err := s.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestParseRejectsBadTokens(t *testing.T) {
	s := newTestSigner(t)
	now := time.Now().UTC()

	claims := NewSessionClaims("user-1", "VIEWER", "", "", false, false, true,
		s.Issuer(), now)
	raw, err := s.Sign(claims)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Parse("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		_, err := s.Parse(raw[:len(raw)-2] + "xx")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewSigner("ffffffffffffffffffffffffffffffff", "stocklane-test")
		require.NoError(t, err)

		_, err = other.Parse(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewSigner(testSecret, "someone-else")
		require.NoError(t, err)

		_, err = other.Parse(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
		signed, err := tok.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = s.Parse(signed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestParseAllowsExpiredTokens(t *testing.T) {
	// Expiry is the session manager's call, not the parser's. A stale but
	// genuine token must still surface its claims.
	s := newTestSigner(t)
	past := time.Now().UTC().Add(-30 * 24 * time.Hour)

	claims := NewSessionClaims("user-1", "VIEWER", "", "", false, false, false,
		s.Issuer(), past)
	raw, err := s.Sign(claims)
	require.NoError(t, err)

	parsed, err := s.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", parsed.Subject)
	require.ErrorIs(t, parsed.ValidateExpiry(time.Now().UTC()), ErrExpired)
}
