package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session lifetime constants. The ceiling a session may extend to on each
// sliding refresh depends on the user's remember-me choice.
const (
	// SessionTTL is the session lifetime for sign-ins without remember-me.
	SessionTTL = 24 * time.Hour

	// RememberSessionTTL is the session lifetime with remember-me.
	RememberSessionTTL = 7 * 24 * time.Hour

	// RefreshAfter is the minimum token age before a verification rewrites
	// iat/exp. Tokens younger than this are left untouched so the cookie is
	// not reissued on every request.
	RefreshAfter = 24 * time.Hour
)

// SessionClaims are the signed session-token claims. Everything downstream
// trusts only what crosses this boundary, so identity and role both live here
// and are re-fetched from the user row on every refresh cycle.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Role is the user's role name (ADMIN, PRODUCT_MANAGER, SALES_MANAGER, VIEWER).
	Role string `json:"role,omitempty"`

	// Name is the display name for the user.
	Name string `json:"name,omitempty"`

	// Email is the user's email address.
	Email string `json:"email,omitempty"`

	// IsOAuth reports whether the user has at least one linked external account.
	IsOAuth bool `json:"isOAuth"`

	// IsTwoFactorEnabled mirrors the user's 2FA setting.
	IsTwoFactorEnabled bool `json:"isTwoFactorEnabled"`

	// RememberMe records the flag chosen at issuance so later refreshes know
	// the correct ceiling. Absent means true for tokens minted before the
	// flag existed.
	RememberMe *bool `json:"rememberMe,omitempty"`
}

// Remember resolves the remember-me flag, defaulting to true when absent.
func (c *SessionClaims) Remember() bool {
	if c.RememberMe == nil {
		return true
	}
	return *c.RememberMe
}

// TTL returns the session lifetime for the given remember-me choice.
func TTL(rememberMe bool) time.Duration {
	if rememberMe {
		return RememberSessionTTL
	}
	return SessionTTL
}

// NewSessionClaims builds claims for a fresh sign-in at the given time.
func NewSessionClaims(
	subject, role, name, email string,
	isOAuth, isTwoFactorEnabled, rememberMe bool,
	issuer string,
	now time.Time,
) SessionClaims {
	remember := rememberMe
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL(rememberMe))),
		},
		Role:               role,
		Name:               name,
		Email:              email,
		IsOAuth:            isOAuth,
		IsTwoFactorEnabled: isTwoFactorEnabled,
		RememberMe:         &remember,
	}
}

// ValidateExpiry ensures the token hasn't expired at the given instant.
func (c *SessionClaims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
