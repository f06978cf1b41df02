package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials covers missing users, bad passwords, and any
	// other sign-in failure that must stay indistinguishable to avoid
	// account enumeration.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrOAuthOnlyAccount is returned when a credentials sign-in targets an
	// account that only has linked social logins. Explicit because the user
	// needs to know which door to use.
	ErrOAuthOnlyAccount = errors.New("oauth_only_account")

	// ErrEmailNotVerified rejects sign-in until the email link is used; a
	// fresh verification token is issued as a side effect.
	ErrEmailNotVerified = errors.New("email_not_verified")

	ErrInvalidTwoFactorCode = errors.New("invalid_two_factor_code")
	ErrTwoFactorCodeExpired = errors.New("two_factor_code_expired")

	// ErrInvalidToken covers unparseable, unknown, or expired verification
	// and reset tokens.
	ErrInvalidToken = errors.New("invalid_token")
	ErrTokenExpired = errors.New("token_expired")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	ErrUserExists    = errors.New("user_exists")
	ErrEmailNotFound = errors.New("email_not_found")
)

// ProviderMismatchError rejects a sign-in through a different method than the
// one first used to create the account.
type ProviderMismatchError struct {
	Provider string // the provider the account is bound to
}

func (e *ProviderMismatchError) Error() string {
	return fmt.Sprintf("This account can only be accessed with %s login", titleProvider(e.Provider))
}

func titleProvider(p string) string {
	switch strings.ToLower(p) {
	case "github":
		return "GitHub"
	case "google":
		return "Google"
	case "credentials":
		return "Credentials"
	default:
		if p == "" {
			return p
		}
		return strings.ToUpper(p[:1]) + p[1:]
	}
}
