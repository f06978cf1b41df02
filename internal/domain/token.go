package domain

import "time"

// TwoFactorToken is an emailed one-time login code. At most one live token
// exists per email; issuing a new one supersedes the old.
// Lifecycle: create, single verify-or-expire, delete.
type TwoFactorToken struct {
	ID        string
	Email     string
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the code is past its validity window.
func (t TwoFactorToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

// TwoFactorConfirmation is the one-shot ticket proving a 2FA code was
// verified for the current login attempt. Consumed by sign-in completion.
type TwoFactorConfirmation struct {
	ID     string
	UserID string
}

// VerificationToken backs the email-verification flow. Only the SHA-256
// fingerprint of the raw token is stored; rows are looked up by hash.
type VerificationToken struct {
	ID        string
	Email     string
	TokenHash string
	ExpiresAt time.Time
}

// PasswordResetToken works like VerificationToken but authorizes a password
// change instead of marking the email verified.
type PasswordResetToken struct {
	ID        string
	Email     string
	TokenHash string
	ExpiresAt time.Time
}
