package domain

import "time"

type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string // argon2id encoded, empty for OAuth-only accounts
	Role               Role
	EmailVerified      *time.Time // nil until the verification link is used
	IsTwoFactorEnabled bool
	TOTPSecret         *string // authenticator-app secret, nil unless enrolled
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasPassword reports whether the user can sign in with credentials at all.
func (u User) HasPassword() bool { return u.PasswordHash != "" }
