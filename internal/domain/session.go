package domain

import "time"

// Session is the resolved view of a verified session token, exposed to
// handlers and route gates. It is derived, never persisted.
type Session struct {
	UserID             string
	Role               Role
	Name               string
	Email              string
	IsOAuth            bool
	IsTwoFactorEnabled bool
	RememberMe         bool
	ExpiresAt          time.Time
}
