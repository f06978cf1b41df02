package domain

import "time"

// Provider names for linked external accounts. "credentials" is not a linked
// account; it identifies password sign-in when the binding rule runs.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
	ProviderGitHub      = "github"
)

// Account links a user to an external identity provider. Created on first
// successful OAuth sign-in, never mutated, deleted with the user.
type Account struct {
	ID                string
	UserID            string
	Provider          string
	ProviderAccountID string
	CreatedAt         time.Time
}
