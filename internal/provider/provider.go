// Package provider verifies external identity tokens presented during OAuth
// sign-in. Each provider turns an opaque client-supplied token into a
// verified identity or an error; no provider state is kept server-side.
package provider

import (
	"context"
	"errors"
)

var ErrInvalidProviderToken = errors.New("provider: token verification failed")

// Identity is the verified external identity used for account linking.
type Identity struct {
	Provider          string // "google", "github"
	ProviderAccountID string
	Email             string
	Name              string
}

// Verifier validates a provider-issued token and returns the identity it
// proves.
type Verifier interface {
	Name() string
	Verify(ctx context.Context, token string) (Identity, error)
}
