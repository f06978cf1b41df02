package provider

import (
	"context"
	"fmt"

	"github.com/stocklane/stocklane/internal/domain"

	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleVerifier validates Google ID tokens through the tokeninfo endpoint
// and enforces the configured OAuth client id as audience.
type GoogleVerifier struct {
	ClientID string
}

func (v *GoogleVerifier) Name() string { return domain.ProviderGoogle }

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	svc, err := oauth2.NewService(ctx, option.WithoutAuthentication())
	if err != nil {
		return Identity{}, fmt.Errorf("google tokeninfo service: %w", err)
	}

	call := svc.Tokeninfo()
	call.IdToken(idToken)
	info, err := call.Context(ctx).Do()
	if err != nil {
		return Identity{}, ErrInvalidProviderToken
	}

	if v.ClientID != "" && info.Audience != v.ClientID {
		return Identity{}, ErrInvalidProviderToken
	}
	if info.UserId == "" || info.Email == "" {
		return Identity{}, ErrInvalidProviderToken
	}

	return Identity{
		Provider:          domain.ProviderGoogle,
		ProviderAccountID: info.UserId,
		Email:             info.Email,
		Name:              info.Email, // tokeninfo carries no display name
	}, nil
}
