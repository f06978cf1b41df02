package provider

import (
	"context"
	"strconv"

	"github.com/stocklane/stocklane/internal/domain"

	"github.com/google/go-github/v74/github"
)

// GitHubVerifier validates a GitHub OAuth access token by fetching the
// authenticated user it belongs to.
type GitHubVerifier struct{}

func (v *GitHubVerifier) Name() string { return domain.ProviderGitHub }

func (v *GitHubVerifier) Verify(ctx context.Context, accessToken string) (Identity, error) {
	client := github.NewClient(nil).WithAuthToken(accessToken)

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return Identity{}, ErrInvalidProviderToken
	}
	if user.GetID() == 0 {
		return Identity{}, ErrInvalidProviderToken
	}

	email := user.GetEmail()
	if email == "" {
		// The public profile may hide the email; fall back to the primary
		// verified address.
		emails, _, err := client.Users.ListEmails(ctx, nil)
		if err != nil {
			return Identity{}, ErrInvalidProviderToken
		}
		for _, e := range emails {
			if e.GetPrimary() && e.GetVerified() {
				email = e.GetEmail()
				break
			}
		}
	}
	if email == "" {
		return Identity{}, ErrInvalidProviderToken
	}

	name := user.GetName()
	if name == "" {
		name = user.GetLogin()
	}

	return Identity{
		Provider:          domain.ProviderGitHub,
		ProviderAccountID: strconv.FormatInt(user.GetID(), 10),
		Email:             email,
		Name:              name,
	}, nil
}
