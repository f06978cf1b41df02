package service

import (
	"context"
	"errors"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/provider"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/idx"
	"github.com/stocklane/stocklane/pkg/slogx"
)

// OAuthService signs users in with a verified external identity. The first
// successful provider becomes the account's binding provider.
type OAuthService struct {
	Store     store.Store
	Sessions  *SessionService
	Login     *LoginService
	Verifiers map[string]provider.Verifier
}

// ErrUnknownProvider rejects providers this deployment is not configured for.
var ErrUnknownProvider = errors.New("unknown_provider")

// SignIn verifies the provider token, applies the binding rule, creates the
// user and account link on first sight, and issues a session token.
// OAuth sign-ins always use the remember-me ceiling.
func (s *OAuthService) SignIn(ctx context.Context, providerName, providerToken string) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	verifier, ok := s.Verifiers[providerName]
	if !ok {
		return LoginResult{}, ErrUnknownProvider
	}

	identity, err := verifier.Verify(ctx, providerToken)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, created, err := s.findOrCreateUser(ctx, identity)
	if err != nil {
		return LoginResult{}, err
	}

	accounts, err := s.Store.Accounts().ListAccountsByUserID(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Login.completeSignIn(ctx, user, accounts, identity.Provider); err != nil {
		return LoginResult{}, err
	}

	// Link the account on first sign-in with this provider.
	if !hasProviderLink(accounts, identity) {
		if err := s.Store.Accounts().CreateAccount(ctx, domain.Account{
			ID:                idx.New().String(),
			UserID:            user.ID,
			Provider:          identity.Provider,
			ProviderAccountID: identity.ProviderAccountID,
		}); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return LoginResult{}, err
		}
	}

	token, session, err := s.Sessions.Issue(ctx, user, true, true)
	if err != nil {
		return LoginResult{}, err
	}

	log.Info("oauth sign-in", "user_id", user.ID, "provider", identity.Provider, "created", created)
	return LoginResult{Token: token, Session: session}, nil
}

func (s *OAuthService) findOrCreateUser(ctx context.Context, identity provider.Identity) (domain.User, bool, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, identity.Email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, false, err
	}

	// Provider-verified email counts as verified.
	now := time.Now().UTC()
	user = domain.User{
		ID:            idx.New().String(),
		Name:          identity.Name,
		Email:         identity.Email,
		Role:          domain.RoleViewer,
		EmailVerified: &now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a concurrent-registration race; use the winner's row.
			existing, getErr := s.Store.Users().GetUserByEmail(ctx, identity.Email)
			if getErr != nil {
				return domain.User{}, false, getErr
			}
			return existing, false, nil
		}
		return domain.User{}, false, err
	}

	return user, true, nil
}

func hasProviderLink(accounts []domain.Account, identity provider.Identity) bool {
	for _, a := range accounts {
		if a.Provider == identity.Provider && a.ProviderAccountID == identity.ProviderAccountID {
			return true
		}
	}
	return false
}
