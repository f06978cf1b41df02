package service

import (
	"context"
	"errors"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/cryptox"
	"github.com/stocklane/stocklane/pkg/idx"
	"github.com/stocklane/stocklane/pkg/slogx"
)

// RegisterService creates credential accounts. New users start as VIEWER and
// must verify their email before the first sign-in.
type RegisterService struct {
	Store        store.Store
	Verification *VerificationService
}

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// Register creates the user and issues a verification token. Existing users
// are rejected with the distinction the caller needs: social-linked accounts
// point to the OAuth door, unverified ones to the verification mail.
func (s *RegisterService) Register(ctx context.Context, req RegisterRequest) error {
	existing, err := s.Store.Users().GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		accounts, listErr := s.Store.Accounts().ListAccountsByUserID(ctx, existing.ID)
		if listErr != nil {
			return listErr
		}
		if len(accounts) > 0 {
			return ErrOAuthOnlyAccount
		}
		if existing.EmailVerified == nil {
			return ErrEmailNotVerified
		}
		return ErrUserExists
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleViewer,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrUserExists
		}
		return err
	}

	if _, err := s.Verification.IssueToken(ctx, user.Email); err != nil {
		slogx.FromContext(ctx).Error("failed to issue verification token", "err", err)
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return nil
}
