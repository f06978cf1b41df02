package service

import (
	"context"
	"errors"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/cryptox"
	"github.com/stocklane/stocklane/pkg/idx"
	"github.com/stocklane/stocklane/pkg/slogx"
)

// UserService covers self-service profile changes and the admin user panel.
type UserService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// List returns all users, newest first. Admin only; the route gate enforces
// that before this is reached.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Create provisions a user from the admin panel. The email is considered
// verified at creation since an admin vouched for it.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (domain.User, error) {
	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:            idx.New().String(),
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		Role:          req.Role,
		EmailVerified: &now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// UpdateRole changes a user's role. The new role takes effect on the target's
// next session refresh, when claims are re-read from the database.
func (s *UserService) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.Store.Users().UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("user role updated", "user_id", userID, "role", role)
	return nil
}

// Delete removes a user; linked accounts and pending confirmations go with
// it via cascade.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("user deleted", "user_id", userID)
	return nil
}

// UpdateName changes the caller's display name. The change shows up in the
// session on the next refresh.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) error {
	return s.Store.Users().UpdateName(ctx, userID, name)
}

// ChangePassword verifies the current password before setting the new one.
// OAuth-only accounts have no password to change.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	if !user.HasPassword() {
		return ErrOAuthOnlyAccount
	}
	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", userID)
	return nil
}
