package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/cryptox"
	"github.com/stocklane/stocklane/pkg/idx"
	"github.com/stocklane/stocklane/pkg/mailx"
	"github.com/stocklane/stocklane/pkg/slogx"
)

// PasswordResetTokenTTL is the validity window for reset links.
const PasswordResetTokenTTL = time.Hour

// ResetService handles the forgot-password flow: request a reset link by
// email, then set a new password by presenting the raw token.
type ResetService struct {
	Store  store.Store
	Mailer mailx.Sender
	Now    func() time.Time
}

func (s *ResetService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RequestReset issues a reset token for the email and mails the link.
// Accounts without a password (OAuth-only) are rejected so the reset door
// cannot be used to attach a password to a social account.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmailNotFound
		}
		return err
	}
	if !user.HasPassword() {
		return ErrOAuthOnlyAccount
	}

	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	token := domain.PasswordResetToken{
		ID:        idx.New().String(),
		Email:     user.Email,
		TokenHash: cryptox.FingerprintToken(raw),
		ExpiresAt: s.now().Add(PasswordResetTokenTTL),
	}
	if err := s.Store.PasswordResetTokens().Upsert(ctx, token); err != nil {
		return err
	}

	if err := s.Mailer.Send(ctx, mailx.Email{
		To:      user.Email,
		Subject: "Reset your password",
		Body:    fmt.Sprintf("Use this token to reset your password: %s", raw),
	}); err != nil {
		slogx.FromContext(ctx).Error("failed to send reset email", "err", err)
	}

	return nil
}

// CompleteReset consumes a raw reset token and sets the new password.
func (s *ResetService) CompleteReset(ctx context.Context, rawToken, newPassword string) error {
	hash := cryptox.FingerprintToken(rawToken)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		token, err := tx.PasswordResetTokens().Claim(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		if s.now().After(token.ExpiresAt) {
			return ErrTokenExpired
		}

		user, err := tx.Users().GetUserByEmail(ctx, token.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		newHash, err := cryptox.HashPassword(newPassword)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
			return err
		}

		slogx.FromContext(ctx).Info("password reset completed", "user_id", user.ID)
		return nil
	})
}
