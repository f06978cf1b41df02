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

// VerificationTokenTTL is the validity window for email-verification links.
const VerificationTokenTTL = time.Hour

// VerificationService issues email-verification tokens and confirms them.
// Only the SHA-256 fingerprint of a token is stored; the raw value travels in
// the emailed link and is never persisted.
type VerificationService struct {
	Store  store.Store
	Mailer mailx.Sender
	Now    func() time.Time
}

func (s *VerificationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// IssueToken creates a fresh verification token for the email, superseding
// any prior one, and mails the link. Returns the raw token for tests and for
// flows that embed it elsewhere.
func (s *VerificationService) IssueToken(ctx context.Context, email string) (string, error) {
	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	token := domain.VerificationToken{
		ID:        idx.New().String(),
		Email:     email,
		TokenHash: cryptox.FingerprintToken(raw),
		ExpiresAt: s.now().Add(VerificationTokenTTL),
	}

	if err := s.Store.VerificationTokens().Upsert(ctx, token); err != nil {
		return "", err
	}

	if err := s.Mailer.Send(ctx, mailx.Email{
		To:      email,
		Subject: "Verify your email",
		Body:    fmt.Sprintf("Use this token to verify your email address: %s", raw),
	}); err != nil {
		// The token row stays valid; a resend can be triggered by another
		// sign-in attempt.
		slogx.FromContext(ctx).Error("failed to send verification email", "err", err)
	}

	return raw, nil
}

// ConfirmEmail consumes a raw verification token and marks the matching user
// as verified.
func (s *VerificationService) ConfirmEmail(ctx context.Context, rawToken string) error {
	hash := cryptox.FingerprintToken(rawToken)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		token, err := tx.VerificationTokens().Claim(ctx, hash)
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

		return tx.Users().SetEmailVerified(ctx, user.ID)
	})
}
