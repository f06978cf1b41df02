package service

import (
	"context"
	"errors"

	"github.com/pquerna/otp/totp"

	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/slogx"
)

// TOTPIssuer is the issuer label shown in authenticator apps.
const TOTPIssuer = "Stocklane"

// TOTPService manages authenticator-app enrollment. An enrolled secret is
// accepted during sign-in in place of the emailed one-time code.
type TOTPService struct {
	Store store.Store
}

// TOTPEnrollment carries what the client needs to finish enrollment.
type TOTPEnrollment struct {
	Secret string
	URL    string // otpauth:// provisioning URI for QR rendering
}

// Enroll generates a fresh secret for the user and stores it unactivated.
// The 2FA flag stays off until Activate proves the app produces valid codes.
func (s *TOTPService) Enroll(ctx context.Context, userID string) (TOTPEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TOTPEnrollment{}, ErrUnauthenticated
		}
		return TOTPEnrollment{}, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return TOTPEnrollment{}, err
	}

	secret := key.Secret()
	if err := s.Store.Users().UpdateTOTPSecret(ctx, user.ID, &secret); err != nil {
		return TOTPEnrollment{}, err
	}

	return TOTPEnrollment{Secret: secret, URL: key.URL()}, nil
}

// Activate validates a code against the pending secret and turns 2FA on.
func (s *TOTPService) Activate(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	if user.TOTPSecret == nil || *user.TOTPSecret == "" {
		return ErrInvalidTwoFactorCode
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return ErrInvalidTwoFactorCode
	}

	if err := s.Store.Users().SetTwoFactorEnabled(ctx, user.ID, true); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("two-factor enabled", "user_id", user.ID)
	return nil
}

// Disable turns 2FA off and clears any enrolled secret.
func (s *TOTPService) Disable(ctx context.Context, userID string) error {
	if err := s.Store.Users().SetTwoFactorEnabled(ctx, userID, false); err != nil {
		return err
	}
	if err := s.Store.Users().UpdateTOTPSecret(ctx, userID, nil); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("two-factor disabled", "user_id", userID)
	return nil
}
