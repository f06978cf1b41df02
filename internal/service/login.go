package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/cryptox"
	"github.com/stocklane/stocklane/pkg/idx"
	"github.com/stocklane/stocklane/pkg/mailx"
	"github.com/stocklane/stocklane/pkg/slogx"
)

const (
	// TwoFactorCodeTTL is the validity window for emailed one-time codes.
	TwoFactorCodeTTL = 10 * time.Minute

	twoFactorCodeDigits = 6
)

// LoginService runs the credential sign-in pipeline: verify credentials,
// pass the two-factor gate, enforce the provider binding rule, then hand off
// to the session manager. Each step short-circuits on first failure.
type LoginService struct {
	Store    store.Store
	Sessions *SessionService

	// Verification issues a fresh token when an unverified user presents
	// correct credentials.
	Verification *VerificationService

	Mailer mailx.Sender
	Now    func() time.Time
}

// LoginRequest is the sign-in input. Code is the optional 2FA code; empty
// means the user has not been prompted yet.
type LoginRequest struct {
	Email      string
	Password   string
	Code       string
	RememberMe bool
}

// LoginResult is the successful outcome of a sign-in attempt. TwoFactor set
// means no session was issued and the caller must prompt for a code.
type LoginResult struct {
	TwoFactor bool
	Token     string
	Session   domain.Session
}

func (s *LoginService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Login performs the full credential sign-in flow.
//
// Check order matters: existence, OAuth-only, hash compare, verification
// status. A non-verified user with a correct password gets the "verify your
// email" outcome, not a login and not a password error.
func (s *LoginService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	accounts, err := s.Store.Accounts().ListAccountsByUserID(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	if !user.HasPassword() {
		if len(accounts) > 0 {
			return LoginResult{}, ErrOAuthOnlyAccount
		}
		// No password and no linked account should not persist past
		// registration; treat as a plain failure either way.
		return LoginResult{}, ErrInvalidCredentials
	}

	if cryptox.VerifyPassword(req.Password, user.PasswordHash) != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if user.EmailVerified == nil {
		// Side effect before reporting: the user gets a fresh link to act on.
		if _, err := s.Verification.IssueToken(ctx, user.Email); err != nil {
			log.Error("failed to issue verification token", "err", err)
		}
		return LoginResult{}, ErrEmailNotVerified
	}

	if user.IsTwoFactorEnabled {
		if req.Code == "" {
			if err := s.requestTwoFactorCode(ctx, user.Email); err != nil {
				return LoginResult{}, err
			}
			return LoginResult{TwoFactor: true}, nil
		}

		if err := s.verifyTwoFactorCode(ctx, user, req.Code); err != nil {
			return LoginResult{}, err
		}
	}

	if err := s.completeSignIn(ctx, user, accounts, domain.ProviderCredentials); err != nil {
		return LoginResult{}, err
	}

	token, session, err := s.Sessions.Issue(ctx, user, len(accounts) > 0, req.RememberMe)
	if err != nil {
		return LoginResult{}, err
	}

	log.Info("user signed in", "user_id", user.ID)
	return LoginResult{Token: token, Session: session}, nil
}

// requestTwoFactorCode mints a one-time code, superseding any live code for
// the email, and mails it.
func (s *LoginService) requestTwoFactorCode(ctx context.Context, email string) error {
	code, err := cryptox.GenerateNumericCode(twoFactorCodeDigits)
	if err != nil {
		return err
	}

	token := domain.TwoFactorToken{
		ID:        idx.New().String(),
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(TwoFactorCodeTTL),
	}
	if err := s.Store.TwoFactorTokens().Upsert(ctx, token); err != nil {
		return err
	}

	if err := s.Mailer.Send(ctx, mailx.Email{
		To:      email,
		Subject: "Your sign-in code",
		Body:    fmt.Sprintf("Your one-time sign-in code is %s. It expires in %s.", code, TwoFactorCodeTTL),
	}); err != nil {
		slogx.FromContext(ctx).Error("failed to send two-factor code email", "err", err)
	}

	return nil
}

// verifyTwoFactorCode consumes the submitted code and leaves a one-shot
// confirmation ticket for sign-in completion.
//
// An enrolled authenticator app is accepted in place of the emailed code.
// Emailed codes are claimed atomically: a mismatched code leaves the row in
// place, an expired one is deleted as it is reported.
func (s *LoginService) verifyTwoFactorCode(ctx context.Context, user domain.User, code string) error {
	verified := false

	if user.TOTPSecret != nil && *user.TOTPSecret != "" && totp.Validate(code, *user.TOTPSecret) {
		verified = true
	}

	if !verified {
		token, err := s.Store.TwoFactorTokens().Claim(ctx, user.Email, code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidTwoFactorCode
			}
			return err
		}
		if token.Expired(s.now()) {
			return ErrTwoFactorCodeExpired
		}
	}

	return s.Store.TwoFactorConfirmations().Replace(ctx, domain.TwoFactorConfirmation{
		ID:     idx.New().String(),
		UserID: user.ID,
	})
}

// completeSignIn is the final gate before token issuance, shared by the
// credential and OAuth paths: it enforces the provider binding rule and, for
// 2FA-enabled users signing in with credentials, consumes the confirmation
// ticket. Fail closed: a missing ticket denies the sign-in.
func (s *LoginService) completeSignIn(ctx context.Context, user domain.User, accounts []domain.Account, attemptedProvider string) error {
	if err := checkProviderBinding(user, accounts, attemptedProvider); err != nil {
		return err
	}

	if attemptedProvider == domain.ProviderCredentials && user.IsTwoFactorEnabled {
		if err := s.Store.TwoFactorConfirmations().Consume(ctx, user.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}
	}

	return nil
}

// checkProviderBinding ties an account to the provider first used to create
// it. Credentials remain usable alongside a linked provider only when a
// password actually exists.
func checkProviderBinding(user domain.User, accounts []domain.Account, attemptedProvider string) error {
	if len(accounts) == 0 {
		return nil
	}

	bound := accounts[0].Provider
	if attemptedProvider == bound {
		return nil
	}
	if attemptedProvider == domain.ProviderCredentials && user.HasPassword() {
		return nil
	}

	return &ProviderMismatchError{Provider: bound}
}
