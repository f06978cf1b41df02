package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/mailx"
)

// recordingSender captures outgoing mail so tests can assert on codes and
// tokens without a relay.
type recordingSender struct {
	emails []mailx.Email
}

func (s *recordingSender) Send(_ context.Context, email mailx.Email) error {
	s.emails = append(s.emails, email)
	return nil
}

func newLoginService(t *testing.T, st store.Store, clk *clock) (*LoginService, *recordingSender) {
	t.Helper()

	mailer := &recordingSender{}
	sessions := &SessionService{Store: st, Signer: newTestSigner(t), Now: clk.Now}
	verification := &VerificationService{Store: st, Mailer: mailer, Now: clk.Now}

	return &LoginService{
		Store:        st,
		Sessions:     sessions,
		Verification: verification,
		Mailer:       mailer,
		Now:          clk.Now,
	}, mailer
}

func TestLoginCheckOrder(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	clk := newClock()
	svc, mailer := newLoginService(t, st, clk)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("oauth-only account reports linkage before password check", func(t *testing.T) {
		seedUser(t, st, "social@example.com", seedOpts{verified: true, providers: []string{domain.ProviderGoogle}})

		_, err := svc.Login(ctx, LoginRequest{Email: "social@example.com", Password: "whatever"})
		require.ErrorIs(t, err, ErrOAuthOnlyAccount)

		// Same outcome regardless of the password submitted.
		_, err = svc.Login(ctx, LoginRequest{Email: "social@example.com", Password: "another-guess"})
		require.ErrorIs(t, err, ErrOAuthOnlyAccount)
	})

	t.Run("wrong password", func(t *testing.T) {
		seedUser(t, st, "alice@example.com", seedOpts{password: "correct-horse", verified: true})

		_, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unverified email wins over correct password and issues a token", func(t *testing.T) {
		seedUser(t, st, "new@example.com", seedOpts{password: "correct-horse"})
		before := len(mailer.emails)

		_, err := svc.Login(ctx, LoginRequest{Email: "new@example.com", Password: "correct-horse"})
		require.ErrorIs(t, err, ErrEmailNotVerified)
		require.Len(t, mailer.emails, before+1)
		require.Equal(t, "new@example.com", mailer.emails[before].To)

		// Repeating the attempt supersedes rather than stacks tokens.
		_, err = svc.Login(ctx, LoginRequest{Email: "new@example.com", Password: "correct-horse"})
		require.ErrorIs(t, err, ErrEmailNotVerified)
		require.Len(t, mailer.emails, before+2)
	})

	t.Run("verified user without 2FA gets a session", func(t *testing.T) {
		user := seedUser(t, st, "bob@example.com", seedOpts{password: "correct-horse", verified: true})

		result, err := svc.Login(ctx, LoginRequest{Email: "bob@example.com", Password: "correct-horse", RememberMe: true})
		require.NoError(t, err)
		require.False(t, result.TwoFactor)
		require.NotEmpty(t, result.Token)
		require.Equal(t, user.ID, result.Session.UserID)
		require.True(t, result.Session.RememberMe)
	})
}

func TestLoginTwoFactorFlow(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	clk := newClock()
	svc, mailer := newLoginService(t, st, clk)

	user := seedUser(t, st, "tfa@example.com", seedOpts{password: "correct-horse", verified: true, twoFactor: true})

	t.Run("first attempt prompts for a code", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse"})
		require.NoError(t, err)
		require.True(t, result.TwoFactor)
		require.Empty(t, result.Token)

		token, err := st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		require.Len(t, token.Code, 6)
		require.Len(t, mailer.emails, 1)
	})

	t.Run("second prompt supersedes the first code", func(t *testing.T) {
		first, err := st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.NoError(t, err)

		result, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse"})
		require.NoError(t, err)
		require.True(t, result.TwoFactor)

		// The old code is gone with the row; only the new one is claimable.
		second, err := st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		if first.Code != second.Code {
			_, err = svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse", Code: first.Code})
			require.ErrorIs(t, err, ErrInvalidTwoFactorCode)
		}
	})

	t.Run("wrong code leaves the live token in place", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse"})
		require.NoError(t, err)
		require.True(t, result.TwoFactor)

		token, err := st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.NoError(t, err)

		wrong := "000000"
		if token.Code == wrong {
			wrong = "000001"
		}
		_, err = svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse", Code: wrong})
		require.ErrorIs(t, err, ErrInvalidTwoFactorCode)

		// Still claimable afterwards.
		_, err = st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.NoError(t, err)
	})

	t.Run("correct code signs in and consumes everything", func(t *testing.T) {
		token, err := st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.NoError(t, err)

		result, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse", Code: token.Code, RememberMe: true})
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)

		// Token row deleted.
		_, err = st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.ErrorIs(t, err, store.ErrNotFound)

		// Confirmation consumed by sign-in completion.
		pending, err := st.TwoFactorConfirmations().Exists(ctx, user.ID)
		require.NoError(t, err)
		require.False(t, pending)
	})

	t.Run("code cannot be replayed", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse"})
		require.NoError(t, err)
		require.True(t, result.TwoFactor)

		token, err := st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.NoError(t, err)

		_, err = svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse", Code: token.Code})
		require.NoError(t, err)

		_, err = svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse", Code: token.Code})
		require.ErrorIs(t, err, ErrInvalidTwoFactorCode)
	})

	t.Run("expired code is rejected and deleted", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse"})
		require.NoError(t, err)
		require.True(t, result.TwoFactor)

		token, err := st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.NoError(t, err)

		clk.Advance(TwoFactorCodeTTL + time.Minute)

		_, err = svc.Login(ctx, LoginRequest{Email: user.Email, Password: "correct-horse", Code: token.Code})
		require.ErrorIs(t, err, ErrTwoFactorCodeExpired)

		// The claim deleted the row as it reported expiry.
		_, err = st.TwoFactorTokens().GetByEmail(ctx, user.Email)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCheckProviderBinding(t *testing.T) {
	t.Parallel()

	withPassword := domain.User{PasswordHash: "x"}
	passwordless := domain.User{}
	googleLinked := []domain.Account{{Provider: domain.ProviderGoogle}}

	t.Run("no linked accounts allows any provider", func(t *testing.T) {
		require.NoError(t, checkProviderBinding(withPassword, nil, domain.ProviderCredentials))
		require.NoError(t, checkProviderBinding(passwordless, nil, domain.ProviderGitHub))
	})

	t.Run("matching provider allowed", func(t *testing.T) {
		require.NoError(t, checkProviderBinding(passwordless, googleLinked, domain.ProviderGoogle))
	})

	t.Run("mismatched provider names the bound one", func(t *testing.T) {
		err := checkProviderBinding(passwordless, googleLinked, domain.ProviderGitHub)

		var mismatch *ProviderMismatchError
		require.True(t, errors.As(err, &mismatch))
		require.Equal(t, domain.ProviderGoogle, mismatch.Provider)
		require.Contains(t, err.Error(), "Google")
	})

	t.Run("credentials pass alongside a linked provider only with a password", func(t *testing.T) {
		require.NoError(t, checkProviderBinding(withPassword, googleLinked, domain.ProviderCredentials))

		err := checkProviderBinding(passwordless, googleLinked, domain.ProviderCredentials)
		var mismatch *ProviderMismatchError
		require.True(t, errors.As(err, &mismatch))
	})

	t.Run("first linked provider is the binding one", func(t *testing.T) {
		linked := []domain.Account{
			{Provider: domain.ProviderGitHub},
			{Provider: domain.ProviderGoogle},
		}
		err := checkProviderBinding(passwordless, linked, domain.ProviderGoogle)

		var mismatch *ProviderMismatchError
		require.True(t, errors.As(err, &mismatch))
		require.Equal(t, domain.ProviderGitHub, mismatch.Provider)
	})
}

func TestLoginFailsClosedWithoutConfirmation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	clk := newClock()
	svc, _ := newLoginService(t, st, clk)

	user := seedUser(t, st, "strict@example.com", seedOpts{password: "correct-horse", verified: true, twoFactor: true})

	// Simulate completion being reached without a verified code: the
	// confirmation table is empty, so the sign-in must be denied.
	accounts, err := st.Accounts().ListAccountsByUserID(ctx, user.ID)
	require.NoError(t, err)

	err = svc.completeSignIn(ctx, user, accounts, domain.ProviderCredentials)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
