package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/pkg/cryptox"
)

func newRegisterService(t *testing.T, clk *clock) (*RegisterService, *recordingSender, *VerificationService) {
	t.Helper()

	st := newTestStore(t)
	mailer := &recordingSender{}
	verification := &VerificationService{Store: st, Mailer: mailer, Now: clk.Now}

	return &RegisterService{Store: st, Verification: verification}, mailer, verification
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	svc, mailer, verification := newRegisterService(t, clk)
	st := svc.Store

	t.Run("new user starts unverified as viewer", func(t *testing.T) {
		err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22-hunter22"})
		require.NoError(t, err)

		user, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, domain.RoleViewer, user.Role)
		require.Nil(t, user.EmailVerified)
		require.True(t, user.HasPassword())
		require.NoError(t, cryptox.VerifyPassword("hunter22-hunter22", user.PasswordHash))

		require.Len(t, mailer.emails, 1)
		require.Equal(t, "alice@example.com", mailer.emails[0].To)
	})

	t.Run("duplicate unverified email points to verification", func(t *testing.T) {
		err := svc.Register(ctx, RegisterRequest{Name: "Alice2", Email: "alice@example.com", Password: "other-password"})
		require.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("duplicate verified email is a plain conflict", func(t *testing.T) {
		user, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NoError(t, st.Users().SetEmailVerified(ctx, user.ID))

		err = svc.Register(ctx, RegisterRequest{Name: "Alice3", Email: "alice@example.com", Password: "other-password"})
		require.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("social-linked email points to the provider", func(t *testing.T) {
		seedUser(t, st, "linked@example.com", seedOpts{verified: true, providers: []string{domain.ProviderGitHub}})

		err := svc.Register(ctx, RegisterRequest{Name: "Linked", Email: "linked@example.com", Password: "hunter22-hunter22"})
		require.ErrorIs(t, err, ErrOAuthOnlyAccount)
	})

	t.Run("mailed token verifies the email", func(t *testing.T) {
		require.NoError(t, svc.Register(ctx, RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "hunter22-hunter22"}))

		body := mailer.emails[len(mailer.emails)-1].Body
		raw := body[strings.LastIndex(body, " ")+1:]

		require.NoError(t, verification.ConfirmEmail(ctx, raw))

		user, err := st.Users().GetUserByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		require.NotNil(t, user.EmailVerified)

		// Single use.
		require.ErrorIs(t, verification.ConfirmEmail(ctx, raw), ErrInvalidToken)
	})
}
