package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/internal/store/drivers/sqlite"
	"github.com/stocklane/stocklane/pkg/cryptox"
	"github.com/stocklane/stocklane/pkg/idx"
	"github.com/stocklane/stocklane/pkg/jwtx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "stocklane-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestSigner(t *testing.T) *jwtx.Signer {
	t.Helper()

	signer, err := jwtx.NewSigner("0123456789abcdef0123456789abcdef", "stocklane-test")
	require.NoError(t, err)
	return signer
}

// clock is a mutable test clock injected as the Now func of services.
type clock struct{ now time.Time }

func newClock() *clock {
	return &clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type seedOpts struct {
	password   string
	verified   bool
	twoFactor  bool
	role       domain.Role
	providers  []string
	totpSecret string
}

// seedUser creates a user plus any linked accounts directly through the store.
func seedUser(t *testing.T, st store.Store, email string, opts seedOpts) domain.User {
	t.Helper()
	ctx := context.Background()

	role := opts.role
	if role == "" {
		role = domain.RoleViewer
	}

	user := domain.User{
		ID:                 idx.New().String(),
		Name:               "Test User",
		Email:              email,
		Role:               role,
		IsTwoFactorEnabled: opts.twoFactor,
	}
	if opts.password != "" {
		hash, err := cryptox.HashPassword(opts.password)
		require.NoError(t, err)
		user.PasswordHash = hash
	}
	if opts.verified {
		now := time.Now().UTC()
		user.EmailVerified = &now
	}
	if opts.totpSecret != "" {
		user.TOTPSecret = &opts.totpSecret
	}

	require.NoError(t, st.Users().CreateUser(ctx, user))

	for _, p := range opts.providers {
		require.NoError(t, st.Accounts().CreateAccount(ctx, domain.Account{
			ID:                idx.New().String(),
			UserID:            user.ID,
			Provider:          p,
			ProviderAccountID: p + "-" + user.ID,
		}))
	}

	return user
}
