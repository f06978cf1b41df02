package store

import (
	"context"
	"errors"

	"github.com/stocklane/stocklane/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Accounts() Accounts
	TwoFactorTokens() TwoFactorTokens
	TwoFactorConfirmations() TwoFactorConfirmations
	VerificationTokens() VerificationTokens
	PasswordResetTokens() PasswordResetTokens
	Products() Products
	Stores() Stores
	Sales() Sales

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to pair a read-check with its corresponding write.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during sign-in and registration.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateName mutates the display name and bumps updated_at.
	UpdateName(ctx context.Context, userID, name string) error

	// UpdatePasswordHash sets the password_hash (argon2id) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// UpdateRole changes the user's role.
	UpdateRole(ctx context.Context, userID string, role domain.Role) error

	// SetEmailVerified stamps email_verified.
	SetEmailVerified(ctx context.Context, userID string) error

	// SetTwoFactorEnabled toggles the 2FA flag.
	SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error

	// UpdateTOTPSecret sets or clears (nil) the authenticator-app secret.
	UpdateTOTPSecret(ctx context.Context, userID string, secret *string) error

	// DeleteUser cascades to accounts and confirmations (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Accounts interface {
	// CreateAccount links a user to an external provider identity.
	CreateAccount(ctx context.Context, a domain.Account) error

	// ListAccountsByUserID returns the user's linked accounts ordered by
	// creation date (oldest first, so index 0 is the binding provider).
	ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)

	// GetAccountByProviderID looks up a link by (provider, providerAccountID).
	GetAccountByProviderID(ctx context.Context, provider, providerAccountID string) (domain.Account, error)
}

type TwoFactorTokens interface {
	// Upsert stores a fresh one-time code for the email, superseding any
	// previous unconsumed token so stale codes stop being accepted.
	Upsert(ctx context.Context, t domain.TwoFactorToken) error

	// Claim atomically deletes and returns the token matching email and code.
	// Returns ErrNotFound when no such pair exists (absent or mismatched
	// code); an expired row is still returned (already deleted) so the caller
	// can report expiry distinctly.
	Claim(ctx context.Context, email, code string) (domain.TwoFactorToken, error)

	// GetByEmail returns the live token for an email, for tests and support
	// tooling.
	GetByEmail(ctx context.Context, email string) (domain.TwoFactorToken, error)

	// DeleteExpired is housekeeping.
	DeleteExpired(ctx context.Context) error
}

type TwoFactorConfirmations interface {
	// Replace deletes any prior confirmation for the user and creates c.
	Replace(ctx context.Context, c domain.TwoFactorConfirmation) error

	// Consume atomically deletes the user's confirmation, returning
	// ErrNotFound when none exists. One-shot by construction.
	Consume(ctx context.Context, userID string) error

	// Exists reports whether a confirmation is pending for the user.
	Exists(ctx context.Context, userID string) (bool, error)
}

type VerificationTokens interface {
	// Upsert stores a fresh token fingerprint for the email, superseding any
	// previous one.
	Upsert(ctx context.Context, t domain.VerificationToken) error

	// Claim atomically deletes and returns the token by its fingerprint.
	Claim(ctx context.Context, tokenHash string) (domain.VerificationToken, error)

	// DeleteExpired is housekeeping.
	DeleteExpired(ctx context.Context) error
}

type PasswordResetTokens interface {
	// Upsert stores a fresh token fingerprint for the email, superseding any
	// previous one.
	Upsert(ctx context.Context, t domain.PasswordResetToken) error

	// Claim atomically deletes and returns the token by its fingerprint.
	Claim(ctx context.Context, tokenHash string) (domain.PasswordResetToken, error)

	// DeleteExpired is housekeeping.
	DeleteExpired(ctx context.Context) error
}

type Products interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) error
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type Stores interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	GetStoreByID(ctx context.Context, id string) (domain.Store, error)
	CreateStore(ctx context.Context, s domain.Store) error
	UpdateStore(ctx context.Context, s domain.Store) error
	DeleteStore(ctx context.Context, id string) error
}

type Sales interface {
	ListSalesByStore(ctx context.Context, storeID string) ([]domain.Sale, error)
	CreateSale(ctx context.Context, s domain.Sale) error
}
