package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stocklane/stocklane/internal/store"
)

// txStore is a transaction-scoped Store. Repos share the *sql.Tx handle.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore { return &txStore{tx: tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Users() store.Users                   { return &usersRepo{db: t.tx} }
func (t *txStore) Accounts() store.Accounts             { return &accountsRepo{db: t.tx} }
func (t *txStore) TwoFactorTokens() store.TwoFactorTokens {
	return &twoFactorTokensRepo{db: t.tx}
}
func (t *txStore) TwoFactorConfirmations() store.TwoFactorConfirmations {
	return &twoFactorConfirmationsRepo{db: t.tx}
}
func (t *txStore) VerificationTokens() store.VerificationTokens {
	return &verificationTokensRepo{db: t.tx}
}
func (t *txStore) PasswordResetTokens() store.PasswordResetTokens {
	return &passwordResetTokensRepo{db: t.tx}
}
func (t *txStore) Products() store.Products { return &productsRepo{db: t.tx} }
func (t *txStore) Stores() store.Stores     { return &storesRepo{db: t.tx} }
func (t *txStore) Sales() store.Sales       { return &salesRepo{db: t.tx} }

// Nested transactions are not supported by the sqlite driver.
func (t *txStore) Tx(context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) WithTx(context.Context, func(tx store.Tx) error) error {
	return errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) ApplyMigrations() error {
	return errors.New("sqlite: migrations cannot run inside a transaction")
}

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(context.Context) error { return nil }
