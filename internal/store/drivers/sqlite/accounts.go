package sqlite

import (
	"context"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
)

type accountsRepo struct {
	db dbtx
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, provider, provider_account_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Provider, a.ProviderAccountID, time.Now().UTC(),
	)
	return mapUniqueViolation(err)
}

func (r *accountsRepo) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, provider, provider_account_id, created_at
		 FROM accounts WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderAccountID, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountsRepo) GetAccountByProviderID(ctx context.Context, provider, providerAccountID string) (domain.Account, error) {
	var a domain.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider, provider_account_id, created_at
		 FROM accounts WHERE provider = ? AND provider_account_id = ?`,
		provider, providerAccountID,
	).Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderAccountID, &a.CreatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}
