package sqlite

import (
	"context"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
)

type twoFactorTokensRepo struct {
	db dbtx
}

func (r *twoFactorTokensRepo) Upsert(ctx context.Context, t domain.TwoFactorToken) error {
	// The unique email column makes a fresh issue supersede any prior
	// unconsumed code for the address.
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO two_factor_tokens (id, email, code, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
			id = excluded.id,
			code = excluded.code,
			expires_at = excluded.expires_at`,
		t.ID, t.Email, t.Code, t.ExpiresAt.UTC(),
	)
	return err
}

func (r *twoFactorTokensRepo) Claim(ctx context.Context, email, code string) (domain.TwoFactorToken, error) {
	// Single-use under concurrency: delete-and-return in one statement, so a
	// second submission of the same code loses the race and sees not-found.
	var t domain.TwoFactorToken
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM two_factor_tokens WHERE email = ? AND code = ?
		 RETURNING id, email, code, expires_at`,
		email, code,
	).Scan(&t.ID, &t.Email, &t.Code, &t.ExpiresAt)
	if err != nil {
		return domain.TwoFactorToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *twoFactorTokensRepo) GetByEmail(ctx context.Context, email string) (domain.TwoFactorToken, error) {
	var t domain.TwoFactorToken
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, code, expires_at FROM two_factor_tokens WHERE email = ?`,
		email,
	).Scan(&t.ID, &t.Email, &t.Code, &t.ExpiresAt)
	if err != nil {
		return domain.TwoFactorToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *twoFactorTokensRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM two_factor_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}

type twoFactorConfirmationsRepo struct {
	db dbtx
}

func (r *twoFactorConfirmationsRepo) Replace(ctx context.Context, c domain.TwoFactorConfirmation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO two_factor_confirmations (id, user_id)
		 VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET id = excluded.id`,
		c.ID, c.UserID,
	)
	return err
}

func (r *twoFactorConfirmationsRepo) Consume(ctx context.Context, userID string) error {
	var id string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM two_factor_confirmations WHERE user_id = ? RETURNING id`,
		userID,
	).Scan(&id)
	return mapNotFound(err)
}

func (r *twoFactorConfirmationsRepo) Exists(ctx context.Context, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM two_factor_confirmations WHERE user_id = ?`,
		userID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
