package sqlite

import (
	"context"
	"time"

	"github.com/stocklane/stocklane/internal/domain"
)

type verificationTokensRepo struct {
	db dbtx
}

func (r *verificationTokensRepo) Upsert(ctx context.Context, t domain.VerificationToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO verification_tokens (id, email, token_hash, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
			id = excluded.id,
			token_hash = excluded.token_hash,
			expires_at = excluded.expires_at`,
		t.ID, t.Email, t.TokenHash, t.ExpiresAt.UTC(),
	)
	return err
}

func (r *verificationTokensRepo) Claim(ctx context.Context, tokenHash string) (domain.VerificationToken, error) {
	var t domain.VerificationToken
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM verification_tokens WHERE token_hash = ?
		 RETURNING id, email, token_hash, expires_at`,
		tokenHash,
	).Scan(&t.ID, &t.Email, &t.TokenHash, &t.ExpiresAt)
	if err != nil {
		return domain.VerificationToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *verificationTokensRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM verification_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}

type passwordResetTokensRepo struct {
	db dbtx
}

func (r *passwordResetTokensRepo) Upsert(ctx context.Context, t domain.PasswordResetToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (id, email, token_hash, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
			id = excluded.id,
			token_hash = excluded.token_hash,
			expires_at = excluded.expires_at`,
		t.ID, t.Email, t.TokenHash, t.ExpiresAt.UTC(),
	)
	return err
}

func (r *passwordResetTokensRepo) Claim(ctx context.Context, tokenHash string) (domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM password_reset_tokens WHERE token_hash = ?
		 RETURNING id, email, token_hash, expires_at`,
		tokenHash,
	).Scan(&t.ID, &t.Email, &t.TokenHash, &t.ExpiresAt)
	if err != nil {
		return domain.PasswordResetToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *passwordResetTokensRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}
