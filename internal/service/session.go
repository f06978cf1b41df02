package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/store"
	"github.com/stocklane/stocklane/pkg/jwtx"
)

// SessionService issues and refreshes the signed session token. There is no
// persistent session row; the token is the session (stateless JWT strategy).
type SessionService struct {
	Store  store.Store
	Signer *jwtx.Signer

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Issue mints a fresh session token after a successful sign-in. The
// remember-me flag selects the lifetime ceiling and is embedded in the token
// so later refreshes know which ceiling applies.
func (s *SessionService) Issue(ctx context.Context, user domain.User, isOAuth, rememberMe bool) (string, domain.Session, error) {
	now := s.now()
	claims := jwtx.NewSessionClaims(
		user.ID, user.Role.String(), user.Name, user.Email,
		isOAuth, user.IsTwoFactorEnabled, rememberMe,
		s.Signer.Issuer(), now,
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", domain.Session{}, err
	}

	return token, sessionView(claims), nil
}

// Resolve verifies a raw token and returns the current session view plus the
// token to hand back to the client (rotated when the sliding window or a
// claim refresh changed it).
//
// Absent, unparseable, signature-invalid, or expired tokens resolve to no
// session with a nil error; infrastructure failures are the only errors
// surfaced.
func (s *SessionService) Resolve(ctx context.Context, raw string) (string, *domain.Session, error) {
	if raw == "" {
		return "", nil, nil
	}

	claims, err := s.Signer.Parse(raw)
	if err != nil {
		return "", nil, nil
	}

	now := s.now()
	if claims.ValidateExpiry(now) != nil {
		return "", nil, nil
	}

	// Sliding window: tokens younger than a day are left untouched so the
	// cookie is not rewritten on every request; older ones get a full fresh
	// ttl for the stored remember-me choice.
	if claims.IssuedAt != nil && now.Sub(claims.IssuedAt.Time) >= jwtx.RefreshAfter {
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(jwtx.TTL(claims.Remember())))
	}

	// Claim refresh: stale role/name/email are never trusted past one
	// refresh cycle.
	if err := s.refreshClaims(ctx, &claims); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, nil // subject deleted since issuance
		}
		return "", nil, err
	}

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", nil, err
	}

	session := sessionView(claims)
	return token, &session, nil
}

// UpdateRememberMe recomputes the session lifetime for a new remember-me
// choice, e.g. from a settings toggle. Requires a currently valid token.
func (s *SessionService) UpdateRememberMe(ctx context.Context, raw string, rememberMe bool) (string, *domain.Session, error) {
	claims, err := s.Signer.Parse(raw)
	if err != nil {
		return "", nil, nil
	}

	now := s.now()
	if claims.ValidateExpiry(now) != nil {
		return "", nil, nil
	}

	remember := rememberMe
	claims.RememberMe = &remember
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(jwtx.TTL(rememberMe)))

	if err := s.refreshClaims(ctx, &claims); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, nil
		}
		return "", nil, err
	}

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", nil, err
	}

	session := sessionView(claims)
	return token, &session, nil
}

// refreshClaims re-fetches the subject's current identity fields into the
// claims so role changes propagate within one refresh cycle.
func (s *SessionService) refreshClaims(ctx context.Context, claims *jwtx.SessionClaims) error {
	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		return err
	}

	accounts, err := s.Store.Accounts().ListAccountsByUserID(ctx, user.ID)
	if err != nil {
		return err
	}

	claims.Role = user.Role.String()
	claims.Name = user.Name
	claims.Email = user.Email
	claims.IsOAuth = len(accounts) > 0
	claims.IsTwoFactorEnabled = user.IsTwoFactorEnabled
	return nil
}

func sessionView(claims jwtx.SessionClaims) domain.Session {
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return domain.Session{
		UserID:             claims.Subject,
		Role:               domain.Role(claims.Role),
		Name:               claims.Name,
		Email:              claims.Email,
		IsOAuth:            claims.IsOAuth,
		IsTwoFactorEnabled: claims.IsTwoFactorEnabled,
		RememberMe:         claims.Remember(),
		ExpiresAt:          expires,
	}
}
