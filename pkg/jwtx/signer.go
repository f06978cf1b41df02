package jwtx

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLength = 32

// Signer signs and parses HS256 session tokens with a shared secret.
//
// Parse deliberately skips claim validation: expiry is checked by the session
// manager itself so it can implement the sliding-refresh window. Signature and
// algorithm are always enforced.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner returns a Signer for the given secret. The secret must carry at
// least 256 bits to keep HS256 brute-force resistant.
func NewSigner(secret, issuer string) (*Signer, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	return &Signer{secret: []byte(secret), issuer: issuer}, nil
}

// Issuer returns the issuer claim this signer stamps onto tokens.
func (s *Signer) Issuer() string { return s.issuer }

// Sign produces a compact serialized token for the claims.
func (s *Signer) Sign(claims SessionClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and returns the embedded claims. An
// unparseable or signature-invalid token yields ErrInvalidToken.
func (s *Signer) Parse(raw string) (SessionClaims, error) {
	var claims SessionClaims

	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return SessionClaims{}, ErrInvalidToken
	}

	return claims, nil
}
