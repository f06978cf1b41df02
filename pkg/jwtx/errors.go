package jwtx

import "errors"

var (
	// ErrExpired reports a token past its exp claim.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrInvalidToken reports a token that failed parsing or signature checks.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	// ErrWeakSecret reports a signing secret below the minimum length.
	ErrWeakSecret = errors.New("jwtx: signing secret must be at least 32 bytes")
)
