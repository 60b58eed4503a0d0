package service

import "errors"

var (
	// ErrInvalidCredentials covers unknown email, inactive account and wrong password alike
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken means the refresh token is unknown or its owner can no longer sign in
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrRefreshExpired means the refresh token is past its expiry
	ErrRefreshExpired = errors.New("refresh token expired")
	// ErrSessionCompromised means a redeemed refresh token was replayed; every session of the user was revoked
	ErrSessionCompromised = errors.New("session compromised")

	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)
