// Package common defines shared constants and sentinel errors used across the
// server layers. Callers should use errors.Is to match these values; the HTTP
// layer maps them onto status codes.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Authorization errors.
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("not authorized")

	// Validation errors. Wrap with a message:
	//
	//	fmt.Errorf("%w: name required", common.ErrInvalidInput)
	ErrInvalidInput = errors.New("invalid input")

	// Session token errors (malformed, tampered or expired).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
