// Package common defines shared sentinel errors and small helpers used across
// MediBook layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound   = errors.New("not found")
	ErrSlotTaken  = errors.New("time slot is no longer available")
	ErrEmailTaken = errors.New("an account with this email address already exists")

	// Service-level errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTooManyAttempts    = errors.New("too many attempts, try again later")
	ErrUnknownDoctor      = errors.New("unknown doctor")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
