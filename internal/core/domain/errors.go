package domain

import "errors"

var (
	// ErrNotFound covers unknown ticket tokens, items, attendees and operators.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount is returned for non-positive payout amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientBalance is returned when a payout exceeds the
	// operator's outstanding balance.
	ErrInsufficientBalance = errors.New("amount exceeds outstanding balance")

	// ErrValidation covers malformed or incomplete requests. Validation
	// failures are detected before any mutation.
	ErrValidation = errors.New("validation failed")
)
