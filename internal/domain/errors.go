package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Ledger errors
	ErrMsgNegativeTransaction = "transaction set sums negative"
	ErrMsgInsufficientPoints  = "insufficient points"

	// Reward errors
	ErrMsgRewardNotFound = "reward not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Shutdown errors
	ErrMsgEngineStopped = "engine is shutting down"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// ErrNegativeTransaction is returned when a non-administrative
	// transaction batch would decrease the point total
	ErrNegativeTransaction = errors.New(ErrMsgNegativeTransaction)

	ErrInsufficientPoints = errors.New(ErrMsgInsufficientPoints)

	ErrRewardNotFound = errors.New(ErrMsgRewardNotFound)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	ErrEngineStopped = errors.New(ErrMsgEngineStopped)
)
