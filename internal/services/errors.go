package services

import (
	"errors"
)

// Typed failures surfaced to callers. None of these are retried
// internally; retry policy belongs to the caller.
var (
	// ErrInsufficientCredits means a deduction was requested against a
	// balance too small to cover it. Callers prompt the reward/purchase flow.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrCapacityExceeded means the favorite set is full for the identity.
	// Callers prompt the slot-expansion flow.
	ErrCapacityExceeded = errors.New("favorite capacity exceeded")

	// ErrProviderUnavailable wraps a network or parse failure from the
	// external place-search provider. The credit already spent on the
	// attempt is not refunded; see the fetch coordinator.
	ErrProviderUnavailable = errors.New("place provider unavailable")

	// ErrInvalidAmount rejects non-positive grant/deduct amounts
	ErrInvalidAmount = errors.New("amount must be positive")
)
