package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email, or a second
	// grant of the same achievement).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for example
	// because the entity does not exist or the update violates constraints.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrCharacterNotFound indicates that the requested character does not exist.
	ErrCharacterNotFound = fmt.Errorf("%w: character", ErrNotFound)

	// ErrProgressNotFound indicates that the requested progress record does not exist.
	ErrProgressNotFound = fmt.Errorf("%w: progress", ErrNotFound)

	// ErrAchievementNotFound indicates that the requested achievement does not exist.
	ErrAchievementNotFound = fmt.Errorf("%w: achievement", ErrNotFound)

	// ErrLevelNotFound indicates that the requested level row does not exist.
	ErrLevelNotFound = fmt.Errorf("%w: level", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrAchievementGranted indicates the achievement was already granted to
	// this user. Callers treat this as a no-op, never a failure.
	ErrAchievementGranted = fmt.Errorf("%w: user achievement", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
