package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
//
// The gamification fields of a user (exp/level, streak) are mutated by
// different services; each field group has its own atomic update so
// concurrent writers touching disjoint groups cannot clobber each other.
type UserStore interface {
	// Create saves a new user to the store. The user's plaintext Password
	// is hashed before storage. Returns ErrEmailExists if the email is
	// already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetForUpdate retrieves a user with a row-level lock using
	// SELECT FOR UPDATE. Must be called within a transaction when the
	// caller intends a read-modify-write of the user's state.
	// Returns ErrUserNotFound if the user does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateProgression persists a user's exp and level as one atomic unit.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateProgression(ctx context.Context, id uuid.UUID, exp, level int) error

	// UpdateStreak persists a user's streak counter and last credited study
	// date as one atomic unit. Returns ErrUserNotFound if the user does not
	// exist.
	UpdateStreak(ctx context.Context, id uuid.UUID, streakCount int, lastDate time.Time) error

	// WithTx returns a UserStore bound to the provided transaction so
	// multiple operations can share one atomic scope.
	WithTx(tx *sql.Tx) UserStore
}
