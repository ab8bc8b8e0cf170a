package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
)

// AnswerTotals aggregates cumulative answer counters across all of a user's
// progress records.
type AnswerTotals struct {
	Correct   int
	Incorrect int
}

// ProgressStore defines the interface for spaced-repetition progress
// persistence. Records are unique per (user, character); absence of a record
// means the pair is untouched and is never materialized as a row.
type ProgressStore interface {
	// Create saves a new progress record.
	// Returns ErrDuplicate if a record already exists for the pair.
	Create(ctx context.Context, progress *domain.Progress) error

	// Get retrieves the record for one (user, character) pair.
	// Returns ErrProgressNotFound if no record exists.
	Get(ctx context.Context, userID uuid.UUID, characterID int64) (*domain.Progress, error)

	// GetForUpdate retrieves the record with a row-level lock using
	// SELECT FOR UPDATE. Must be called within a transaction when the
	// caller intends to update the record.
	// Returns ErrProgressNotFound if no record exists.
	GetForUpdate(ctx context.Context, userID uuid.UUID, characterID int64) (*domain.Progress, error)

	// Update persists an existing record identified by (UserID, CharacterID).
	// Returns ErrProgressNotFound if no record exists.
	Update(ctx context.Context, progress *domain.Progress) error

	// ListByUser returns all of a user's records joined with their
	// characters, most recently updated first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error)

	// ListDue returns records whose next review is at or before now and
	// whose status is not mastered, joined with their characters, most
	// overdue first. Mastered records are never listed regardless of
	// elapsed time.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Progress, error)

	// CountLearned counts a user's records, optionally filtered by script
	// (empty script counts across the whole catalog). A record's existence
	// implies the character is at least learning, so this counts every
	// record for the user.
	CountLearned(ctx context.Context, userID uuid.UUID, script domain.Script) (int, error)

	// CountMastered counts a user's mastered records, optionally filtered
	// by script.
	CountMastered(ctx context.Context, userID uuid.UUID, script domain.Script) (int, error)

	// Totals sums the cumulative correct/incorrect counters across all of a
	// user's records.
	Totals(ctx context.Context, userID uuid.UUID) (AnswerTotals, error)

	// WithTx returns a ProgressStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
