package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
)

// CharacterStore defines read access to the immutable character catalog.
type CharacterStore interface {
	// GetByID retrieves a catalog entry by ID.
	// Returns ErrCharacterNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Character, error)

	// List returns catalog entries ordered by order index ascending.
	// An empty script lists the whole catalog.
	List(ctx context.Context, script domain.Script) ([]*domain.Character, error)

	// ListUnseen returns the characters the given user has no progress
	// record for, optionally filtered by script, ordered by order index
	// ascending.
	ListUnseen(ctx context.Context, userID uuid.UUID, script domain.Script) ([]*domain.Character, error)

	// Count returns the number of catalog entries, optionally filtered by
	// script (empty script counts all).
	Count(ctx context.Context, script domain.Script) (int, error)
}
