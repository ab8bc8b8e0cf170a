package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/store"
)

// CharacterStore implements the store.CharacterStore interface using a
// PostgreSQL database as the storage backend. The catalog is read-only at
// runtime, so this store exposes no mutations.
type CharacterStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCharacterStore creates a new PostgreSQL implementation of the
// CharacterStore interface.
func NewCharacterStore(db store.DBTX, logger *slog.Logger) *CharacterStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CharacterStore{
		db:     db,
		logger: logger.With(slog.String("component", "character_store")),
	}
}

// Ensure CharacterStore implements store.CharacterStore interface
var _ store.CharacterStore = (*CharacterStore)(nil)

const characterColumns = `id, glyph, romaji, script, row_name, order_index`

// GetByID implements store.CharacterStore.GetByID.
func (s *CharacterStore) GetByID(ctx context.Context, id int64) (*domain.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE id = $1`

	var c domain.Character
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Glyph,
		&c.Romaji,
		&c.Script,
		&c.RowName,
		&c.OrderIndex,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrCharacterNotFound
		}
		return nil, MapError(err)
	}

	return &c, nil
}

// List implements store.CharacterStore.List.
func (s *CharacterStore) List(ctx context.Context, script domain.Script) ([]*domain.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters
		WHERE ($1 = '' OR script = $1)
		ORDER BY order_index ASC`

	rows, err := s.db.QueryContext(ctx, query, string(script))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanCharacters(rows)
}

// ListUnseen implements store.CharacterStore.ListUnseen: catalog entries for
// which the user has no progress row at all. The untouched state is never
// materialized, so absence of a row is the filter.
func (s *CharacterStore) ListUnseen(
	ctx context.Context,
	userID uuid.UUID,
	script domain.Script,
) ([]*domain.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters c
		WHERE ($2 = '' OR c.script = $2)
		  AND NOT EXISTS (
			SELECT 1 FROM progress p
			WHERE p.user_id = $1 AND p.character_id = c.id
		  )
		ORDER BY c.order_index ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, string(script))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanCharacters(rows)
}

// Count implements store.CharacterStore.Count.
func (s *CharacterStore) Count(ctx context.Context, script domain.Script) (int, error) {
	query := `SELECT count(*) FROM characters WHERE ($1 = '' OR script = $1)`

	var n int
	if err := s.db.QueryRowContext(ctx, query, string(script)).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

func scanCharacters(rows *sql.Rows) ([]*domain.Character, error) {
	var characters []*domain.Character
	for rows.Next() {
		var c domain.Character
		if err := rows.Scan(
			&c.ID,
			&c.Glyph,
			&c.Romaji,
			&c.Script,
			&c.RowName,
			&c.OrderIndex,
		); err != nil {
			return nil, MapError(err)
		}
		characters = append(characters, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return characters, nil
}
