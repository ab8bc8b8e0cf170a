package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
)

// LevelStore defines read access to the static level table.
type LevelStore interface {
	// List returns all levels ordered ascending by level number.
	List(ctx context.Context) ([]*domain.Level, error)

	// GetByLevel retrieves one level row.
	// Returns ErrLevelNotFound if it does not exist.
	GetByLevel(ctx context.Context, level int) (*domain.Level, error)
}

// AchievementStore defines persistence for achievement definitions and
// per-user grants.
type AchievementStore interface {
	// List returns all achievement definitions ordered by ID ascending.
	List(ctx context.Context) ([]*domain.Achievement, error)

	// ListGrantedIDs returns the IDs of achievements already granted to the
	// user.
	ListGrantedIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)

	// ListGranted returns the user's grants joined with their definitions,
	// most recent first.
	ListGranted(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)

	// Grant inserts a grant record for (user, achievement) at the given
	// time. The (user_id, achievement_id) uniqueness constraint is the
	// concurrency guard: a duplicate insert returns ErrAchievementGranted,
	// which callers treat as "someone else won the race" and skip the
	// experience credit.
	Grant(ctx context.Context, userID uuid.UUID, achievementID int64, at time.Time) error

	// WithTx returns an AchievementStore bound to the provided transaction.
	WithTx(tx *sql.Tx) AchievementStore
}
