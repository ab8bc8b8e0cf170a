package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/platform/logger"
	"github.com/kanaflash/kana-api/internal/store"
)

// LevelStore implements the store.LevelStore interface using a PostgreSQL
// database as the storage backend. The level table is read-only at runtime.
type LevelStore struct {
	db store.DBTX
}

// NewLevelStore creates a new PostgreSQL implementation of the LevelStore
// interface.
func NewLevelStore(db store.DBTX) *LevelStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &LevelStore{db: db}
}

// Ensure LevelStore implements store.LevelStore interface
var _ store.LevelStore = (*LevelStore)(nil)

// List implements store.LevelStore.List.
func (s *LevelStore) List(ctx context.Context) ([]*domain.Level, error) {
	query := `SELECT level, exp_required, title FROM levels ORDER BY level ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var levels []*domain.Level
	for rows.Next() {
		var l domain.Level
		if err := rows.Scan(&l.Level, &l.ExpRequired, &l.Title); err != nil {
			return nil, MapError(err)
		}
		levels = append(levels, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return levels, nil
}

// GetByLevel implements store.LevelStore.GetByLevel.
func (s *LevelStore) GetByLevel(ctx context.Context, level int) (*domain.Level, error) {
	query := `SELECT level, exp_required, title FROM levels WHERE level = $1`

	var l domain.Level
	err := s.db.QueryRowContext(ctx, query, level).Scan(&l.Level, &l.ExpRequired, &l.Title)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrLevelNotFound
		}
		return nil, MapError(err)
	}
	return &l, nil
}

// AchievementStore implements the store.AchievementStore interface using a
// PostgreSQL database as the storage backend.
type AchievementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewAchievementStore creates a new PostgreSQL implementation of the
// AchievementStore interface.
func NewAchievementStore(db store.DBTX, logger *slog.Logger) *AchievementStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &AchievementStore{
		db:     db,
		logger: logger.With(slog.String("component", "achievement_store")),
	}
}

// Ensure AchievementStore implements store.AchievementStore interface
var _ store.AchievementStore = (*AchievementStore)(nil)

const achievementColumns = `id, name, description, condition_type, condition_value, exp_reward, icon`

// List implements store.AchievementStore.List.
func (s *AchievementStore) List(ctx context.Context) ([]*domain.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var achievements []*domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Description,
			&a.ConditionType,
			&a.ConditionValue,
			&a.ExpReward,
			&a.Icon,
		); err != nil {
			return nil, MapError(err)
		}
		achievements = append(achievements, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return achievements, nil
}

// ListGrantedIDs implements store.AchievementStore.ListGrantedIDs.
func (s *AchievementStore) ListGrantedIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	query := `SELECT achievement_id FROM user_achievements WHERE user_id = $1`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return ids, nil
}

// ListGranted implements store.AchievementStore.ListGranted.
func (s *AchievementStore) ListGranted(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error) {
	query := `SELECT ua.user_id, ua.achievement_id, ua.achieved_at,
		a.id, a.name, a.description, a.condition_type, a.condition_value, a.exp_reward, a.icon
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1
		ORDER BY ua.achieved_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var grants []*domain.UserAchievement
	for rows.Next() {
		var ua domain.UserAchievement
		var a domain.Achievement
		if err := rows.Scan(
			&ua.UserID,
			&ua.AchievementID,
			&ua.AchievedAt,
			&a.ID,
			&a.Name,
			&a.Description,
			&a.ConditionType,
			&a.ConditionValue,
			&a.ExpReward,
			&a.Icon,
		); err != nil {
			return nil, MapError(err)
		}
		ua.Achievement = &a
		grants = append(grants, &ua)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return grants, nil
}

// Grant implements store.AchievementStore.Grant. The primary key on
// (user_id, achievement_id) turns a concurrent duplicate grant into
// ErrAchievementGranted, which the evaluator treats as a no-op.
func (s *AchievementStore) Grant(ctx context.Context, userID uuid.UUID, achievementID int64, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_achievements (user_id, achievement_id, achieved_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, userID, achievementID, at)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrAchievementGranted
		}
		if IsForeignKeyViolation(err) {
			return store.ErrAchievementNotFound
		}

		log.Error("failed to grant achievement",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int64("achievement_id", achievementID))
		return MapError(err)
	}

	log.Info("achievement granted",
		slog.String("user_id", userID.String()),
		slog.Int64("achievement_id", achievementID))
	return nil
}

// WithTx implements store.AchievementStore.WithTx.
func (s *AchievementStore) WithTx(tx *sql.Tx) store.AchievementStore {
	return &AchievementStore{
		db:     tx,
		logger: s.logger,
	}
}
