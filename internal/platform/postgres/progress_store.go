package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/platform/logger"
	"github.com/kanaflash/kana-api/internal/store"
)

// ProgressStore implements the store.ProgressStore interface using a
// PostgreSQL database as the storage backend.
type ProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewProgressStore(db store.DBTX, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure ProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*ProgressStore)(nil)

const progressColumns = `id, user_id, character_id, status, correct_count, incorrect_count,
	ease_factor, interval_days, last_reviewed_at, next_review_at, created_at, updated_at`

// Create implements store.ProgressStore.Create.
func (s *ProgressStore) Create(ctx context.Context, progress *domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.Int64("character_id", progress.CharacterID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO progress (id, user_id, character_id, status, correct_count, incorrect_count,
			ease_factor, interval_days, last_reviewed_at, next_review_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		progress.ID,
		progress.UserID,
		progress.CharacterID,
		progress.Status,
		progress.CorrectCount,
		progress.IncorrectCount,
		progress.EaseFactor,
		progress.Interval,
		nullableTime(progress.LastReviewedAt),
		nullableTime(progress.NextReviewAt),
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create progress record",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.Int64("character_id", progress.CharacterID))
		return MapError(err)
	}

	return nil
}

// Get implements store.ProgressStore.Get.
func (s *ProgressStore) Get(ctx context.Context, userID uuid.UUID, characterID int64) (*domain.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress
		WHERE user_id = $1 AND character_id = $2`
	return s.scanProgress(s.db.QueryRowContext(ctx, query, userID, characterID))
}

// GetForUpdate implements store.ProgressStore.GetForUpdate. Only meaningful
// inside a transaction; the row lock serializes concurrent answers for the
// same (user, character) pair.
func (s *ProgressStore) GetForUpdate(ctx context.Context, userID uuid.UUID, characterID int64) (*domain.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM progress
		WHERE user_id = $1 AND character_id = $2 FOR UPDATE`
	return s.scanProgress(s.db.QueryRowContext(ctx, query, userID, characterID))
}

// Update implements store.ProgressStore.Update.
func (s *ProgressStore) Update(ctx context.Context, progress *domain.Progress) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE progress
		SET status = $3, correct_count = $4, incorrect_count = $5, ease_factor = $6,
			interval_days = $7, last_reviewed_at = $8, next_review_at = $9, updated_at = $10
		WHERE user_id = $1 AND character_id = $2
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		progress.UserID,
		progress.CharacterID,
		progress.Status,
		progress.CorrectCount,
		progress.IncorrectCount,
		progress.EaseFactor,
		progress.Interval,
		nullableTime(progress.LastReviewedAt),
		nullableTime(progress.NextReviewAt),
		progress.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "progress")
}

// ListByUser implements store.ProgressStore.ListByUser.
func (s *ProgressStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	query := progressJoinQuery + `
		WHERE p.user_id = $1
		ORDER BY p.updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return s.scanProgressJoin(rows)
}

// ListDue implements store.ProgressStore.ListDue. Mastered records are
// excluded unconditionally; they are not scheduled by this engine.
func (s *ProgressStore) ListDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Progress, error) {
	query := progressJoinQuery + `
		WHERE p.user_id = $1
		  AND p.next_review_at <= $2
		  AND p.status <> 'mastered'
		ORDER BY p.next_review_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return s.scanProgressJoin(rows)
}

// CountLearned implements store.ProgressStore.CountLearned. Every stored
// record is at least learning, so this counts all of the user's rows.
func (s *ProgressStore) CountLearned(ctx context.Context, userID uuid.UUID, script domain.Script) (int, error) {
	query := `SELECT count(*) FROM progress p
		JOIN characters c ON c.id = p.character_id
		WHERE p.user_id = $1 AND ($2 = '' OR c.script = $2)`

	var n int
	if err := s.db.QueryRowContext(ctx, query, userID, string(script)).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// CountMastered implements store.ProgressStore.CountMastered.
func (s *ProgressStore) CountMastered(ctx context.Context, userID uuid.UUID, script domain.Script) (int, error) {
	query := `SELECT count(*) FROM progress p
		JOIN characters c ON c.id = p.character_id
		WHERE p.user_id = $1 AND p.status = 'mastered' AND ($2 = '' OR c.script = $2)`

	var n int
	if err := s.db.QueryRowContext(ctx, query, userID, string(script)).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// Totals implements store.ProgressStore.Totals.
func (s *ProgressStore) Totals(ctx context.Context, userID uuid.UUID) (store.AnswerTotals, error) {
	query := `SELECT coalesce(sum(correct_count), 0), coalesce(sum(incorrect_count), 0)
		FROM progress WHERE user_id = $1`

	var totals store.AnswerTotals
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&totals.Correct, &totals.Incorrect); err != nil {
		return store.AnswerTotals{}, MapError(err)
	}
	return totals, nil
}

// WithTx implements store.ProgressStore.WithTx.
func (s *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &ProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

const progressJoinQuery = `SELECT p.id, p.user_id, p.character_id, p.status, p.correct_count,
	p.incorrect_count, p.ease_factor, p.interval_days, p.last_reviewed_at, p.next_review_at,
	p.created_at, p.updated_at,
	c.id, c.glyph, c.romaji, c.script, c.row_name, c.order_index
	FROM progress p
	JOIN characters c ON c.id = p.character_id`

func (s *ProgressStore) scanProgress(row *sql.Row) (*domain.Progress, error) {
	var p domain.Progress
	var lastReviewed, nextReview sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.CharacterID,
		&p.Status,
		&p.CorrectCount,
		&p.IncorrectCount,
		&p.EaseFactor,
		&p.Interval,
		&lastReviewed,
		&nextReview,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrProgressNotFound
		}
		return nil, MapError(err)
	}

	if lastReviewed.Valid {
		p.LastReviewedAt = lastReviewed.Time
	}
	if nextReview.Valid {
		p.NextReviewAt = nextReview.Time
	}

	return &p, nil
}

func (s *ProgressStore) scanProgressJoin(rows *sql.Rows) ([]*domain.Progress, error) {
	var records []*domain.Progress
	for rows.Next() {
		var p domain.Progress
		var c domain.Character
		var lastReviewed, nextReview sql.NullTime

		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.CharacterID,
			&p.Status,
			&p.CorrectCount,
			&p.IncorrectCount,
			&p.EaseFactor,
			&p.Interval,
			&lastReviewed,
			&nextReview,
			&p.CreatedAt,
			&p.UpdatedAt,
			&c.ID,
			&c.Glyph,
			&c.Romaji,
			&c.Script,
			&c.RowName,
			&c.OrderIndex,
		); err != nil {
			return nil, MapError(err)
		}

		if lastReviewed.Valid {
			p.LastReviewedAt = lastReviewed.Time
		}
		if nextReview.Valid {
			p.NextReviewAt = nextReview.Time
		}
		p.Character = &c

		records = append(records, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return records, nil
}

// nullableTime maps the zero time to SQL NULL. A record that has never been
// answered has no review timestamps.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
