package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/domain/srs"
	"github.com/kanaflash/kana-api/internal/platform/logger"
	"github.com/kanaflash/kana-api/internal/store"
)

// AnswerResult is the outcome of one recorded answer: the updated scheduling
// state plus any achievements the answer unlocked (directly or through the
// streak it extended).
type AnswerResult struct {
	Progress        *domain.Progress          `json:"progress"`
	Streak          *StreakResult             `json:"streak,omitempty"`
	NewAchievements []*domain.UserAchievement `json:"newAchievements,omitempty"`
}

// ScriptStats aggregates catalog coverage for one script (or the whole
// catalog).
type ScriptStats struct {
	Total    int     `json:"total"`
	Learned  int     `json:"learned"`
	Mastered int     `json:"mastered"`
	Progress float64 `json:"progress"`
}

// AccuracyStats aggregates cumulative answer counters.
type AccuracyStats struct {
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

// LearningStats is the per-user statistics snapshot.
type LearningStats struct {
	Total    ScriptStats   `json:"total"`
	Hiragana ScriptStats   `json:"hiragana"`
	Katakana ScriptStats   `json:"katakana"`
	Accuracy AccuracyStats `json:"accuracy"`
}

// ProgressService exposes the spaced-repetition operations: answering cards,
// listing what is unseen or due, and aggregate statistics.
type ProgressService interface {
	// RecordAnswer applies one answer to the (user, character) scheduling
	// state, creating the record on first contact. It credits today as a
	// study day and re-evaluates achievements.
	RecordAnswer(ctx context.Context, userID uuid.UUID, characterID int64, isCorrect bool) (*AnswerResult, error)

	// ListAll returns every progress record of the user with its character,
	// most recently updated first.
	ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error)

	// ListUnseen returns the characters the user has never answered,
	// optionally filtered by script.
	ListUnseen(ctx context.Context, userID uuid.UUID, script domain.Script) ([]*domain.Character, error)

	// ListDue returns the non-mastered records whose next review time has
	// passed, most overdue first.
	ListDue(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error)

	// Stats returns catalog coverage per script plus cumulative accuracy.
	Stats(ctx context.Context, userID uuid.UUID) (*LearningStats, error)
}

type progressService struct {
	tx           store.Transactioner
	progress     store.ProgressStore
	characters   store.CharacterStore
	scheduler    srs.Service
	gamification GamificationService
	timeFunc     func() time.Time
	logger       *slog.Logger
}

var _ ProgressService = (*progressService)(nil)

// NewProgressService creates a ProgressService. All dependencies are required.
func NewProgressService(
	tx store.Transactioner,
	progress store.ProgressStore,
	characters store.CharacterStore,
	scheduler srs.Service,
	gamification GamificationService,
	log *slog.Logger,
) ProgressService {
	if tx == nil {
		panic("transactioner cannot be nil")
	}
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if characters == nil {
		panic("character store cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if gamification == nil {
		panic("gamification service cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil")
	}

	return &progressService{
		tx:           tx,
		progress:     progress,
		characters:   characters,
		scheduler:    scheduler,
		gamification: gamification,
		timeFunc:     time.Now,
		logger:       log.With(slog.String("component", "progress_service")),
	}
}

// NewProgressServiceWithClock is like NewProgressService but with an
// injectable time source for tests.
func NewProgressServiceWithClock(
	tx store.Transactioner,
	progress store.ProgressStore,
	characters store.CharacterStore,
	scheduler srs.Service,
	gamification GamificationService,
	log *slog.Logger,
	timeFunc func() time.Time,
) ProgressService {
	svc := NewProgressService(tx, progress, characters, scheduler, gamification, log).(*progressService)
	if timeFunc != nil {
		svc.timeFunc = timeFunc
	}
	return svc
}

func (s *progressService) RecordAnswer(
	ctx context.Context,
	userID uuid.UUID,
	characterID int64,
	isCorrect bool,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if characterID <= 0 {
		return nil, domain.NewValidationError("characterId", "must be a positive integer", domain.ErrInvalidID)
	}

	// Reject unknown characters before any state mutation.
	if _, err := s.characters.GetByID(ctx, characterID); err != nil {
		return nil, err
	}

	now := s.timeFunc().UTC()

	var updated *domain.Progress
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		progressStore := s.progress
		if tx != nil {
			progressStore = progressStore.WithTx(tx)
		}

		current, err := progressStore.GetForUpdate(ctx, userID, characterID)
		if errors.Is(err, store.ErrProgressNotFound) {
			current, err = domain.NewProgress(userID, characterID)
			if err != nil {
				return err
			}
			if err := progressStore.Create(ctx, current); err != nil {
				return fmt.Errorf("failed to create progress record: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to load progress record: %w", err)
		}

		next, err := s.scheduler.ReviewProgress(current, isCorrect, now)
		if err != nil {
			return err
		}

		if err := progressStore.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to persist progress record: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("answer recorded",
		slog.String("user_id", userID.String()),
		slog.Int64("character_id", characterID),
		slog.Bool("correct", isCorrect),
		slog.String("status", string(updated.Status)),
		slog.Int("interval", updated.Interval))

	// The answer itself is the qualifying daily study action; a changed
	// streak re-evaluates achievements inside TouchStreak.
	streak, err := s.gamification.TouchStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{
		Progress:        updated,
		Streak:          streak,
		NewAchievements: streak.NewAchievements,
	}

	// The answer may also have satisfied count-based conditions
	// (characters learned, mastery, total correct) that the streak check
	// did not run for.
	if !streak.Updated {
		newAchievements, err := s.gamification.CheckAchievements(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.NewAchievements = newAchievements
	}

	return result, nil
}

func (s *progressService) ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	return s.progress.ListByUser(ctx, userID)
}

func (s *progressService) ListUnseen(
	ctx context.Context,
	userID uuid.UUID,
	script domain.Script,
) ([]*domain.Character, error) {
	if !domain.ValidScript(script) {
		return nil, domain.ErrInvalidScript
	}
	return s.characters.ListUnseen(ctx, userID, script)
}

func (s *progressService) ListDue(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	return s.progress.ListDue(ctx, userID, s.timeFunc().UTC())
}

func (s *progressService) Stats(ctx context.Context, userID uuid.UUID) (*LearningStats, error) {
	stats := &LearningStats{}

	for _, part := range []struct {
		script domain.Script
		dest   *ScriptStats
	}{
		{"", &stats.Total},
		{domain.ScriptHiragana, &stats.Hiragana},
		{domain.ScriptKatakana, &stats.Katakana},
	} {
		total, err := s.characters.Count(ctx, part.script)
		if err != nil {
			return nil, fmt.Errorf("failed to count characters: %w", err)
		}
		learned, err := s.progress.CountLearned(ctx, userID, part.script)
		if err != nil {
			return nil, fmt.Errorf("failed to count learned characters: %w", err)
		}
		mastered, err := s.progress.CountMastered(ctx, userID, part.script)
		if err != nil {
			return nil, fmt.Errorf("failed to count mastered characters: %w", err)
		}

		part.dest.Total = total
		part.dest.Learned = learned
		part.dest.Mastered = mastered
		if total > 0 {
			part.dest.Progress = float64(learned) / float64(total) * 100
		}
	}

	totals, err := s.progress.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer totals: %w", err)
	}

	answered := totals.Correct + totals.Incorrect
	stats.Accuracy = AccuracyStats{
		Correct:   totals.Correct,
		Incorrect: totals.Incorrect,
		Total:     answered,
	}
	if answered > 0 {
		stats.Accuracy.Rate = float64(totals.Correct) / float64(answered) * 100
	}

	return stats, nil
}
