// Package service implements the application's business operations on top of
// the store interfaces.
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
	"github.com/kanaflash/kana-api/internal/platform/logger"
	"github.com/kanaflash/kana-api/internal/store"
)

// ExperienceResult describes the outcome of one experience grant.
type ExperienceResult struct {
	User      *domain.User `json:"user"`
	ExpGained int          `json:"expGained"`
	OldLevel  int          `json:"oldLevel"`
	NewLevel  int          `json:"newLevel"`
	LevelUp   bool         `json:"levelUp"`
	Reason    string       `json:"reason,omitempty"`
}

// StreakResult describes the outcome of one streak touch.
type StreakResult struct {
	CurrentStreak   int                       `json:"currentStreak"`
	LastDate        *time.Time                `json:"lastDate,omitempty"`
	Updated         bool                      `json:"updated"`
	NewAchievements []*domain.UserAchievement `json:"newAchievements,omitempty"`
}

// LevelInfo summarizes a user's position in the level table.
type LevelInfo struct {
	CurrentLevel       int     `json:"currentLevel"`
	CurrentExp         int     `json:"currentExp"`
	ExpForCurrentLevel int     `json:"expForCurrentLevel"`
	NextLevelExp       *int    `json:"nextLevelExp"`
	ExpToNextLevel     *int    `json:"expToNextLevel"`
	Progress           float64 `json:"progress"`
	Title              string  `json:"title,omitempty"`
}

// GamificationService bundles the experience ledger, the achievement
// evaluator, and the streak tracker. The three share state through the user
// row, so they live behind one interface.
type GamificationService interface {
	// AddExperience atomically adds experience to a user and recomputes their
	// level against the level table. A grant large enough to cross several
	// thresholds advances through all of them in one call.
	AddExperience(ctx context.Context, userID uuid.UUID, amount int, reason string) (*ExperienceResult, error)

	// CheckAchievements evaluates every not-yet-granted achievement for the
	// user, grants the satisfied ones, and credits their experience rewards.
	// Grants are processed sequentially so experience from an earlier grant
	// can satisfy a level condition later in the same pass. Returns the newly
	// granted achievements, most recent last.
	CheckAchievements(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)

	// TouchStreak credits today as a study day: starts a streak, extends it
	// when yesterday was credited, resets it after a gap, and no-ops when
	// today was already credited. A changed streak triggers an achievement
	// check.
	TouchStreak(ctx context.Context, userID uuid.UUID) (*StreakResult, error)

	// UserLevel returns the user's current level, experience, and progress
	// toward the next threshold.
	UserLevel(ctx context.Context, userID uuid.UUID) (*LevelInfo, error)

	// Levels returns the full level table ordered ascending.
	Levels(ctx context.Context) ([]*domain.Level, error)

	// Achievements returns all achievement definitions.
	Achievements(ctx context.Context) ([]*domain.Achievement, error)

	// UserAchievements returns the user's granted achievements, most recent
	// first.
	UserAchievements(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)
}

type gamificationService struct {
	tx           store.Transactioner
	users        store.UserStore
	levels       store.LevelStore
	achievements store.AchievementStore
	progress     store.ProgressStore
	timeFunc     func() time.Time
	logger       *slog.Logger
}

var _ GamificationService = (*gamificationService)(nil)

// NewGamificationService creates a GamificationService. All dependencies are
// required.
func NewGamificationService(
	tx store.Transactioner,
	users store.UserStore,
	levels store.LevelStore,
	achievements store.AchievementStore,
	progress store.ProgressStore,
	log *slog.Logger,
) GamificationService {
	if tx == nil {
		panic("transactioner cannot be nil")
	}
	if users == nil {
		panic("user store cannot be nil")
	}
	if levels == nil {
		panic("level store cannot be nil")
	}
	if achievements == nil {
		panic("achievement store cannot be nil")
	}
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if log == nil {
		panic("logger cannot be nil")
	}

	return &gamificationService{
		tx:           tx,
		users:        users,
		levels:       levels,
		achievements: achievements,
		progress:     progress,
		timeFunc:     time.Now,
		logger:       log.With(slog.String("component", "gamification_service")),
	}
}

// NewGamificationServiceWithClock is like NewGamificationService but with an
// injectable time source for tests.
func NewGamificationServiceWithClock(
	tx store.Transactioner,
	users store.UserStore,
	levels store.LevelStore,
	achievements store.AchievementStore,
	progress store.ProgressStore,
	log *slog.Logger,
	timeFunc func() time.Time,
) GamificationService {
	svc := NewGamificationService(tx, users, levels, achievements, progress, log).(*gamificationService)
	if timeFunc != nil {
		svc.timeFunc = timeFunc
	}
	return svc
}

func (s *gamificationService) AddExperience(
	ctx context.Context,
	userID uuid.UUID,
	amount int,
	reason string,
) (*ExperienceResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var result *ExperienceResult
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		result, txErr = s.applyExperience(ctx, tx, userID, amount, reason)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("experience granted",
		slog.String("user_id", userID.String()),
		slog.Int("amount", amount),
		slog.Int("new_level", result.NewLevel),
		slog.Bool("level_up", result.LevelUp))

	return result, nil
}

// applyExperience performs the read-scan-write cycle of an experience grant
// inside the given transaction. The row lock taken by GetForUpdate serializes
// concurrent grants for the same user.
func (s *gamificationService) applyExperience(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	amount int,
	reason string,
) (*ExperienceResult, error) {
	users := s.users
	if tx != nil {
		users = users.WithTx(tx)
	}

	user, err := users.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for experience grant: %w", err)
	}

	levels, err := s.levels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load level table: %w", err)
	}

	newExp := user.Exp + amount
	newLevel := computeLevel(levels, newExp, user.Level)

	if err := users.UpdateProgression(ctx, userID, newExp, newLevel); err != nil {
		return nil, fmt.Errorf("failed to persist experience grant: %w", err)
	}

	updated := *user
	updated.Exp = newExp
	updated.Level = newLevel

	return &ExperienceResult{
		User:      &updated,
		ExpGained: amount,
		OldLevel:  user.Level,
		NewLevel:  newLevel,
		LevelUp:   newLevel > user.Level,
		Reason:    reason,
	}, nil
}

// computeLevel scans the ascending level table and returns the highest level
// whose threshold the total experience satisfies, never below currentLevel.
// Total-exp-based: repeated small grants land on the same level as one big
// grant of the same sum.
func computeLevel(levels []*domain.Level, exp, currentLevel int) int {
	if len(levels) == 0 {
		return currentLevel
	}

	maxLevel := levels[len(levels)-1].Level
	newLevel := currentLevel
	for _, l := range levels {
		if exp >= l.ExpRequired && l.Level > newLevel && l.Level <= maxLevel {
			newLevel = l.Level
		}
	}
	return newLevel
}

// achievementCounts caches the aggregate statistics that stay fixed for the
// duration of one evaluation pass. Level and streak are read fresh per
// candidate because grants within the pass can change them.
type achievementCounts struct {
	learned          int
	hiraganaMastered int
	katakanaMastered int
	totalCorrect     int
}

func (s *gamificationService) CheckAchievements(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UserAchievement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to load user for achievement check: %w", err)
	}

	all, err := s.achievements.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	grantedIDs, err := s.achievements.ListGrantedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load granted achievements: %w", err)
	}
	granted := make(map[int64]bool, len(grantedIDs))
	for _, id := range grantedIDs {
		granted[id] = true
	}

	counts, err := s.loadCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	var newlyGranted []*domain.UserAchievement
	for _, a := range all {
		if granted[a.ID] || !a.ConditionType.Implemented() {
			continue
		}

		met, err := s.conditionMet(ctx, userID, a, counts)
		if err != nil {
			return newlyGranted, err
		}
		if !met {
			continue
		}

		achievedAt := s.timeFunc().UTC()
		err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			achievements := s.achievements
			if tx != nil {
				achievements = achievements.WithTx(tx)
			}

			if err := achievements.Grant(ctx, userID, a.ID, achievedAt); err != nil {
				return err
			}

			if a.ExpReward > 0 {
				reason := fmt.Sprintf("achievement %q unlocked", a.Name)
				if _, err := s.applyExperience(ctx, tx, userID, a.ExpReward, reason); err != nil {
					return err
				}
			}
			return nil
		})
		if errors.Is(err, store.ErrAchievementGranted) {
			// Concurrent evaluation won the race; the reward was (or will
			// be) credited exactly once by the winner.
			log.Debug("skipping concurrently granted achievement",
				slog.Int64("achievement_id", a.ID),
				slog.String("user_id", userID.String()))
			continue
		}
		if err != nil {
			return newlyGranted, fmt.Errorf("failed to grant achievement %d: %w", a.ID, err)
		}

		log.Info("achievement granted",
			slog.String("user_id", userID.String()),
			slog.Int64("achievement_id", a.ID),
			slog.String("name", a.Name))

		newlyGranted = append(newlyGranted, &domain.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			AchievedAt:    achievedAt,
			Achievement:   a,
		})
	}

	return newlyGranted, nil
}

func (s *gamificationService) loadCounts(ctx context.Context, userID uuid.UUID) (*achievementCounts, error) {
	learned, err := s.progress.CountLearned(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to count learned characters: %w", err)
	}

	hiragana, err := s.progress.CountMastered(ctx, userID, domain.ScriptHiragana)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastered hiragana: %w", err)
	}

	katakana, err := s.progress.CountMastered(ctx, userID, domain.ScriptKatakana)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastered katakana: %w", err)
	}

	totals, err := s.progress.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer totals: %w", err)
	}

	return &achievementCounts{
		learned:          learned,
		hiraganaMastered: hiragana,
		katakanaMastered: katakana,
		totalCorrect:     totals.Correct,
	}, nil
}

func (s *gamificationService) conditionMet(
	ctx context.Context,
	userID uuid.UUID,
	a *domain.Achievement,
	counts *achievementCounts,
) (bool, error) {
	switch a.ConditionType {
	case domain.ConditionCharactersLearned:
		return float64(counts.learned) >= a.ConditionValue, nil
	case domain.ConditionHiraganaMastered:
		return float64(counts.hiraganaMastered) >= a.ConditionValue, nil
	case domain.ConditionKatakanaMastered:
		return float64(counts.katakanaMastered) >= a.ConditionValue, nil
	case domain.ConditionTotalCorrect:
		return float64(counts.totalCorrect) >= a.ConditionValue, nil
	case domain.ConditionStreak, domain.ConditionLevel:
		// Read fresh: earlier grants in this pass may have raised the level.
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return false, fmt.Errorf("failed to reload user for condition check: %w", err)
		}
		if a.ConditionType == domain.ConditionStreak {
			return float64(user.StreakCount) >= a.ConditionValue, nil
		}
		return float64(user.Level) >= a.ConditionValue, nil
	default:
		return false, nil
	}
}

func (s *gamificationService) TouchStreak(ctx context.Context, userID uuid.UUID) (*StreakResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	today := dateOnly(s.timeFunc().UTC())

	var result *StreakResult
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users
		if tx != nil {
			users = users.WithTx(tx)
		}

		user, err := users.GetForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user for streak update: %w", err)
		}

		count, updated := nextStreak(user.StreakCount, user.StreakLastDate, today)
		if updated {
			if err := users.UpdateStreak(ctx, userID, count, today); err != nil {
				return fmt.Errorf("failed to persist streak: %w", err)
			}
		}

		lastDate := user.StreakLastDate
		if updated {
			d := today
			lastDate = &d
		}
		result = &StreakResult{
			CurrentStreak: count,
			LastDate:      lastDate,
			Updated:       updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Updated {
		log.Info("streak updated",
			slog.String("user_id", userID.String()),
			slog.Int("streak_count", result.CurrentStreak))

		newAchievements, err := s.CheckAchievements(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.NewAchievements = newAchievements
	}

	return result, nil
}

// nextStreak applies the calendar-day state machine: first-ever study starts
// at 1, a repeat touch today is a no-op, yesterday extends, any earlier date
// resets to 1.
func nextStreak(count int, last *time.Time, today time.Time) (int, bool) {
	if last == nil {
		return 1, true
	}

	lastDay := dateOnly(last.UTC())
	switch {
	case lastDay.Equal(today):
		return count, false
	case lastDay.Equal(today.AddDate(0, 0, -1)):
		return count + 1, true
	default:
		return 1, true
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *gamificationService) UserLevel(ctx context.Context, userID uuid.UUID) (*LevelInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	current, err := s.levels.GetByLevel(ctx, user.Level)
	if err != nil && !errors.Is(err, store.ErrLevelNotFound) {
		return nil, fmt.Errorf("failed to load current level: %w", err)
	}

	next, err := s.levels.GetByLevel(ctx, user.Level+1)
	if err != nil && !errors.Is(err, store.ErrLevelNotFound) {
		return nil, fmt.Errorf("failed to load next level: %w", err)
	}

	info := &LevelInfo{
		CurrentLevel: user.Level,
		CurrentExp:   user.Exp,
		Progress:     100,
	}
	if current != nil {
		info.ExpForCurrentLevel = current.ExpRequired
		info.Title = current.Title
	}
	if next != nil {
		nextExp := next.ExpRequired
		toNext := next.ExpRequired - user.Exp
		info.NextLevelExp = &nextExp
		info.ExpToNextLevel = &toNext

		span := next.ExpRequired - info.ExpForCurrentLevel
		if span > 0 {
			info.Progress = float64(user.Exp-info.ExpForCurrentLevel) / float64(span) * 100
		}
	}

	return info, nil
}

func (s *gamificationService) Levels(ctx context.Context) ([]*domain.Level, error) {
	return s.levels.List(ctx)
}

func (s *gamificationService) Achievements(ctx context.Context) ([]*domain.Achievement, error) {
	return s.achievements.List(ctx)
}

func (s *gamificationService) UserAchievements(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UserAchievement, error) {
	return s.achievements.ListGranted(ctx, userID)
}
