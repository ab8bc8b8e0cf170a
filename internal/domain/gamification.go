package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ConditionType names the predicate category an achievement is evaluated
// against. Some declared types are placeholders pending session tracking and
// must never grant.
type ConditionType string

// Achievement condition types.
const (
	ConditionCharactersLearned ConditionType = "characters_learned"
	ConditionHiraganaMastered  ConditionType = "hiragana_mastered"
	ConditionKatakanaMastered  ConditionType = "katakana_mastered"
	ConditionStreak            ConditionType = "streak"
	ConditionLevel             ConditionType = "level"
	ConditionTotalCorrect      ConditionType = "total_correct"

	// Recognized but not yet backed by session tracking; always evaluate false.
	ConditionQuizSpeed      ConditionType = "quiz_speed"
	ConditionPerfectQuiz    ConditionType = "perfect_quiz"
	ConditionPerfectStreak  ConditionType = "perfect_streak"
	ConditionReviewSessions ConditionType = "review_sessions"
	ConditionReviewAccuracy ConditionType = "review_accuracy"
)

// Common validation errors for gamification entities.
var (
	ErrEmptyAchievementName = errors.New("achievement name cannot be empty")
	ErrUnknownCondition     = errors.New("unknown achievement condition type")
	ErrNegativeReward       = errors.New("achievement reward cannot be negative")
	ErrInvalidLevelNumber   = errors.New("level number must be at least 1")
	ErrNegativeExpRequired  = errors.New("required experience cannot be negative")
)

// Level is one row of the static level table: the cumulative experience
// required to hold this level, plus a display title. Read-only at runtime.
type Level struct {
	Level       int    `json:"level"`
	ExpRequired int    `json:"exp_required"`
	Title       string `json:"title,omitempty"`
}

// Validate checks if the Level has valid data.
func (l *Level) Validate() error {
	if l.Level < 1 {
		return ErrInvalidLevelNumber
	}
	if l.ExpRequired < 0 {
		return ErrNegativeExpRequired
	}
	return nil
}

// Achievement is a static one-time award definition. ConditionValue is the
// numeric threshold the condition predicate compares against; it is a float
// because speed conditions use sub-second thresholds.
type Achievement struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	ConditionType  ConditionType `json:"condition_type"`
	ConditionValue float64       `json:"condition_value"`
	ExpReward      int           `json:"exp_reward"`
	Icon           string        `json:"icon"`
}

// Validate checks if the Achievement has valid data.
func (a *Achievement) Validate() error {
	if a.Name == "" {
		return ErrEmptyAchievementName
	}

	switch a.ConditionType {
	case ConditionCharactersLearned, ConditionHiraganaMastered, ConditionKatakanaMastered,
		ConditionStreak, ConditionLevel, ConditionTotalCorrect,
		ConditionQuizSpeed, ConditionPerfectQuiz, ConditionPerfectStreak,
		ConditionReviewSessions, ConditionReviewAccuracy:
	default:
		return ErrUnknownCondition
	}

	if a.ExpReward < 0 {
		return ErrNegativeReward
	}

	return nil
}

// Implemented reports whether the condition type is backed by a working
// predicate. Placeholder types stay listed in the catalog but never grant.
func (t ConditionType) Implemented() bool {
	switch t {
	case ConditionCharactersLearned, ConditionHiraganaMastered, ConditionKatakanaMastered,
		ConditionStreak, ConditionLevel, ConditionTotalCorrect:
		return true
	default:
		return false
	}
}

// UserAchievement records a one-time achievement grant. Unique per
// (user, achievement); created exactly once and never mutated.
type UserAchievement struct {
	UserID        uuid.UUID `json:"user_id"`
	AchievementID int64     `json:"achievement_id"`
	AchievedAt    time.Time `json:"achieved_at"`

	// Achievement is populated on queries that join the definitions.
	Achievement *Achievement `json:"achievement,omitempty"`
}
