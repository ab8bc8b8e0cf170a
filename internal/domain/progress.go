package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ProgressStatus represents a user's learning state for one character.
type ProgressStatus string

// Possible progress statuses. StatusNotLearned is the implicit state of a
// (user, character) pair with no Progress row; a stored record is always at
// least StatusLearning.
const (
	StatusNotLearned ProgressStatus = "not_learned"
	StatusLearning   ProgressStatus = "learning"
	StatusMastered   ProgressStatus = "mastered"
)

// DefaultEaseFactor is the ease factor assigned to a freshly created record.
const DefaultEaseFactor = 2.5

// MinEaseFactor is the floor below which the ease factor never drops.
const MinEaseFactor = 1.3

// Common validation errors for Progress.
var (
	ErrEmptyProgressUserID    = errors.New("progress user ID cannot be empty")
	ErrEmptyProgressCharacter = errors.New("progress character ID cannot be empty")
	ErrInvalidStatus          = errors.New("invalid progress status")
	ErrNegativeCount          = errors.New("answer counters cannot be negative")
	ErrEaseFactorTooLow       = errors.New("ease factor cannot be below 1.3")
	ErrNegativeInterval       = errors.New("interval cannot be negative")
)

// Progress tracks one user's spaced-repetition state for one character.
// A record is created lazily on the first answer and never deleted; the
// cumulative answer counters are append-only history.
type Progress struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	CharacterID    int64          `json:"character_id"`
	Status         ProgressStatus `json:"status"`
	CorrectCount   int            `json:"correct_count"`
	IncorrectCount int            `json:"incorrect_count"`
	EaseFactor     float64        `json:"ease_factor"`
	Interval       int            `json:"interval"` // Days until the next review
	LastReviewedAt time.Time      `json:"last_reviewed"`
	NextReviewAt   time.Time      `json:"next_review"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Character is populated on queries that join the catalog. Presentation
	// convenience only; never persisted through this struct.
	Character *Character `json:"character,omitempty"`
}

// NewProgress creates a Progress record with default scheduling state for a
// pair being answered for the first time.
func NewProgress(userID uuid.UUID, characterID int64) (*Progress, error) {
	now := time.Now().UTC()
	p := &Progress{
		ID:          uuid.New(),
		UserID:      userID,
		CharacterID: characterID,
		Status:      StatusLearning,
		EaseFactor:  DefaultEaseFactor,
		Interval:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Progress has valid data.
func (p *Progress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}

	if p.CharacterID <= 0 {
		return ErrEmptyProgressCharacter
	}

	switch p.Status {
	case StatusLearning, StatusMastered:
	default:
		return ErrInvalidStatus
	}

	if p.CorrectCount < 0 || p.IncorrectCount < 0 {
		return ErrNegativeCount
	}

	if p.EaseFactor < MinEaseFactor {
		return ErrEaseFactorTooLow
	}

	if p.Interval < 0 {
		return ErrNegativeInterval
	}

	return nil
}
