package srs

import (
	"math"
	"time"

	"github.com/kanaflash/kana-api/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor based on the answer
// outcome. Correct answers raise the factor without an upper bound; incorrect
// answers lower it, clamped at params.MinEaseFactor.
func calculateNewEaseFactor(currentEF float64, isCorrect bool, params *Params) float64 {
	if isCorrect {
		return currentEF + params.CorrectEaseBonus
	}

	newEF := currentEF - params.IncorrectEasePenalty
	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	return newEF
}

// calculateNewInterval determines the next review interval in days.
//
// The prior ease factor is used, not the adjusted one: the growth rate a
// review earns was set by the reviews before it.
//
//   - Incorrect answer: reset to params.RelearnInterval.
//   - First-ever correct answer (currentInterval == 0): params.FirstCorrectInterval.
//   - Otherwise: round(currentInterval * currentEF).
func calculateNewInterval(currentInterval int, currentEF float64, isCorrect bool, params *Params) int {
	if !isCorrect {
		return params.RelearnInterval
	}

	if currentInterval == 0 {
		return params.FirstCorrectInterval
	}

	return int(math.Round(float64(currentInterval) * currentEF))
}

// calculateStatus evaluates the mastery rule against the updated counters.
// Mastery is not sticky: a previously mastered record that fails the rule on
// a later answer reverts to learning.
func calculateStatus(isCorrect bool, correctCount, incorrectCount int, params *Params) domain.ProgressStatus {
	if isCorrect &&
		correctCount >= params.MasteryMinCorrect &&
		correctCount > params.MasteryIncorrectRatio*incorrectCount {
		return domain.StatusMastered
	}
	return domain.StatusLearning
}

// calculateNextProgress creates a new Progress with updated counters,
// scheduling state, and status after one answer. The input record is not
// modified; callers receive a fresh copy.
func calculateNextProgress(p *domain.Progress, isCorrect bool, now time.Time, params *Params) *domain.Progress {
	next := &domain.Progress{
		ID:             p.ID,
		UserID:         p.UserID,
		CharacterID:    p.CharacterID,
		Status:         p.Status,
		CorrectCount:   p.CorrectCount,
		IncorrectCount: p.IncorrectCount,
		EaseFactor:     p.EaseFactor,
		Interval:       p.Interval,
		LastReviewedAt: p.LastReviewedAt,
		NextReviewAt:   p.NextReviewAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	if isCorrect {
		next.CorrectCount++
	} else {
		next.IncorrectCount++
	}

	// Interval is computed from the prior ease factor, then the factor adjusts.
	next.Interval = calculateNewInterval(p.Interval, p.EaseFactor, isCorrect, params)
	next.EaseFactor = calculateNewEaseFactor(p.EaseFactor, isCorrect, params)

	next.Status = calculateStatus(isCorrect, next.CorrectCount, next.IncorrectCount, params)

	next.LastReviewedAt = now
	next.NextReviewAt = now.AddDate(0, 0, next.Interval)
	next.UpdatedAt = now

	return next
}
