package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanaflash/kana-api/internal/domain"
)

func newTestProgress(t *testing.T) *domain.Progress {
	t.Helper()
	p, err := domain.NewProgress(uuid.New(), 1)
	require.NoError(t, err)
	return p
}

func TestCalculateNewEaseFactor(t *testing.T) {
	params := NewDefaultParams()

	tests := []struct {
		name      string
		currentEF float64
		isCorrect bool
		expected  float64
	}{
		{"correct answer raises the factor", 2.5, true, 2.6},
		{"correct answer has no upper bound", 4.0, true, 4.1},
		{"incorrect answer lowers the factor", 2.5, false, 2.3},
		{"incorrect answer clamps at the floor", 1.4, false, 1.3},
		{"incorrect answer at the floor stays there", 1.3, false, 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateNewEaseFactor(tt.currentEF, tt.isCorrect, params)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	params := NewDefaultParams()

	tests := []struct {
		name            string
		currentInterval int
		currentEF       float64
		isCorrect       bool
		expected        int
	}{
		{"first correct answer", 0, 2.5, true, 1},
		{"subsequent correct answer multiplies by ease", 1, 2.5, true, 3}, // round(1*2.5)
		{"longer interval grows", 6, 2.5, true, 15},
		{"rounding is to nearest", 3, 2.5, true, 8}, // round(7.5)
		{"incorrect answer resets", 30, 2.5, false, 1},
		{"incorrect first answer also resets to one", 0, 2.5, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateNewInterval(tt.currentInterval, tt.currentEF, tt.isCorrect, params)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculateStatus(t *testing.T) {
	params := NewDefaultParams()

	tests := []struct {
		name           string
		isCorrect      bool
		correctCount   int
		incorrectCount int
		expected       domain.ProgressStatus
	}{
		{"few answers stay learning", true, 3, 0, domain.StatusLearning},
		{"five clean correct answers master", true, 5, 0, domain.StatusMastered},
		{"exactly double incorrect fails the ratio", true, 6, 3, domain.StatusLearning},
		{"ratio strictly above double masters", true, 7, 3, domain.StatusMastered},
		{"incorrect answer never masters", false, 10, 0, domain.StatusLearning},
		{"boundary: five correct two incorrect", true, 5, 2, domain.StatusMastered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateStatus(tt.isCorrect, tt.correctCount, tt.incorrectCount, params)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculateNextProgress_DoesNotMutateInput(t *testing.T) {
	params := NewDefaultParams()
	p := newTestProgress(t)
	original := *p

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	next := calculateNextProgress(p, true, now, params)

	assert.Equal(t, original, *p, "input record must not change")
	assert.NotSame(t, p, next)
}

func TestCalculateNextProgress_CorrectAnswer(t *testing.T) {
	params := NewDefaultParams()
	p := newTestProgress(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	next := calculateNextProgress(p, true, now, params)

	assert.Equal(t, 1, next.CorrectCount)
	assert.Equal(t, 0, next.IncorrectCount)
	assert.Equal(t, 1, next.Interval)
	assert.InDelta(t, 2.6, next.EaseFactor, 1e-9)
	assert.Equal(t, domain.StatusLearning, next.Status)
	assert.Equal(t, now, next.LastReviewedAt)
	assert.Equal(t, now.AddDate(0, 0, 1), next.NextReviewAt)
}

func TestCalculateNextProgress_IntervalUsesPriorEaseFactor(t *testing.T) {
	params := NewDefaultParams()
	p := newTestProgress(t)
	p.Interval = 2
	p.EaseFactor = 2.0
	now := time.Now().UTC()

	next := calculateNextProgress(p, true, now, params)

	// round(2 * 2.0) = 4, not round(2 * 2.1).
	assert.Equal(t, 4, next.Interval)
	assert.InDelta(t, 2.1, next.EaseFactor, 1e-9)
}

func TestCalculateNextProgress_FourCorrectThenIncorrect(t *testing.T) {
	params := NewDefaultParams()
	p := newTestProgress(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		p = calculateNextProgress(p, true, now, params)
		now = now.AddDate(0, 0, 1)
	}
	require.InDelta(t, 2.9, p.EaseFactor, 1e-9)
	require.Equal(t, 4, p.CorrectCount)

	p = calculateNextProgress(p, false, now, params)

	assert.InDelta(t, 2.7, p.EaseFactor, 1e-9)
	assert.Equal(t, 1, p.Interval)
	assert.Equal(t, 4, p.CorrectCount)
	assert.Equal(t, 1, p.IncorrectCount)
	assert.Equal(t, domain.StatusLearning, p.Status)
}

func TestCalculateNextProgress_MasteryRevertsOnFailure(t *testing.T) {
	params := NewDefaultParams()
	p := newTestProgress(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		p = calculateNextProgress(p, true, now, params)
	}
	require.Equal(t, domain.StatusMastered, p.Status)

	p = calculateNextProgress(p, false, now, params)
	assert.Equal(t, domain.StatusLearning, p.Status, "mastery is not sticky")
}

func TestCalculateNextProgress_CountersAreMonotonic(t *testing.T) {
	params := NewDefaultParams()
	p := newTestProgress(t)
	now := time.Now().UTC()

	answers := []bool{true, false, true, true, false, true}
	correct, incorrect := 0, 0
	for _, ok := range answers {
		prevCorrect, prevIncorrect := p.CorrectCount, p.IncorrectCount
		p = calculateNextProgress(p, ok, now, params)
		if ok {
			correct++
		} else {
			incorrect++
		}
		assert.GreaterOrEqual(t, p.CorrectCount, prevCorrect)
		assert.GreaterOrEqual(t, p.IncorrectCount, prevIncorrect)
	}

	assert.Equal(t, correct, p.CorrectCount)
	assert.Equal(t, incorrect, p.IncorrectCount)
}
