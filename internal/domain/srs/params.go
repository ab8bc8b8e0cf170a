// Package srs implements the spaced-repetition scheduling algorithm, an
// SM-2 variant driven by a boolean correctness outcome per review.
package srs

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Core limits
	MinEaseFactor     float64
	DefaultEaseFactor float64

	// Per-outcome ease adjustments. The bonus is uncapped; the penalty is
	// clamped at MinEaseFactor.
	CorrectEaseBonus     float64
	IncorrectEasePenalty float64

	// First-ever correct answer schedules this many days out.
	FirstCorrectInterval int
	// Any incorrect answer resets the interval to this many days.
	RelearnInterval int

	// Mastery rule: correct answer AND CorrectCount >= MasteryMinCorrect AND
	// CorrectCount > MasteryIncorrectRatio * IncorrectCount.
	MasteryMinCorrect     int
	MasteryIncorrectRatio int
}

// NewDefaultParams creates a Params instance with the default tuning.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     1.3,
		DefaultEaseFactor: 2.5,

		CorrectEaseBonus:     0.1,
		IncorrectEasePenalty: 0.2,

		FirstCorrectInterval: 1,
		RelearnInterval:      1,

		MasteryMinCorrect:     5,
		MasteryIncorrectRatio: 2,
	}
}
