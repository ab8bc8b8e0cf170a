package srs

import (
	"errors"
	"time"

	"github.com/kanaflash/kana-api/internal/domain"
)

// Common errors
var (
	ErrNilProgress = errors.New("progress record cannot be nil")
)

// Service defines the interface for spaced-repetition scheduling operations.
type Service interface {
	// ReviewProgress computes the progress state after one answer: counters,
	// ease factor, interval, next review time, and mastery status.
	ReviewProgress(
		progress *domain.Progress,
		isCorrect bool,
		now time.Time,
	) (*domain.Progress, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// ReviewProgress implements the Service interface.
func (s *defaultService) ReviewProgress(
	progress *domain.Progress,
	isCorrect bool,
	now time.Time,
) (*domain.Progress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	return calculateNextProgress(progress, isCorrect, now, s.params), nil
}
