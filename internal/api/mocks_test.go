package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/api/shared"
	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/service"
	"github.com/kanaflash/kana-api/internal/service/auth"
	"github.com/kanaflash/kana-api/internal/store"
)

// withUserID injects an authenticated user ID the way the auth middleware
// would.
func withUserID(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// stubUserStore is a function-field store.UserStore so each test configures
// only the calls it expects.
type stubUserStore struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (s *stubUserStore) Create(ctx context.Context, user *domain.User) error {
	return s.createFn(ctx, user)
}

func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *stubUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserStore) UpdateProgression(ctx context.Context, id uuid.UUID, exp, level int) error {
	return nil
}

func (s *stubUserStore) UpdateStreak(ctx context.Context, id uuid.UUID, streakCount int, lastDate time.Time) error {
	return nil
}

func (s *stubUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// stubCharacterStore is a function-field store.CharacterStore.
type stubCharacterStore struct {
	listFn    func(ctx context.Context, script domain.Script) ([]*domain.Character, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.Character, error)
}

func (s *stubCharacterStore) GetByID(ctx context.Context, id int64) (*domain.Character, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubCharacterStore) List(ctx context.Context, script domain.Script) ([]*domain.Character, error) {
	return s.listFn(ctx, script)
}

func (s *stubCharacterStore) ListUnseen(ctx context.Context, userID uuid.UUID, script domain.Script) ([]*domain.Character, error) {
	return s.listFn(ctx, script)
}

func (s *stubCharacterStore) Count(ctx context.Context, script domain.Script) (int, error) {
	return 0, nil
}

// stubJWTService issues fixed tokens and validates against a fixed user.
type stubJWTService struct {
	userID      uuid.UUID
	validateErr error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "access-token", nil
}

func (s *stubJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "refresh-token", nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return &auth.Claims{UserID: s.userID, TokenType: "access"}, nil
}

func (s *stubJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return &auth.Claims{UserID: s.userID, TokenType: "refresh"}, nil
}

// stubPasswordVerifier accepts one password and rejects everything else.
type stubPasswordVerifier struct {
	accept string
}

func (s *stubPasswordVerifier) Compare(hashedPassword, password string) error {
	if password == s.accept {
		return nil
	}
	return auth.ErrInvalidToken
}

// stubProgressService is a function-field service.ProgressService.
type stubProgressService struct {
	recordAnswerFn func(ctx context.Context, userID uuid.UUID, characterID int64, isCorrect bool) (*service.AnswerResult, error)
	listAllFn      func(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error)
	listUnseenFn   func(ctx context.Context, userID uuid.UUID, script domain.Script) ([]*domain.Character, error)
	listDueFn      func(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error)
	statsFn        func(ctx context.Context, userID uuid.UUID) (*service.LearningStats, error)
}

func (s *stubProgressService) RecordAnswer(ctx context.Context, userID uuid.UUID, characterID int64, isCorrect bool) (*service.AnswerResult, error) {
	return s.recordAnswerFn(ctx, userID, characterID, isCorrect)
}

func (s *stubProgressService) ListAll(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	return s.listAllFn(ctx, userID)
}

func (s *stubProgressService) ListUnseen(ctx context.Context, userID uuid.UUID, script domain.Script) ([]*domain.Character, error) {
	return s.listUnseenFn(ctx, userID, script)
}

func (s *stubProgressService) ListDue(ctx context.Context, userID uuid.UUID) ([]*domain.Progress, error) {
	return s.listDueFn(ctx, userID)
}

func (s *stubProgressService) Stats(ctx context.Context, userID uuid.UUID) (*service.LearningStats, error) {
	return s.statsFn(ctx, userID)
}

// stubGamificationService is a function-field service.GamificationService.
type stubGamificationService struct {
	addExperienceFn     func(ctx context.Context, userID uuid.UUID, amount int, reason string) (*service.ExperienceResult, error)
	checkAchievementsFn func(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)
	touchStreakFn       func(ctx context.Context, userID uuid.UUID) (*service.StreakResult, error)
	userLevelFn         func(ctx context.Context, userID uuid.UUID) (*service.LevelInfo, error)
	levelsFn            func(ctx context.Context) ([]*domain.Level, error)
	achievementsFn      func(ctx context.Context) ([]*domain.Achievement, error)
	userAchievementsFn  func(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error)
}

func (s *stubGamificationService) AddExperience(ctx context.Context, userID uuid.UUID, amount int, reason string) (*service.ExperienceResult, error) {
	return s.addExperienceFn(ctx, userID, amount, reason)
}

func (s *stubGamificationService) CheckAchievements(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error) {
	return s.checkAchievementsFn(ctx, userID)
}

func (s *stubGamificationService) TouchStreak(ctx context.Context, userID uuid.UUID) (*service.StreakResult, error) {
	return s.touchStreakFn(ctx, userID)
}

func (s *stubGamificationService) UserLevel(ctx context.Context, userID uuid.UUID) (*service.LevelInfo, error) {
	return s.userLevelFn(ctx, userID)
}

func (s *stubGamificationService) Levels(ctx context.Context) ([]*domain.Level, error) {
	return s.levelsFn(ctx)
}

func (s *stubGamificationService) Achievements(ctx context.Context) ([]*domain.Achievement, error) {
	return s.achievementsFn(ctx)
}

func (s *stubGamificationService) UserAchievements(ctx context.Context, userID uuid.UUID) ([]*domain.UserAchievement, error) {
	return s.userAchievementsFn(ctx, userID)
}
