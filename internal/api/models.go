package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// UserResponse is the public projection of a user record.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Exp         int        `json:"exp"`
	Level       int        `json:"level"`
	StreakCount int        `json:"streak_count"`
	StreakLast  *time.Time `json:"streak_last_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewUserResponse builds the public projection of a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Exp:         u.Exp,
		Level:       u.Level,
		StreakCount: u.StreakCount,
		StreakLast:  u.StreakLastDate,
		CreatedAt:   u.CreatedAt,
	}
}

// CharacterListResponse wraps a character listing.
type CharacterListResponse struct {
	Characters []*domain.Character `json:"characters"`
}

// CharacterResponse wraps a single character.
type CharacterResponse struct {
	Character *domain.Character `json:"character"`
}

// CharacterGroup is one phonetic row of the catalog.
type CharacterGroup struct {
	RowName    string              `json:"group_name"`
	Characters []*domain.Character `json:"characters"`
}

// CharacterGroupListResponse wraps the row-grouped catalog view.
type CharacterGroupListResponse struct {
	Groups []*CharacterGroup `json:"groups"`
}

// ProgressListResponse wraps a progress listing.
type ProgressListResponse struct {
	Progress []*domain.Progress `json:"progress"`
}

// SubmitAnswerRequest defines the payload for recording one flashcard answer.
type SubmitAnswerRequest struct {
	CharacterID int64 `json:"characterId" validate:"required,gt=0"`
	IsCorrect   *bool `json:"isCorrect"   validate:"required"`
}

// SubmitAnswerResponse wraps the outcome of one recorded answer.
type SubmitAnswerResponse struct {
	Progress        *domain.Progress          `json:"progress"`
	Streak          *service.StreakResult     `json:"streak,omitempty"`
	NewAchievements []*domain.UserAchievement `json:"newAchievements"`
}

// StatsResponse wraps the per-user learning statistics.
type StatsResponse struct {
	Stats *service.LearningStats `json:"stats"`
}

// AddExpRequest defines the payload for the manual experience grant endpoint.
type AddExpRequest struct {
	Amount int    `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason,omitempty"`
}

// AddExpResponse is the experience grant outcome plus any achievements the
// grant unlocked.
type AddExpResponse struct {
	User            UserResponse              `json:"user"`
	ExpGained       int                       `json:"expGained"`
	OldLevel        int                       `json:"oldLevel"`
	NewLevel        int                       `json:"newLevel"`
	LevelUp         bool                      `json:"levelUp"`
	Reason          string                    `json:"reason,omitempty"`
	NewAchievements []*domain.UserAchievement `json:"newAchievements"`
}

// LevelListResponse wraps the level table.
type LevelListResponse struct {
	Levels []*domain.Level `json:"levels"`
}

// UserLevelResponse wraps a user's level summary.
type UserLevelResponse struct {
	Level *service.LevelInfo `json:"level"`
}

// AchievementListResponse wraps the achievement catalog.
type AchievementListResponse struct {
	Achievements []*domain.Achievement `json:"achievements"`
}

// AchievementStatus is one achievement definition annotated with the user's
// grant state.
type AchievementStatus struct {
	*domain.Achievement
	Achieved   bool       `json:"achieved"`
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}

// UserAchievementsResponse wraps the merged achieved/unachieved catalog view.
type UserAchievementsResponse struct {
	Achievements []*AchievementStatus `json:"achievements"`
}

// StreakResponse wraps a user's current streak state.
type StreakResponse struct {
	CurrentStreak int        `json:"currentStreak"`
	LastStudyDate *time.Time `json:"lastStudyDate,omitempty"`
}
