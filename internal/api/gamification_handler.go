package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kanaflash/kana-api/internal/api/shared"
	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/service"
	"github.com/kanaflash/kana-api/internal/store"
)

// GamificationHandler serves the experience, level, achievement, and streak
// endpoints.
type GamificationHandler struct {
	gamification service.GamificationService
	users        store.UserStore
	validator    *validator.Validate
}

// NewGamificationHandler creates a new GamificationHandler.
func NewGamificationHandler(
	gamification service.GamificationService,
	users store.UserStore,
) *GamificationHandler {
	return &GamificationHandler{
		gamification: gamification,
		users:        users,
		validator:    validator.New(),
	}
}

// Achievements handles GET /gamification/achievements: the full catalog.
func (h *GamificationHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.gamification.Achievements(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list achievements")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AchievementListResponse{Achievements: achievements})
}

// UserAchievements handles GET /gamification/user-achievements: the catalog
// annotated with the user's grant state, granted entries first.
func (h *GamificationHandler) UserAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	granted, err := h.gamification.UserAchievements(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list user achievements")
		return
	}

	all, err := h.gamification.Achievements(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list achievements")
		return
	}

	grantedByID := make(map[int64]*domain.UserAchievement, len(granted))
	for _, ua := range granted {
		grantedByID[ua.AchievementID] = ua
	}

	merged := make([]*AchievementStatus, 0, len(all))
	for _, ua := range granted {
		if ua.Achievement == nil {
			continue
		}
		at := ua.AchievedAt
		merged = append(merged, &AchievementStatus{
			Achievement: ua.Achievement,
			Achieved:    true,
			AchievedAt:  &at,
		})
	}
	for _, a := range all {
		if _, ok := grantedByID[a.ID]; ok {
			continue
		}
		merged = append(merged, &AchievementStatus{Achievement: a})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserAchievementsResponse{Achievements: merged})
}

// Levels handles GET /gamification/levels: the static level table.
func (h *GamificationHandler) Levels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.gamification.Levels(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list levels")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LevelListResponse{Levels: levels})
}

// UserLevel handles GET /gamification/user-level.
func (h *GamificationHandler) UserLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	info, err := h.gamification.UserLevel(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load level info")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserLevelResponse{Level: info})
}

// Streak handles GET /gamification/streak.
func (h *GamificationHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StreakResponse{
		CurrentStreak: user.StreakCount,
		LastStudyDate: user.StreakLastDate,
	})
}

// AddExp handles POST /gamification/add-exp: a manual experience grant
// followed by an achievement check.
func (h *GamificationHandler) AddExp(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req AddExpRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.gamification.AddExperience(r.Context(), userID, req.Amount, req.Reason)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add experience")
		return
	}

	newAchievements, err := h.gamification.CheckAchievements(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check achievements")
		return
	}
	if newAchievements == nil {
		newAchievements = []*domain.UserAchievement{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AddExpResponse{
		User:            NewUserResponse(result.User),
		ExpGained:       result.ExpGained,
		OldLevel:        result.OldLevel,
		NewLevel:        result.NewLevel,
		LevelUp:         result.LevelUp,
		Reason:          result.Reason,
		NewAchievements: newAchievements,
	})
}
