package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kanaflash/kana-api/internal/api/shared"
	"github.com/kanaflash/kana-api/internal/domain"
	"github.com/kanaflash/kana-api/internal/service"
)

// ProgressHandler serves the spaced-repetition endpoints.
type ProgressHandler struct {
	progressService service.ProgressService
	validator       *validator.Validate
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		validator:       validator.New(),
	}
}

// ListAll handles GET /progress: every record of the user, newest first.
func (h *ProgressHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	progress, err := h.progressService.ListAll(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProgressListResponse{Progress: progress})
}

// ListUnseen handles GET /progress/not-learned: characters the user has never
// answered, optionally filtered by ?script=.
func (h *ProgressHandler) ListUnseen(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	script, err := getScriptFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	characters, err := h.progressService.ListUnseen(r.Context(), userID, script)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list unseen characters")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CharacterListResponse{Characters: characters})
}

// ListDue handles GET /progress/review-due: records whose next review has
// passed.
func (h *ProgressHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	progress, err := h.progressService.ListDue(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due reviews")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProgressListResponse{Progress: progress})
}

// SubmitAnswer handles POST /progress: one flashcard answer.
func (h *ProgressHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.progressService.RecordAnswer(r.Context(), userID, req.CharacterID, *req.IsCorrect)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record answer")
		return
	}

	newAchievements := result.NewAchievements
	if newAchievements == nil {
		newAchievements = []*domain.UserAchievement{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubmitAnswerResponse{
		Progress:        result.Progress,
		Streak:          result.Streak,
		NewAchievements: newAchievements,
	})
}

// Stats handles GET /progress/stats.
func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.progressService.Stats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatsResponse{Stats: stats})
}
