package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kanaflash/kana-api/internal/api"
	apiMiddleware "github.com/kanaflash/kana-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	tokenLifetime := time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier, tokenLifetime)
	characterHandler := api.NewCharacterHandler(app.characterStore)
	progressHandler := api.NewProgressHandler(app.progressService)
	gamificationHandler := api.NewGamificationHandler(app.gamificationService, app.userStore)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			// Character catalog
			r.Get("/characters", characterHandler.List)
			r.Get("/characters/grouped", characterHandler.Grouped)
			r.Get("/characters/{id}", characterHandler.Get)

			// Learning progress
			r.Get("/progress", progressHandler.ListAll)
			r.Post("/progress", progressHandler.SubmitAnswer)
			r.Get("/progress/not-learned", progressHandler.ListUnseen)
			r.Get("/progress/review-due", progressHandler.ListDue)
			r.Get("/progress/stats", progressHandler.Stats)

			// Gamification
			r.Get("/gamification/achievements", gamificationHandler.Achievements)
			r.Get("/gamification/user-achievements", gamificationHandler.UserAchievements)
			r.Get("/gamification/levels", gamificationHandler.Levels)
			r.Get("/gamification/user-level", gamificationHandler.UserLevel)
			r.Get("/gamification/streak", gamificationHandler.Streak)
			r.Post("/gamification/add-exp", gamificationHandler.AddExp)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
