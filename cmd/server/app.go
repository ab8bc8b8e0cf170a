package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kanaflash/kana-api/internal/config"
	"github.com/kanaflash/kana-api/internal/domain/srs"
	"github.com/kanaflash/kana-api/internal/platform/postgres"
	"github.com/kanaflash/kana-api/internal/service"
	"github.com/kanaflash/kana-api/internal/service/auth"
	"github.com/kanaflash/kana-api/internal/store"
)

// application holds the shared application dependencies so wiring and
// shutdown live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore        store.UserStore
	characterStore   store.CharacterStore
	progressStore    store.ProgressStore
	levelStore       store.LevelStore
	achievementStore store.AchievementStore

	// Services
	jwtService          auth.JWTService
	passwordVerifier    auth.PasswordVerifier
	srsService          srs.Service
	gamificationService service.GamificationService
	progressService     service.ProgressService
}

// newApplication wires all dependencies on top of the given configuration,
// logger, and database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewUserStore(db, cfg.Auth.BcryptCost, logger)
	app.characterStore = postgres.NewCharacterStore(db, logger)
	app.progressStore = postgres.NewProgressStore(db, logger)
	app.levelStore = postgres.NewLevelStore(db)
	app.achievementStore = postgres.NewAchievementStore(db, logger)

	transactioner := store.NewDBTransactioner(db)

	app.srsService = srs.NewDefaultService()
	app.gamificationService = service.NewGamificationService(
		transactioner,
		app.userStore,
		app.levelStore,
		app.achievementStore,
		app.progressStore,
		logger,
	)
	app.progressService = service.NewProgressService(
		transactioner,
		app.progressStore,
		app.characterStore,
		app.srsService,
		app.gamificationService,
		logger,
	)

	return app, nil
}

// serve starts the HTTP server and blocks until shutdown.
func (app *application) serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("shutting down server...")
	case <-serverCtx.Done():
		app.logger.Info("server context canceled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}
