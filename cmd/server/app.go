package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/repeat/internal/config"
	"github.com/phrazzld/repeat/internal/domain/srs"
	"github.com/phrazzld/repeat/internal/platform/postgres"
	"github.com/phrazzld/repeat/internal/service/auth"
	"github.com/phrazzld/repeat/internal/service/card_review"
	"github.com/phrazzld/repeat/internal/store"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore

	jwtService        auth.JWTService
	passwordVerifier  auth.PasswordVerifier
	cardReviewService card_review.CardReviewService
}

// newApplication wires stores and services over an open PostgreSQL pool.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	params := cfg.SRS.Params()
	srsService := srs.NewServiceWithParams(params)
	logger.Info("scheduler initialized",
		slog.String("weights_version", params.Version),
		slog.Float64("target_recall", params.TargetRecall),
		slog.Int("max_interval_days", params.MaxIntervalDays))

	cardReviewService := card_review.NewCardReviewService(
		card_review.DBTxRunner(db),
		postgres.NewPostgresCardStore(db, logger),
		postgres.NewPostgresPerformanceStore(db, logger),
		srsService,
		logger,
	)

	return &application{
		config:            cfg,
		logger:            logger,
		db:                db,
		userStore:         postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger),
		jwtService:        jwtService,
		passwordVerifier:  auth.NewBcryptVerifier(),
		cardReviewService: cardReviewService,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases
// resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
