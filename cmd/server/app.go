package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/platform/postgres"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/service/authz"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	taskStore    store.TaskStore
	commentStore store.CommentStore

	tokenService auth.TokenService
	policy       *authz.Policy

	userService    *service.UserService
	taskService    *service.TaskService
	commentService *service.CommentService
}

// newApplication creates an application instance with all dependencies
// initialized. The configuration, logger, and database connection must be
// established before calling this.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("token service initialized",
		"token_validity_ms", cfg.Auth.TokenValidityMS)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewUserStore(db)
	app.taskStore = postgres.NewTaskStore(db)
	app.commentStore = postgres.NewCommentStore(db)

	app.policy, err = authz.NewPolicy(app.userStore, app.taskStore, app.commentStore)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authorization policy: %w", err)
	}

	app.userService = service.NewUserService(db, app.userStore, hasher, hasher)
	app.taskService = service.NewTaskService(db, app.taskStore, app.userStore)
	app.commentService = service.NewCommentService(db, app.commentStore, app.taskStore, app.userStore)

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
