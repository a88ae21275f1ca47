// Package server initializes and runs the document library server: it opens
// the database, applies migrations, wires repositories into services, and
// serves the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/okarpovs/doclib/internal/logging"
	"github.com/okarpovs/doclib/internal/server/config"
	"github.com/okarpovs/doclib/internal/server/httpapi"
	"github.com/okarpovs/doclib/internal/server/repositories/repomanager"
	"github.com/okarpovs/doclib/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *services.UserService
	resetService    *services.ResetService
	documentService *services.DocumentService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// the database container may still be starting up
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	rs := services.NewResetService(db, rm)
	ds := services.NewDocumentService(db, rm)

	return &App{
		config:          cfg,
		logger:          logger,
		db:              db,
		userService:     us,
		resetService:    rs,
		documentService: ds,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until the context is cancelled or a signal
// arrives, then shuts down gracefully and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	handler := httpapi.NewHandler(app.userService, app.resetService, app.documentService, app.logger)
	router := httpapi.NewRouter(handler, []byte(app.config.SecretKey), app.config.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server error", "error", err)
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
