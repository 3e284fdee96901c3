// Package server initializes and runs the public feed server. It selects the
// published-item store (PostgreSQL or memory), applies migrations, and serves
// the HTTP API until the context is cancelled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/mediavault/internal/logging"
	"github.com/dmitrijs2005/mediavault/internal/server/config"
	"github.com/dmitrijs2005/mediavault/internal/server/httpapi"
	"github.com/dmitrijs2005/mediavault/internal/server/migrations"
	"github.com/dmitrijs2005/mediavault/internal/server/published"
	"github.com/dmitrijs2005/mediavault/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

// runMigrations is a seam for tests.
var runMigrations = migrations.RunMigrations

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	repo    published.Repository
	uploads httpapi.Uploader
}

// NewApp opens the configured store. An empty DatabaseDSN keeps the feed in
// memory.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app := &App{config: c, logger: logger, uploads: storage.NewPresigner(c)}

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, published items are kept in memory")
		app.repo = published.NewMemoryRepository()
		return app, nil
	}

	db, err := openPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.repo = published.NewPostgresRepository(db)
	return app, nil
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

// Handler builds the HTTP handler of the API.
func (app *App) Handler() http.Handler {
	return httpapi.NewHandler(app.repo, app.uploads, app.logger, app.config.SecretKey).Router()
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	defer app.close(ctx)

	srv := &http.Server{
		Addr:              app.config.EndpointAddr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (app *App) close(ctx context.Context) {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "close database", "err", err)
	}
}
