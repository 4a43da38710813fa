// Package main is the entry point for the travel graph API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/travel-graph/backend/internal/config"
	"github.com/pkordes/travel-graph/backend/internal/domain"
	"github.com/pkordes/travel-graph/backend/internal/enrich"
	"github.com/pkordes/travel-graph/backend/internal/event"
	"github.com/pkordes/travel-graph/backend/internal/geocode"
	"github.com/pkordes/travel-graph/backend/internal/handler"
	"github.com/pkordes/travel-graph/backend/internal/middleware"
	"github.com/pkordes/travel-graph/backend/internal/repo"
	"github.com/pkordes/travel-graph/backend/internal/service"
	"github.com/pkordes/travel-graph/backend/migrations"
	"github.com/pkordes/travel-graph/backend/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := migrate(context.Background(), cfg.DatabaseURL, logger); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// --- Graph ------------------------------------------------------------
	var enricher *enrich.Enricher
	if !cfg.Enrich.Disabled {
		geo := geocode.NewClient(geocode.Options{
			BaseURL:   cfg.Geocoder.URL,
			UserAgent: cfg.Geocoder.UserAgent,
			Timeout:   cfg.Geocoder.Timeout,
			CacheSize: cfg.Geocoder.CacheSize,
			CacheTTL:  cfg.Geocoder.CacheTTL,
		}, nil, logger.With("component", "geocode"))
		enricher = enrich.New(geo, cfg.Enrich.Concurrency, logger.With("component", "enrich"))
	}

	bus := event.NewBus()
	unsubscribe := bus.Subscribe(func(evt domain.UpdateEvent) {
		slog.Info("graph updated", "from", evt.From, "status", evt.Status)
	})
	defer unsubscribe()

	graphSvc := service.NewGraphService(
		repo.NewDocumentRepo(pool), cfg.DocumentKey, enricher, bus, logger.With("component", "graph"),
	)
	defer graphSvc.Close()

	// An empty store is not fatal: the server starts with an empty graph and
	// picks up the document on the first upload or refresh.
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	graphSvc.Refresh(startCtx)
	cancelStart()

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	api := handler.NewServer(graphSvc,
		handler.WithOpenAPI(spec.OpenAPI),
		handler.WithBodyLimit(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes)),
	)
	r.Mount("/", api.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies the embedded goose migrations. goose works on database/sql,
// so it gets its own short-lived connection through the pgx stdlib driver.
func migrate(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, res := range results {
		log.Info("migration applied", "version", res.Source.Version, "duration_ms", res.Duration.Milliseconds())
	}
	return nil
}
