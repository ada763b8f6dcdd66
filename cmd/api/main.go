// Package main is the entry point for the Cafe Recs API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose

	"github.com/pkordes/cafe-recs/backend/internal/config"
	"github.com/pkordes/cafe-recs/backend/internal/geocode"
	"github.com/pkordes/cafe-recs/backend/internal/handler"
	"github.com/pkordes/cafe-recs/backend/internal/metrics"
	"github.com/pkordes/cafe-recs/backend/internal/middleware"
	"github.com/pkordes/cafe-recs/backend/internal/repo"
	"github.com/pkordes/cafe-recs/backend/internal/service"
	"github.com/pkordes/cafe-recs/backend/internal/thesaurus"
	"github.com/pkordes/cafe-recs/backend/internal/vibe"
	"github.com/pkordes/cafe-recs/backend/migrations"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// --- Config -----------------------------------------------------------
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the ping below does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.AutoMigrate {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// --- Domain -----------------------------------------------------------
	m := metrics.New()

	words, err := loadThesaurus(cfg.ThesaurusPath)
	if err != nil {
		slog.Error("failed to load thesaurus", "error", err)
		os.Exit(1)
	}
	slog.Info("thesaurus loaded", "words", words.Len())

	scorer := vibe.NewScorer(words,
		vibe.WithLogger(logger),
		vibe.WithFoldCase(cfg.ScorerFoldCase),
		vibe.WithLookupFailureHook(m.VibeLookupFailed),
	)

	geocoder := geocode.NewCached(geocode.NewObserved(
		geocode.NewNominatim(cfg.GeocoderURL,
			geocode.WithTimeout(cfg.GeocoderTimeout),
			geocode.WithUserAgent(cfg.GeocoderUserAgent),
			geocode.WithCountry(cfg.GeocoderCountry),
		),
		m.ObserveGeocode,
	))

	cafeRepo := repo.NewCafeRepo(pool)
	reviewRepo := repo.NewReviewRepo(pool)
	store := repo.NewStore(pool)

	cafes := service.NewCafeService(cafeRepo, reviewRepo, store, scorer,
		service.WithCafeLogger(logger),
		service.WithReviewsIngested(m.ReviewsIngested),
	)
	recs := service.NewRecommendService(cafeRepo, geocoder, logger,
		service.WithLocateTimeout(cfg.GeocoderBudget),
	)
	scores := service.NewScoreService(scorer)
	export := service.NewExportService(cafeRepo)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → Metrics → CORS → RateLimit → MaxBodySize.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy),
	// which both the logger and the rate limiter key on.
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst,
		middleware.WithOnLimited(m.RateLimited),
	)
	go limiter.Run(ctx)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMetrics(m))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	// /metrics stays outside the rate limiter so scrapes are never throttled.
	r.Handle("/metrics", m.Handler())
	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

		srv := handler.NewServer(cafes, recs, scores, pool,
			handler.WithLogger(logger),
			handler.WithVersion(version),
			handler.WithExporter(export),
		)
		srv.Routes(r)
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations over a short-lived database/sql
// connection, since goose does not speak pgxpool.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", applied)
	return nil
}

// loadThesaurus returns the embedded word list, or the file at path if set.
func loadThesaurus(path string) (*thesaurus.Thesaurus, error) {
	if path == "" {
		return thesaurus.Default()
	}
	return thesaurus.LoadFile(path)
}
