package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sports-central-api/internal/api"
	"github.com/sports-central-api/internal/auth"
	"github.com/sports-central-api/internal/clientstate"
	"github.com/sports-central-api/internal/config"
	"github.com/sports-central-api/internal/database"
	"github.com/sports-central-api/internal/models"
	"github.com/sports-central-api/internal/news"
	"github.com/sports-central-api/internal/notify"
	"github.com/sports-central-api/internal/repository"
	"github.com/sports-central-api/internal/service"
	"github.com/sports-central-api/pkg/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			return
		}
		boot := logger.New("info", "json")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Sports Central API server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Roll back one migration on request, then exit
	if cfg.Database.MigrateDown {
		if err := db.MigrateDown(); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migration")
		}
		return
	}

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Open persisted client state
	state, err := clientstate.Open(cfg.State.Path, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open client state")
	}
	defer state.Close()

	prefs := clientstate.NewPreferences(state, log)
	provider := auth.NewTokenProvider(&cfg.Auth, state, log)

	// News source
	normalizer := news.NewNormalizer(cfg.News.Locale, cfg.News.Location())
	fetcher := news.NewFetcher(&cfg.News, &http.Client{}, normalizer, log)

	// Initialize services
	notifier := notify.New(notify.DefaultCapacity, log)
	services := service.NewServices(repos, provider, prefs, fetcher, notifier, log)

	if err := services.Session.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start session gate")
	}

	// Initialize router
	router := api.NewRouter(services, db, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Initial load of the All feed; failures are already surfaced as notifications
	g.Go(func() error {
		if _, err := services.Feed.Select(gCtx, models.CategoryAll); err != nil {
			log.Warn().Err(err).Msg("Initial feed load failed")
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		services.Session.Stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}
