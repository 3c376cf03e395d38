package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"blog-cms/cache"
	"blog-cms/config"
	"blog-cms/database"
	"blog-cms/handlers"
	"blog-cms/logger"
	"blog-cms/repositories"
	"blog-cms/services"
	"blog-cms/storage"
)

const usage = `usage: blog-cms [-config path] [serve|publish-scheduled|migrate-down]`

func main() {
	configPath := flag.String("config", os.Getenv("BLOG_CONFIG"), "path to a YAML config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	command := flag.Arg(0)
	if command == "" {
		command = "serve"
	}

	switch command {
	case "serve":
		err = serve(cfg, log)
	case "publish-scheduled":
		err = publishScheduled(cfg, log)
	case "migrate-down":
		err = database.MigrateDown(cfg.Database.URL(), log)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Command failed")
	}
}

// publishScheduled runs one sweep, for use from cron.
func publishScheduled(cfg *config.Config, log zerolog.Logger) error {
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	count, err := services.NewPublishScheduler(repositories.NewStore(db), log).Run(context.Background())
	if err != nil {
		return err
	}
	log.Info().Int("published", count).Msg("Published scheduled articles")
	return nil
}

func serve(cfg *config.Config, log zerolog.Logger) error {
	log.Info().Msg("Starting blog-cms server...")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Migrate {
		if err := database.RunMigrations(cfg.Database.URL(), log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	previewCache, err := newCache(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer previewCache.Close()

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	store := repositories.NewStore(db)
	svc := handlers.Services{
		Articles: services.NewArticleService(store, log),
		Previews: services.NewPreviewService(store, previewCache, cfg.Server.BaseURL, cfg.Preview.TTL, log),
		Media:    services.NewMediaService(store, blobs, cfg.Media.MaxUploadBytes, log),
		Auth:     services.NewAuthService(store.Users(), cfg.JWT, log),
	}

	if cfg.Scheduler.Interval > 0 {
		go services.NewPublishScheduler(store, log).Start(ctx, cfg.Scheduler.Interval)
	}

	gin.SetMode(cfg.Server.Mode)
	router, err := handlers.SetupRouter(svc, cfg, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}

// newCache falls back to an in-process store when Redis is not configured.
func newCache(cfg config.RedisConfig, log zerolog.Logger) (cache.Store, error) {
	if cfg.Addr == "" {
		log.Warn().Msg("Redis not configured, preview links are kept in memory")
		return cache.NewMemoryStore(), nil
	}
	store, err := cache.NewRedisStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return store, nil
}
