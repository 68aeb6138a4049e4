package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/scrollwindow/internal/config"
	"github.com/maxviazov/scrollwindow/internal/handler"
	"github.com/maxviazov/scrollwindow/internal/logger"
	"github.com/maxviazov/scrollwindow/internal/repository"
	"github.com/maxviazov/scrollwindow/internal/repository/memory"
	"github.com/maxviazov/scrollwindow/internal/repository/postgres"
	"github.com/maxviazov/scrollwindow/internal/service"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	appLogger.Info().Str("storage", cfg.App.Storage).Msg("Config loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("service stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	var (
		entries  repository.EntryRepository
		pinger   repository.Pinger
		snapshot repository.TxManager
	)
	switch cfg.App.Storage {
	case "memory":
		entries, pinger, snapshot = memory.NewEntryRepository(), memory.NewPinger(), memory.NewTxManager()
	default:
		repo, err := repository.New(ctx, cfg, &appLogger)
		if err != nil {
			return fmt.Errorf("postgres connection failed: %w", err)
		}
		defer repo.Close()
		entries, pinger = postgres.NewEntryRepository(repo.Pool()), postgres.NewPinger(repo.Pool())
		snapshot = postgres.NewSnapshotTxManager(repo.Pool())
	}

	entrySvc := service.NewEntryService(entries, snapshot, service.Limits{
		Default: cfg.Scroll.DefaultLimit,
		Max:     cfg.Scroll.MaxLimit,
	}, appLogger)

	if cfg.App.Env == "prod" || cfg.App.Env == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), handler.RequestLogger(appLogger))
	handler.Register(engine, pinger, entrySvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Msg("🚀 Service started")
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

	appLogger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
