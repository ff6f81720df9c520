package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vox-populi/internal/auth"
	"vox-populi/internal/clock"
	"vox-populi/internal/config"
	"vox-populi/internal/database"
	"vox-populi/internal/jobs"
	"vox-populi/internal/logger"
	"vox-populi/internal/metrics"
	"vox-populi/internal/repository"
	"vox-populi/internal/router"
	"vox-populi/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New("vox-populi", "info").WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New("vox-populi", cfg.App.LogLevel)
	gin.SetMode(cfg.Server.GinMode)

	tokens, err := auth.NewTokenManager(cfg.App.JWTSecret, cfg.App.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize tokens")
	}

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	clk := clock.System{}
	m := metrics.New()

	engine, err := router.New(router.Deps{
		DB:          db,
		Tokens:      tokens,
		Clock:       clk,
		Metrics:     m,
		Log:         log,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Cancelled on SIGINT/SIGTERM or when either goroutine fails
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if cfg.App.ConclusionSweep > 0 {
		repo := repository.NewRepository(db)
		watcher := jobs.NewConclusionWatcher(repo, services.NewResultsService(repo, clk), clk, m, log, cfg.App.ConclusionSweep)
		g.Go(func() error {
			watcher.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server stopped with error")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server exited")
}
