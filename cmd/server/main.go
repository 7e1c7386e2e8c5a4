package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"workforce/internal/config"
	"workforce/internal/infra"
	"workforce/internal/repository"
	"workforce/internal/router"
	"workforce/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "change-me-in-production" && cfg.IsProduction() {
		log.Fatal().Msg("JWT_SECRET must be set in production")
	}
	if err := (infra.TimesheetPDF{FontPath: cfg.PDFFontPath}).Validate(); err != nil {
		log.Fatal().Err(err).Msg("PDF_FONT_PATH is not readable")
	}
	if cfg.PDFFontPath == "" {
		log.Warn().Msg("PDF_FONT_PATH not set: timesheets use Latin-1 text only")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if cfg.MigrateOnStart {
		if err := infra.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background work is wired here (composition root) so the pool and the
	// timer share the infrastructure with the HTTP side.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	smtpCB.OnTransition(func(from, to infra.CBState) {
		log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("smtp circuit breaker")
	})
	mailer := infra.NewMailer(cfg, smtpCB)
	if mailer == nil {
		log.Warn().Msg("SMTP_HOST not set: email notifications are disabled")
	}

	dispatcher := worker.NewDispatcher(rdb)
	pool := worker.NewPool(rdb, cfg.WorkerPoolSize)
	pool.Register(worker.QueueEmail, worker.JobTypeEmail, worker.NewEmailWorker(mailer))
	pool.Start(ctx)

	var bg sync.WaitGroup
	timer := worker.NewTaskTimer(repository.NewTaskRepository(db), cfg.TaskTimerInterval)
	bg.Add(1)
	go func() {
		defer bg.Done()
		timer.Run(ctx)
	}()

	r := router.New(ctx, cfg, router.Deps{DB: db, Redis: rdb, Notifier: dispatcher, Mailer: mailer})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("workforce backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	pool.Wait()
	bg.Wait()

	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
