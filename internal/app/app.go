package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/courseloop/assessment-platform/internal/attempt"
	"github.com/courseloop/assessment-platform/internal/config"
	"github.com/courseloop/assessment-platform/internal/db/repository"
	"github.com/courseloop/assessment-platform/internal/item"
	"github.com/courseloop/assessment-platform/internal/logging"
	"github.com/courseloop/assessment-platform/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	recorder *attempt.Recorder
}

// New bootstraps config, logger, Postgres, Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN()+" pool_max_conns=10")
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	itemRepo := repository.NewItemRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	itemCache := item.NewRedisCache(redisClient, cfg.Assessment.ItemCacheTTL)
	itemSvc := item.NewService(itemRepo, itemCache, logger)

	recorder := attempt.NewRecorder(attemptRepo, logger, cfg.Assessment.AttemptQueueSize, cfg.Assessment.AttemptWriteTimeout)

	itemHandler := server.NewItemHandler(itemSvc, logger)
	attemptHandler := server.NewAttemptHandler(itemSvc, recorder, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, itemHandler, attemptHandler)

	return &Application{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		http:     apiServer,
		recorder: recorder,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.recorder.Run()

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	// Stop the recorder after the HTTP server so in-flight submissions
	// can still enqueue; Stop flushes whatever is queued.
	a.recorder.Stop()

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
