package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/courseloop/assessment-platform/internal/config"
	"github.com/courseloop/assessment-platform/internal/logging"
)

// NewHTTPServer wires base routes (health, metrics) plus the item
// authoring and attempt grading APIs.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, items *ItemHandler, attempts *AttemptHandler) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redis); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if items != nil {
		mux.HandleFunc("POST /v1/items", items.Create)
		mux.HandleFunc("GET /v1/items/{id}", items.Get)
		mux.HandleFunc("GET /v1/items/{id}/source", items.GetSource)
		mux.HandleFunc("PUT /v1/items/{id}", items.Update)
		mux.HandleFunc("DELETE /v1/items/{id}", items.Delete)
	}
	if attempts != nil {
		mux.HandleFunc("POST /v1/items/{id}/attempts", attempts.Submit)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	return redis.Ping(ctx).Err()
}
