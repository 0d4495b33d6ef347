package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/workoutlog/internal/api"
	"example.com/workoutlog/internal/config"
	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/persistence/jsonfile"
	"example.com/workoutlog/internal/persistence/postgres"
	httptransport "example.com/workoutlog/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, cleanup, err := openRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer cleanup()

	workouts := domain.NewWorkoutService(repo)
	library := domain.NewLibraryService(repo)

	handler := api.NewHandler(workouts, library)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, mux)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("workoutlog listening on %s (backend=%s)", cfg.HTTPAddress, cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// openRepository selects the persistence strategy from config. Both return the
// same domain.Repository contract; the schema bootstrap for Postgres runs
// before the server accepts traffic.
func openRepository(ctx context.Context, cfg config.Config) (domain.Repository, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		store, err := jsonfile.NewStore(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
