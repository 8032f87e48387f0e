package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	telbill "github.com/set-night/telbill"
	"github.com/set-night/telbill/internal/config"
	"github.com/set-night/telbill/internal/handler"
	"github.com/set-night/telbill/internal/middleware"
	"github.com/set-night/telbill/internal/repository"
	"github.com/set-night/telbill/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up storage", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	billing := service.NewBillingService(stores, service.DefaultStrategyRegistry())
	h := handler.New(billing)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: middleware.Chain(h.Routes(),
			middleware.Recover(),
			middleware.RequestID(),
			middleware.Logging(),
		),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		ReadTimeout:       config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
		IdleTimeout:       config.IdleTimeout,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}

// buildStores selects the storage backend: Postgres with embedded migrations
// when DATABASE_URL is set, in-memory otherwise.
func buildStores(ctx context.Context, cfg *config.Config) (repository.Stores, func(), error) {
	if cfg.DatabaseURL == "" {
		slog.Info("using in-memory stores")
		return repository.NewMemoryStores(nil), func() {}, nil
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return repository.Stores{}, nil, err
	}

	migrationsFS, err := fs.Sub(telbill.MigrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return repository.Stores{}, nil, err
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		pool.Close()
		return repository.Stores{}, nil, err
	}

	slog.Info("using postgres stores")
	return repository.NewPostgresStores(pool), pool.Close, nil
}
