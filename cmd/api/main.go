package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardconjurer/internal/auth"
	"cardconjurer/internal/card"
	"cardconjurer/internal/cardset"
	"cardconjurer/internal/config"
	"cardconjurer/internal/imagestore"
	"cardconjurer/internal/importer"
	"cardconjurer/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := openDB(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	policies, err := loadPolicies(cfg.ProvidersFile, log)
	if err != nil {
		return err
	}

	images := imagestore.NewFS(cfg.MediaRoot, cfg.MediaURL, cfg.ImageWidth, cfg.ImageHeight, log)

	setService := cardset.NewService(cardset.NewPostgresRepo(dbPool, cfg.DBTimeout))
	cardService := card.NewService(card.NewPostgresRepo(dbPool, cfg.DBTimeout), setService, images, log)
	importService := importer.NewService(setService, cardService, log)

	router := newRouter(cfg, dbPool, policies, handlers{
		sets:    cardset.NewHTTPHandler(setService, log),
		cards:   card.NewHTTPHandler(cardService, log),
		imports: importer.NewHTTPHandler(importService, log),
	}, log)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func openDB(ctx context.Context, dsn string, log *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", config.RedactDSN(dsn), err)
	}
	log.Info("database connection OK")
	return pool, nil
}

// loadPolicies returns nil policies when the file does not exist, which
// admits every uid as USER.
func loadPolicies(path string, log *zap.Logger) (*auth.Policies, error) {
	policies, err := auth.LoadPolicies(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("provider policy file not found, admitting all uids", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Info("provider policies loaded", zap.Strings("providers", policies.Providers()))
	return policies, nil
}
