package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mapalengke/backend/config"
	"github.com/mapalengke/backend/internal/domain"
	"github.com/mapalengke/backend/internal/infrastructure/cache"
	"github.com/mapalengke/backend/internal/infrastructure/postgres"
	"github.com/mapalengke/backend/internal/infrastructure/supabase"
	"github.com/mapalengke/backend/internal/usecase"
	"go.uber.org/zap"
)

// app bundles the wired dependencies of one command invocation
type app struct {
	directory *usecase.DirectoryService
	verifier  domain.SessionVerifier
	closers   []func() error
}

// Close releases the cache janitor and database connections
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// newApp selects the backend from configuration and builds the directory service
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	var supabaseClient *supabase.Client
	if cfg.Backend.URL != "" && cfg.Backend.AnonKey != "" {
		supabaseClient = supabase.NewClient(supabase.Config{
			BaseURL:           cfg.Backend.URL,
			AnonKey:           cfg.Backend.AnonKey,
			RequestsPerSecond: cfg.Backend.RequestsPerSecond,
			Burst:             cfg.Backend.Burst,
			Timeout:           cfg.Backend.Timeout,
			MaxRetries:        cfg.Backend.MaxRetries,
		}, logger)
		// sign-in is always verified by the hosted auth API
		a.verifier = supabaseClient
	}

	var repo domain.DirectoryRepository
	switch cfg.Backend.Type {
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.Backend.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		repo = postgres.NewPGRepository(db)
		logger.Info("using postgres backend")
	case config.BackendREST:
		if supabaseClient == nil {
			return nil, fmt.Errorf("rest backend requires url and anon key")
		}
		repo = supabaseClient
		logger.Info("using rest backend", zap.String("url", cfg.Backend.URL))
	default:
		return nil, fmt.Errorf("unknown backend type %q", cfg.Backend.Type)
	}

	memoryCache := cache.NewMemoryCache(0)
	a.closers = append(a.closers, memoryCache.Close)

	a.directory = usecase.NewDirectoryService(repo, memoryCache, logger, usecase.DirectoryServiceConfig{
		CacheTTL:   cfg.Cache.TTL,
		MarketName: cfg.Server.MarketName,
	})
	return a, nil
}
