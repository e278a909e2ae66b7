// File: internal/service/initializers.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xkilldash9x/matchscrape/internal/browser"
	"github.com/xkilldash9x/matchscrape/internal/browser/chrome"
	"github.com/xkilldash9x/matchscrape/internal/browser/static"
	"github.com/xkilldash9x/matchscrape/internal/config"
	"github.com/xkilldash9x/matchscrape/internal/store"
)

// OpenPage starts the configured browser engine. An error means the engine
// could not start and the run cannot continue.
func OpenPage(ctx context.Context, cfg config.Interface, logger *zap.Logger) (browser.Page, error) {
	switch engine := cfg.Browser().Engine; engine {
	case config.EngineChrome, "":
		session, err := chrome.New(ctx, cfg.Browser(), logger)
		if err != nil {
			return nil, err
		}
		return session, nil
	case config.EngineStatic:
		logger.Info("Using the static HTTP engine; pages are fetched without rendering.")
		return static.New(cfg.Network(), cfg.Browser().UserAgent, logger), nil
	default:
		return nil, fmt.Errorf("unsupported browser engine: %s", engine)
	}
}

// InitializeStore connects to PostgreSQL and prepares the records table. The
// returned cleanup closes the pool.
func InitializeStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*store.Store, func(), error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse PGX pool config: %w", err)
	}
	// A run writes once at the end; a small pool is plenty.
	poolConfig.MaxConns = 2
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create PGX connection pool: %w", err)
	}

	dbStore, err := store.New(ctx, pool, cfg.Table, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := dbStore.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		logger.Debug("Database connection pool closed.")
	}
	return dbStore, cleanup, nil
}
