// File: internal/service/factory.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/matchscrape/internal/config"
	"github.com/xkilldash9x/matchscrape/internal/scraper"
)

// ComponentFactory builds the components of a scrape run. The root command
// depends on this interface so tests can substitute a fake browser.
type ComponentFactory interface {
	Create(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*Components, error)
}

// concreteFactory is the production implementation of the ComponentFactory.
type concreteFactory struct{}

// NewComponentFactory creates a new production-ready component factory.
func NewComponentFactory() ComponentFactory {
	return &concreteFactory{}
}

// Create starts the browser engine and, when configured, the database sink.
func (f *concreteFactory) Create(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*Components, error) {
	components := &Components{logger: logger}

	var initializationErr error
	defer func() {
		if initializationErr != nil {
			logger.Warn("Initialization failed, shutting down partially created components.", zap.Error(initializationErr))
			components.Shutdown()
		}
	}()

	page, err := OpenPage(ctx, cfg, logger)
	if err != nil {
		initializationErr = fmt.Errorf("failed to start browser engine: %w", err)
		return nil, initializationErr
	}
	components.Page = page
	components.Pager = scraper.NewPager(cfg.Scraper(), page, logger)
	logger.Debug("Browser engine initialized.", zap.String("engine", cfg.Browser().Engine))

	if cfg.Database().URL != "" {
		dbStore, cleanup, err := InitializeStore(ctx, cfg.Database(), logger)
		if err != nil {
			initializationErr = fmt.Errorf("failed to initialize database store: %w", err)
			return nil, initializationErr
		}
		components.Store = dbStore
		components.closeStore = cleanup
		logger.Debug("Database store initialized.")
	}

	return components, nil
}
