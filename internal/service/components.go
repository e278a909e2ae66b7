// File: internal/service/components.go
package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/matchscrape/internal/browser"
	"github.com/xkilldash9x/matchscrape/internal/scraper"
	"github.com/xkilldash9x/matchscrape/internal/store"
)

// shutdownTimeout bounds browser teardown once the run context is gone.
const shutdownTimeout = 30 * time.Second

// Components holds everything a scrape run needs and owns their lifecycle.
type Components struct {
	Page  browser.Page
	Pager *scraper.Pager
	// Store is nil unless a database URL is configured.
	Store *store.Store

	logger       *zap.Logger
	closeStore   func()
	shutdownOnce sync.Once
}

// Shutdown releases the browser and the database pool. It is safe to call
// more than once and on partially built components.
func (c *Components) Shutdown() {
	c.shutdownOnce.Do(func() {
		logger := c.logger
		if logger == nil {
			logger = zap.NewNop()
		}
		logger.Debug("Beginning components shutdown sequence.")

		if c.Page != nil {
			logger.Info("Closing browser.")
			// Fresh context: the run context may already be cancelled.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := c.Page.Close(ctx); err != nil {
				logger.Warn("Error while closing the browser.", zap.Error(err))
			}
		}

		if c.closeStore != nil {
			c.closeStore()
		}
	})
}
