package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/xkilldash9x/matchscrape/internal/config"
	"github.com/xkilldash9x/matchscrape/internal/match"
	"github.com/xkilldash9x/matchscrape/internal/reporting"
	"github.com/xkilldash9x/matchscrape/internal/service"
)

// runScrape visits every configured player with one browser session, prints
// the per-account summary to out and writes the collected records.
func runScrape(ctx context.Context, cfg config.Interface, factory service.ComponentFactory, logger *zap.Logger, out io.Writer) error {
	runID := uuid.New()
	logger = logger.With(zap.String("run_id", runID.String()))
	players := match.PlayersFromIDs(cfg.Scraper().Players)

	logger.Info("Starting match history scrape.",
		zap.Int("players", len(players)),
		zap.String("engine", cfg.Browser().Engine),
	)

	components, err := factory.Create(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize scrape components: %w", err)
	}
	defer components.Shutdown()

	records, summaries, err := components.Pager.Run(ctx, players)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Scrape aborted before all players were visited; nothing was written.", zap.Int("records", len(records)))
		}
		return err
	}

	reporting.PrintSummary(out, summaries)

	if len(records) == 0 {
		logger.Warn("No data collected; no output file was written.")
		return nil
	}

	path, err := homedir.Expand(cfg.Output().Path)
	if err != nil {
		return fmt.Errorf("failed to expand output path %s: %w", cfg.Output().Path, err)
	}
	writer, err := reporting.New(cfg.Output().Format, path)
	if err != nil {
		return err
	}
	if err := reporting.WriteAll(writer, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Saved match history.", zap.Int("records", len(records)), zap.String("path", path))

	if components.Store != nil {
		if err := components.Store.SaveRecords(ctx, runID, records); err != nil {
			return fmt.Errorf("failed to store records: %w", err)
		}
	}
	return nil
}
