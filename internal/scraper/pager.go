// Package scraper walks the paginated match history of each player and turns
// table rows into records.
package scraper

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/matchscrape/internal/browser"
	"github.com/xkilldash9x/matchscrape/internal/config"
	"github.com/xkilldash9x/matchscrape/internal/match"
)

// Status describes how scraping one player ended.
type Status string

const (
	StatusOK       Status = "ok"
	StatusTimedOut Status = "timed out"
	StatusFailed   Status = "failed"
)

// Summary is the per-player outcome reported at the end of a run.
type Summary struct {
	Player  match.Player
	Pages   int
	Records int
	Wins    int
	Losses  int
	Status  Status
}

func (s *Summary) add(r match.Record) {
	s.Records++
	if r.Result == match.Won {
		s.Wins++
	} else {
		s.Losses++
	}
}

// Pager drives a single browser page through every player's history, one
// page at a time. It is not safe for concurrent use.
type Pager struct {
	cfg    config.ScraperConfig
	page   browser.Page
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewPager creates a Pager over page.
func NewPager(cfg config.ScraperConfig, page browser.Page, logger *zap.Logger) *Pager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pager{
		cfg:    cfg,
		page:   page,
		logger: logger.Named("pager"),
		sleep:  sleepContext,
	}
}

// BuildURL substitutes the player id and page number into the URL template.
func (p *Pager) BuildURL(playerID string, page int) string {
	return strings.NewReplacer(
		config.PlaceholderPlayerID, playerID,
		config.PlaceholderPage, strconv.Itoa(page),
	).Replace(p.cfg.URLTemplate)
}

// Run scrapes players in order and returns every record in player, page and
// row order along with one summary per player. Only context cancellation
// stops a run early; the records gathered so far are returned with the error.
func (p *Pager) Run(ctx context.Context, players []match.Player) ([]match.Record, []Summary, error) {
	var (
		records   []match.Record
		summaries = make([]Summary, 0, len(players))
	)
	for _, player := range players {
		playerRecords, summary, err := p.ScrapePlayer(ctx, player)
		records = append(records, playerRecords...)
		summaries = append(summaries, summary)
		if err != nil {
			return records, summaries, err
		}
	}
	return records, summaries, nil
}

// ScrapePlayer collects the records of one player. A first page that fails
// to load or never shows rows skips the player; later pages end pagination
// at the first one without rows. The error is non-nil only when ctx ends.
func (p *Pager) ScrapePlayer(ctx context.Context, player match.Player) ([]match.Record, Summary, error) {
	log := p.logger.With(zap.String("account", player.Label), zap.String("player_id", player.ID))
	summary := Summary{Player: player, Status: StatusOK}

	firstURL := p.BuildURL(player.ID, 1)
	log.Info("Loading match history.", zap.String("url", firstURL))
	if err := p.page.Navigate(ctx, firstURL); err != nil {
		if ctx.Err() != nil {
			return nil, summary, ctx.Err()
		}
		log.Warn("Could not load the first page, skipping player.", zap.Error(err))
		summary.Status = StatusFailed
		return nil, summary, nil
	}

	if err := p.page.WaitPresent(ctx, p.cfg.RowSelector, p.cfg.ReadyTimeout); err != nil {
		if ctx.Err() != nil {
			return nil, summary, ctx.Err()
		}
		if errors.Is(err, browser.ErrReadinessTimeout) {
			log.Warn("Match table did not appear in time; the site may be slow or blocking automated access. Skipping player.",
				zap.Duration("timeout", p.cfg.ReadyTimeout))
			summary.Status = StatusTimedOut
		} else {
			log.Warn("Waiting for the match table failed, skipping player.", zap.Error(err))
			summary.Status = StatusFailed
		}
		return nil, summary, nil
	}

	var records []match.Record
	for pageNum := 1; ; pageNum++ {
		pageLog := log.With(zap.Int("page", pageNum))

		if pageNum > 1 {
			if err := p.page.Navigate(ctx, p.BuildURL(player.ID, pageNum)); err != nil {
				if ctx.Err() != nil {
					return records, summary, ctx.Err()
				}
				pageLog.Warn("Could not load page, ending pagination.", zap.Error(err))
				break
			}
			if err := p.sleep(ctx, p.cfg.PageSettle); err != nil {
				return records, summary, err
			}
		}

		rows, err := p.page.FindAll(ctx, p.cfg.RowSelector)
		if err != nil {
			if ctx.Err() != nil {
				return records, summary, ctx.Err()
			}
			pageLog.Warn("Could not query match rows, ending pagination.", zap.Error(err))
			break
		}
		summary.Pages++

		if len(rows) == 0 {
			pageLog.Info("No more matches, reached the end of the history.")
			break
		}
		pageLog.Info("Processing page.", zap.Int("rows", len(rows)))

		for i, row := range rows {
			record, err := ExtractRow(ctx, player, row)
			if err != nil {
				if ctx.Err() != nil {
					return records, summary, ctx.Err()
				}
				pageLog.Debug("Skipping row.", zap.Int("row", i), zap.Error(err))
				continue
			}
			records = append(records, record)
			summary.add(record)
		}

		if err := p.sleep(ctx, p.cfg.PagePause); err != nil {
			return records, summary, err
		}
	}

	log.Info("Finished player.", zap.Int("pages", summary.Pages), zap.Int("records", summary.Records))
	return records, summary, nil
}

// sleepContext pauses for d unless ctx ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
