package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/xkilldash9x/matchscrape/internal/browser"
	"github.com/xkilldash9x/matchscrape/internal/match"
)

// ErrMalformedRow marks a table row that cannot become a record.
var ErrMalformedRow = errors.New("malformed match row")

// Cell positions within a match-history row.
const (
	cellHero     = 1
	cellResult   = 3
	cellGameMode = 4
	cellDuration = 5
	minCells     = 6
)

// ExtractRow reads one table row into a record for player. Any missing cell,
// anchor or time element yields an error wrapping ErrMalformedRow, and no
// partial record.
func ExtractRow(ctx context.Context, player match.Player, row browser.Element) (match.Record, error) {
	cells, err := row.FindAll(ctx, "td")
	if err != nil {
		return match.Record{}, fmt.Errorf("%w: reading cells: %w", ErrMalformedRow, err)
	}
	if len(cells) < minCells {
		return match.Record{}, fmt.Errorf("%w: %d cells, need at least %d", ErrMalformedRow, len(cells), minCells)
	}

	hero, err := childText(ctx, cells[cellHero], "a")
	if err != nil {
		return match.Record{}, fmt.Errorf("%w: hero: %w", ErrMalformedRow, err)
	}
	result, err := childText(ctx, cells[cellResult], "a")
	if err != nil {
		return match.Record{}, fmt.Errorf("%w: result: %w", ErrMalformedRow, err)
	}
	mode, err := cells[cellGameMode].Text(ctx)
	if err != nil {
		return match.Record{}, fmt.Errorf("%w: game mode: %w", ErrMalformedRow, err)
	}
	duration, err := cells[cellDuration].Text(ctx)
	if err != nil {
		return match.Record{}, fmt.Errorf("%w: duration: %w", ErrMalformedRow, err)
	}
	stamp, err := cells[cellResult].FindFirst(ctx, "time")
	if err != nil {
		return match.Record{}, fmt.Errorf("%w: start time: %w", ErrMalformedRow, err)
	}
	start, err := stamp.Attribute(ctx, "datetime")
	if err != nil {
		return match.Record{}, fmt.Errorf("%w: start time: %w", ErrMalformedRow, err)
	}

	return match.Record{
		AccountLabel: player.Label,
		PlayerID:     player.ID,
		Hero:         hero,
		Result:       match.NormalizeResult(result),
		GameMode:     match.FirstLine(mode),
		Duration:     duration,
		StartTime:    start,
	}, nil
}

func childText(ctx context.Context, cell browser.Element, tag string) (string, error) {
	child, err := cell.FindFirst(ctx, tag)
	if err != nil {
		return "", err
	}
	return child.Text(ctx)
}
