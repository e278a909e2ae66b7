package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xkilldash9x/matchscrape/internal/browser"
	"github.com/xkilldash9x/matchscrape/internal/browser/static"
)

const testTemplate = "https://example.test/players/{player_id}/matches?page={page}"

// fakePage serves canned HTML by URL and records every navigation.
type fakePage struct {
	pages   map[string]string
	failNav map[string]error
	visited []string
	waits   int
	current *static.Document
	closed  int
}

func newFakePage() *fakePage {
	return &fakePage{pages: map[string]string{}, failNav: map[string]error{}}
}

func (f *fakePage) serve(playerID string, page int, body string) {
	f.pages[pageURL(playerID, page)] = body
}

func pageURL(playerID string, page int) string {
	r := strings.NewReplacer("{player_id}", playerID, "{page}", fmt.Sprint(page))
	return r.Replace(testTemplate)
}

func (f *fakePage) Navigate(_ context.Context, url string) error {
	f.visited = append(f.visited, url)
	f.current = nil
	if err, ok := f.failNav[url]; ok {
		return err
	}
	body, ok := f.pages[url]
	if !ok {
		body = historyTable()
	}
	doc, err := static.ParseDocument(strings.NewReader(body))
	if err != nil {
		return err
	}
	f.current = doc
	return nil
}

func (f *fakePage) WaitPresent(ctx context.Context, selector string, timeout time.Duration) error {
	f.waits++
	if f.current != nil {
		rows, _ := f.current.FindAll(ctx, selector)
		if len(rows) > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", browser.ErrReadinessTimeout, selector)
}

func (f *fakePage) FindAll(ctx context.Context, selector string) ([]browser.Element, error) {
	if f.current == nil {
		return nil, errors.New("no document")
	}
	return f.current.FindAll(ctx, selector)
}

func (f *fakePage) Close(context.Context) error {
	f.closed++
	return nil
}

// matchRow renders a well-formed six-cell row.
func matchRow(hero, result, mode, duration, start string) string {
	return fmt.Sprintf(`<tr><td><img></td><td><a href="#">%s</a></td><td></td>`+
		`<td><a href="#">%s</a><time datetime="%s">ago</time></td><td>%s</td><td>%s</td></tr>`,
		hero, result, start, mode, duration)
}

// shortRow renders a row with only four cells.
func shortRow() string {
	return `<tr><td></td><td><a>Pudge</a></td><td></td><td><a>Won Match</a></td></tr>`
}

func historyTable(rows ...string) string {
	return `<html><body><table class="sortable"><thead><tr><th>Hero</th></tr></thead><tbody>` +
		strings.Join(rows, "") + `</tbody></table></body></html>`
}

// numberedRows renders n well-formed rows with distinguishable heroes.
func numberedRows(prefix string, n int) []string {
	rows := make([]string, n)
	for i := range rows {
		result := "Lost Match"
		if i%2 == 0 {
			result = "Won Match"
		}
		rows[i] = matchRow(fmt.Sprintf("%s-%d", prefix, i), result, "All Pick", "30:00", fmt.Sprintf("2024-01-%02dT00:00:00Z", i+1))
	}
	return rows
}
