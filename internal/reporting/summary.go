package reporting

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/xkilldash9x/matchscrape/internal/scraper"
)

// PrintSummary renders one row per player plus a totals footer.
func PrintSummary(w io.Writer, summaries []scraper.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Account", "Player ID", "Pages Visited", "Records", "Wins", "Losses", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	var pages, records, wins, losses int
	for _, s := range summaries {
		t.AppendRow(table.Row{s.Player.Label, s.Player.ID, s.Pages, s.Records, s.Wins, s.Losses, string(s.Status)})
		pages += s.Pages
		records += s.Records
		wins += s.Wins
		losses += s.Losses
	}
	t.AppendFooter(table.Row{"Total", "", pages, records, wins, losses, ""})
	t.Render()
}
