package reporting_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xkilldash9x/matchscrape/internal/match"
	"github.com/xkilldash9x/matchscrape/internal/reporting"
	"github.com/xkilldash9x/matchscrape/internal/scraper"
)

func sampleRecords(n int) []match.Record {
	records := make([]match.Record, n)
	for i := range records {
		records[i] = match.Record{
			AccountLabel: "Account 2",
			PlayerID:     "254577873",
			Hero:         []string{"Axe", "Lina", "Pudge", "Tinker", "Zeus"}[i%5],
			Result:       match.Won,
			GameMode:     "Ranked All Pick",
			Duration:     "41:07",
			StartTime:    "2024-03-01T18:22:05+00:00",
		}
		if i%2 == 1 {
			records[i].Result = match.Lost
		}
	}
	return records
}

func TestNew_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match_history.xlsx")

	w, err := reporting.New("xlsx", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "the workbook is only saved on Close")

	require.NoError(t, reporting.WriteAll(w, sampleRecords(5)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reporting.SheetName}, f.GetSheetList())
	rows, err := f.GetRows(reporting.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 6, "header plus five data rows")
	assert.Equal(t, match.Header, rows[0])
	assert.Equal(t, []string{"Account 2", "254577873", "Axe", "Won", "Ranked All Pick", "41:07", "2024-03-01T18:22:05+00:00"}, rows[1])
	assert.Equal(t, "Lost", rows[2][3])

	styleID, err := f.GetCellStyle(reporting.SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestNew_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	w, err := reporting.New("csv", path)
	require.NoError(t, err)
	records := sampleRecords(3)
	records[0].GameMode = "All Pick, Turbo"
	require.NoError(t, reporting.WriteAll(w, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, match.Header, rows[0])
	assert.Equal(t, "All Pick, Turbo", rows[1][4])
}

func TestNew_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	w, err := reporting.New("json", path)
	require.NoError(t, err)
	require.NoError(t, reporting.WriteAll(w, sampleRecords(2)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"account_label": "Account 2"`)

	var got []match.Record
	require.NoError(t, jsoniter.Unmarshal(data, &got))
	assert.Equal(t, sampleRecords(2), got)
}

func TestNew_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.ods")

	w, err := reporting.New("ods", path)
	assert.Nil(t, w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format: ods")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file is created for an unknown format")
}

func TestNew_UnwritablePath(t *testing.T) {
	_, err := reporting.New("csv", filepath.Join(t.TempDir(), "missing", "dir", "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	reporting.PrintSummary(&buf, []scraper.Summary{
		{Player: match.Player{ID: "1457931980", Label: "Account 1"}, Status: scraper.StatusTimedOut},
		{Player: match.Player{ID: "254577873", Label: "Account 2"}, Pages: 2, Records: 5, Wins: 3, Losses: 2, Status: scraper.StatusOK},
	})

	out := buf.String()
	for _, want := range []string{"ACCOUNT", "PAGES VISITED", "Account 1", "1457931980", "timed out", "Account 2", "ok", "TOTAL"} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasPrefix(out, "╭"), "rounded style")
}
