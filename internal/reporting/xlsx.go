package reporting

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/xkilldash9x/matchscrape/internal/match"
)

// SheetName is the worksheet holding the match table.
const SheetName = "Matches"

// xlsxWriter builds the workbook in memory and saves it on Close.
type xlsxWriter struct {
	path string
	file *excelize.File
	row  int
}

func newXLSXWriter(path string) (*xlsxWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	w := &xlsxWriter{path: path, file: f, row: 1}
	if err := w.writeRow(match.Header); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(match.Header), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	return w, nil
}

func (w *xlsxWriter) writeRow(values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := w.file.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", w.row, err)
	}
	w.row++
	return nil
}

func (w *xlsxWriter) Write(record match.Record) error {
	return w.writeRow(record.Row())
}

// Close applies the autofilter and column widths, then saves the workbook.
func (w *xlsxWriter) Close() error {
	defer w.file.Close()

	last, err := excelize.CoordinatesToCellName(len(match.Header), w.row-1)
	if err != nil {
		return err
	}
	if err := w.file.AutoFilter(SheetName, "A1:"+last, nil); err != nil {
		return fmt.Errorf("failed to add autofilter: %w", err)
	}
	if err := w.file.SetColWidth(SheetName, "A", "G", 16); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}
	if err := w.file.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if isStdout(w.path) {
		_, err = w.file.WriteTo(os.Stdout)
		return err
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", w.path, err)
	}
	return nil
}
