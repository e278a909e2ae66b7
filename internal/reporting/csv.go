package reporting

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xkilldash9x/matchscrape/internal/match"
)

type csvWriter struct {
	out io.WriteCloser
	csv *csv.Writer
}

func newCSVWriter(out io.WriteCloser) (*csvWriter, error) {
	w := &csvWriter{out: out, csv: csv.NewWriter(out)}
	if err := w.csv.Write(match.Header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	return w, nil
}

func (w *csvWriter) Write(record match.Record) error {
	return w.csv.Write(record.Row())
}

func (w *csvWriter) Close() error {
	w.csv.Flush()
	return errors.Join(w.csv.Error(), w.out.Close())
}
