// Package reporting writes collected match records to disk and renders the
// end-of-run summary.
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/xkilldash9x/matchscrape/internal/config"
	"github.com/xkilldash9x/matchscrape/internal/match"
)

// Writer receives records in output order.
type Writer interface {
	// Write appends a single record.
	Write(record match.Record) error
	// Close finalizes the output and releases the underlying file.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

func isStdout(path string) bool {
	return path == "" || path == "-" || path == "stdout"
}

// New creates a Writer for format at outputPath. "stdout", "-" or an empty
// path write to standard output.
func New(format, outputPath string) (Writer, error) {
	switch format {
	case config.FormatXLSX:
		return newXLSXWriter(outputPath)
	case config.FormatCSV, config.FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	var out io.WriteCloser
	if isStdout(outputPath) {
		out = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		out = f
	}

	if format == config.FormatCSV {
		w, err := newCSVWriter(out)
		if err != nil {
			out.Close()
			return nil, err
		}
		return w, nil
	}
	return newJSONWriter(out), nil
}

// WriteAll writes every record through w and closes it.
func WriteAll(w Writer, records []match.Record) error {
	for i, r := range records {
		if err := w.Write(r); err != nil {
			w.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return w.Close()
}
