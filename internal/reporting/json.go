package reporting

import (
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/matchscrape/internal/match"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonWriter emits a single indented array on Close.
type jsonWriter struct {
	out     io.WriteCloser
	records []match.Record
}

func newJSONWriter(out io.WriteCloser) *jsonWriter {
	return &jsonWriter{out: out, records: []match.Record{}}
}

func (w *jsonWriter) Write(record match.Record) error {
	w.records = append(w.records, record)
	return nil
}

func (w *jsonWriter) Close() error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return errors.Join(enc.Encode(w.records), w.out.Close())
}
