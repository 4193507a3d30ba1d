// Package export encodes any dataset.View (a loaded Dataset or a filtered
// ResultTable) as CSV, JSON or Parquet.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/spektr-org/clusterlens/dataset"
)

// ============================================================================
// CSV EXPORT — View → normalized CSV
// ============================================================================
// Header = column names in order, one record per row in view order.
// Each field is the trimmed source text; missing cells are empty fields.
// Quoting only when needed, "\n" line endings. Loading the output yields a
// dataset equal to the one that was exported.
// ============================================================================

// Option configures the CSV writer.
type Option func(*csvConfig)

type csvConfig struct {
	comma rune
}

// WithComma sets the field delimiter. Defaults to ','.
func WithComma(r rune) Option {
	return func(c *csvConfig) {
		c.comma = r
	}
}

// EncodeCSV returns the CSV encoding of view.
func EncodeCSV(view dataset.View, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, view, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV streams the CSV encoding of view to w.
func WriteCSV(w io.Writer, view dataset.View, opts ...Option) error {
	cfg := &csvConfig{comma: ','}
	for _, opt := range opts {
		opt(cfg)
	}

	cw := csv.NewWriter(w)
	cw.Comma = cfg.comma

	columns := view.Columns()
	header := make([]string, len(columns))
	for j, c := range columns {
		header[j] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(columns))
	for i := 0; i < view.Len(); i++ {
		for j := range columns {
			record[j] = view.Value(i, j).Text()
		}

		// a lone empty field would be written as a blank line, which readers skip
		if len(record) == 1 && record[0] == "" {
			cw.Flush()
			if _, err := io.WriteString(w, `""`+"\n"); err != nil {
				return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
			}
			continue
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
