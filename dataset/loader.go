package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spektr-org/clusterlens/internal/logger"
)

// ============================================================================
// LOADER — Parses raw CSV bytes into a typed Dataset
// ============================================================================
// All-or-nothing: any error aborts the load, no partial Dataset is returned.
//
// Policies:
//   - header cells are trimmed; empty or duplicate names are rejected
//   - every field is trimmed; an empty field is missing
//   - rows must have exactly as many fields as the header (no padding)
// ============================================================================

// DefaultMaxBytes bounds the size of an accepted upload.
const DefaultMaxBytes int64 = 50 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	maxBytes int64
	comma    rune
}

// WithMaxBytes sets the upload size bound. n <= 0 disables the bound.
func WithMaxBytes(n int64) Option {
	return func(c *loadConfig) {
		c.maxBytes = n
	}
}

// WithComma sets the field delimiter (default ',').
func WithComma(r rune) Option {
	return func(c *loadConfig) {
		c.comma = r
	}
}

func applyOptions(opts []Option) *loadConfig {
	cfg := &loadConfig{
		maxBytes: DefaultMaxBytes,
		comma:    ',',
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load parses UTF-8 CSV bytes whose first line is the header.
func Load(raw []byte, opts ...Option) (*Dataset, error) {
	cfg := applyOptions(opts)

	if cfg.maxBytes > 0 && int64(len(raw)) > cfg.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(raw), cfg.maxBytes)
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = cfg.comma
	reader.FieldsPerRecord = -1 // arity is checked here to report our own error

	// 1. Header
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedHeader)
	}
	if err != nil {
		return nil, wrapParseError(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	// 2. Rows
	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapParseError(err)
		}
		if len(rec) != len(header) {
			line, _ := reader.FieldPos(0)
			return nil, &RowArityError{Line: line, Want: len(header), Got: len(rec)}
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		records = append(records, rec)
	}

	// 3. Infer kinds, then coerce every cell once
	columns := make([]Column, len(header))
	for j, name := range header {
		columns[j] = Column{Name: name, Kind: inferKind(records, j)}
	}

	rows := make([][]Value, len(records))
	for i, rec := range records {
		row := make([]Value, len(rec))
		for j, text := range rec {
			row[j] = coerce(text, columns[j].Kind)
		}
		rows[i] = row
	}

	logger.Debugf("load: %d rows, %d columns", len(rows), len(columns))
	return newDataset(columns, rows), nil
}

// checkHeader rejects empty and duplicate column names.
func checkHeader(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: no columns", ErrMalformedHeader)
	}
	seen := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("%w: empty column name at position %d", ErrMalformedHeader, i+1)
		}
		if first, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate column %q at positions %d and %d", ErrMalformedHeader, name, first+1, i+1)
		}
		seen[name] = i
	}
	return nil
}

func wrapParseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.StartLine, Err: pe.Err}
	}
	return fmt.Errorf("%w: %v", ErrMalformedCSV, err)
}
