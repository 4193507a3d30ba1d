package dataset

import (
	"fmt"
	"math"
)

// ============================================================================
// DATASET — Immutable typed table + read-only View interface
// ============================================================================
// The engine never copies rows. Filtering, grouping and export all read
// through View; a Dataset is the root view, result tables are index lists
// into it.
// ============================================================================

// View provides indexed, read-only access to a table of typed values.
// Value is called in tight loops; keep implementations cheap.
type View interface {
	Len() int
	Columns() []Column
	ColumnIndex(name string) (int, error)
	Value(row, col int) Value
}

// Column describes one column of a Dataset.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

type observedRange struct {
	min, max float64
	ok       bool
}

// Dataset is an ordered, immutable sequence of rows aligned to its columns.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    [][]Value
	ranges  []observedRange
}

// New builds a Dataset from already-typed rows. Every row must have exactly
// one value per column and values must match the column kind or be missing.
func New(columns []Column, rows [][]Value) (*Dataset, error) {
	if err := checkHeader(columnNames(columns)); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, &RowArityError{Line: i + 2, Want: len(columns), Got: len(row)}
		}
		for j, v := range row {
			if !v.IsMissing() && v.Kind() != columns[j].Kind {
				return nil, fmt.Errorf("row %d column %q: %s value in %s column",
					i+1, columns[j].Name, v.Kind(), columns[j].Kind)
			}
		}
	}
	return newDataset(append([]Column(nil), columns...), rows), nil
}

func newDataset(columns []Column, rows [][]Value) *Dataset {
	ds := &Dataset{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		rows:    rows,
		ranges:  make([]observedRange, len(columns)),
	}
	for i, c := range columns {
		ds.index[c.Name] = i
	}
	for j, c := range columns {
		if c.Kind != KindNumber {
			continue
		}
		r := observedRange{min: math.Inf(1), max: math.Inf(-1)}
		for _, row := range rows {
			if f, ok := row[j].Float(); ok {
				r.ok = true
				r.min = math.Min(r.min, f)
				r.max = math.Max(r.max, f)
			}
		}
		ds.ranges[j] = r
	}
	return ds
}

func (d *Dataset) Len() int { return len(d.rows) }

// Columns returns a copy of the column list in header order.
func (d *Dataset) Columns() []Column {
	return append([]Column(nil), d.columns...)
}

// ColumnNames returns the column names in header order.
func (d *Dataset) ColumnNames() []string {
	return columnNames(d.columns)
}

// ColumnIndex resolves a column name to its position.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	if i, ok := d.index[name]; ok {
		return i, nil
	}
	return -1, &UnknownColumnError{Column: name}
}

func (d *Dataset) Value(row, col int) Value {
	if row < 0 || row >= len(d.rows) || col < 0 || col >= len(d.columns) {
		return Value{}
	}
	return d.rows[row][col]
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) []Value {
	if i < 0 || i >= len(d.rows) {
		return nil
	}
	return append([]Value(nil), d.rows[i]...)
}

// ObservedRange returns the [min, max] of the non-missing values of a numeric
// column. ok is false for non-numeric columns and for all-missing columns.
func (d *Dataset) ObservedRange(col int) (min, max float64, ok bool) {
	if col < 0 || col >= len(d.ranges) {
		return 0, 0, false
	}
	r := d.ranges[col]
	return r.min, r.max, r.ok
}

func columnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}
