package engine

import (
	"github.com/spektr-org/clusterlens/dataset"
)

// ============================================================================
// RESULT TABLE — filtered subset (zero-copy)
// ============================================================================
// Holds ascending indices into the source view. Columns and values are read
// through the source, so a ResultTable can be exported or summarized exactly
// like a Dataset.
// ============================================================================

// ResultTable is an order-preserving subsequence of a source view.
type ResultTable struct {
	source  dataset.View
	indices []int
}

var _ dataset.View = (*ResultTable)(nil)

func newResultTable(source dataset.View, indices []int) *ResultTable {
	return &ResultTable{source: source, indices: indices}
}

// allRows returns a ResultTable over every row of source.
func allRows(source dataset.View) *ResultTable {
	indices := make([]int, source.Len())
	for i := range indices {
		indices[i] = i
	}
	return newResultTable(source, indices)
}

func (t *ResultTable) Len() int { return len(t.indices) }

func (t *ResultTable) Columns() []dataset.Column { return t.source.Columns() }

func (t *ResultTable) ColumnIndex(name string) (int, error) {
	return t.source.ColumnIndex(name)
}

func (t *ResultTable) Value(row, col int) dataset.Value {
	if row < 0 || row >= len(t.indices) {
		return dataset.Missing()
	}
	return t.source.Value(t.indices[row], col)
}

// SourceIndex maps row i of the table to its position in the source.
func (t *ResultTable) SourceIndex(i int) int {
	if i < 0 || i >= len(t.indices) {
		return -1
	}
	return t.indices[i]
}

// Indices returns a copy of the source positions, ascending.
func (t *ResultTable) Indices() []int {
	out := make([]int, len(t.indices))
	copy(out, t.indices)
	return out
}

// Row returns a copy of row i.
func (t *ResultTable) Row(i int) []dataset.Value {
	if i < 0 || i >= len(t.indices) {
		return nil
	}
	cols := t.source.Columns()
	row := make([]dataset.Value, len(cols))
	for j := range cols {
		row[j] = t.source.Value(t.indices[i], j)
	}
	return row
}

// ============================================================================
// SUB VIEW — group of rows inside any view
// ============================================================================

type subView struct {
	parent  dataset.View
	indices []int
}

func newSubView(parent dataset.View, indices []int) dataset.View {
	return &subView{parent: parent, indices: indices}
}

func (v *subView) Len() int { return len(v.indices) }
func (v *subView) Columns() []dataset.Column { return v.parent.Columns() }
func (v *subView) ColumnIndex(name string) (int, error) { return v.parent.ColumnIndex(name) }

func (v *subView) Value(row, col int) dataset.Value {
	if row < 0 || row >= len(v.indices) {
		return dataset.Missing()
	}
	return v.parent.Value(v.indices[row], col)
}
