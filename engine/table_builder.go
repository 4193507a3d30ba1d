package engine

import (
	"github.com/spektr-org/clusterlens/dataset"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from any view
// ============================================================================
// Row per record, columns in header order. Missing cells render as
// MissingText; all other cells render their source text.
// ============================================================================

// MissingText is the display form of a missing cell.
const MissingText = "—"

// BuildTable renders the rows of view. limit > 0 caps the number of rows;
// Total always reports view.Len().
func BuildTable(view dataset.View, limit int) *TableData {
	columns := view.Columns()
	table := &TableData{
		Columns: make([]TableColumn, 0, len(columns)),
		Rows:    [][]string{},
		Total:   view.Len(),
	}

	for _, c := range columns {
		table.Columns = append(table.Columns, tableColumn(c))
	}

	n := view.Len()
	if limit > 0 && n > limit {
		n = limit
		table.Truncated = true
	}

	for i := 0; i < n; i++ {
		row := make([]string, len(columns))
		for j := range columns {
			v := view.Value(i, j)
			if v.IsMissing() {
				row[j] = MissingText
				continue
			}
			row[j] = v.Text()
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func tableColumn(c dataset.Column) TableColumn {
	col := TableColumn{Key: c.Name, Label: c.Name, Type: "text", Align: "left"}
	switch c.Kind {
	case dataset.KindNumber:
		col.Type, col.Align = "number", "right"
	case dataset.KindBool:
		col.Type, col.Align = "boolean", "center"
	}
	return col
}
