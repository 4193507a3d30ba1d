package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/spektr-org/clusterlens/dataset"
)

const parquetSchemaName = "clusterlens"

// ParquetSchema maps view columns to optional Parquet leaves: numeric →
// DOUBLE, boolean → BOOLEAN, categorical → UTF-8 string.
func ParquetSchema(columns []dataset.Column) *parquet.Schema {
	group := parquet.Group{}
	for _, c := range columns {
		group[c.Name] = parquet.Optional(parquetNode(c.Kind))
	}
	return parquet.NewSchema(parquetSchemaName, group)
}

func parquetNode(kind dataset.Kind) parquet.Node {
	switch kind {
	case dataset.KindNumber:
		return parquet.Leaf(parquet.DoubleType)
	case dataset.KindBool:
		return parquet.Leaf(parquet.BooleanType)
	default:
		return parquet.String()
	}
}

// WriteParquet writes view to w as a single Snappy-compressed Parquet file.
// Missing cells are nulls.
func WriteParquet(w io.Writer, view dataset.View) error {
	columns := view.Columns()
	schema := ParquetSchema(columns)

	// parquet groups order their fields by name; map each view column to
	// its leaf index
	leaves := make([]int, len(columns))
	for j, c := range columns {
		leaf, ok := schema.Lookup(c.Name)
		if !ok {
			return fmt.Errorf("column %q missing from parquet schema", c.Name)
		}
		leaves[j] = leaf.ColumnIndex
	}

	writer := parquet.NewWriter(w, schema, parquet.Compression(&parquet.Snappy))

	const batchSize = 1024
	batch := make([]parquet.Row, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := writer.WriteRows(batch); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for i := 0; i < view.Len(); i++ {
		row := make(parquet.Row, len(columns))
		for j := range columns {
			row[leaves[j]] = parquetValue(view.Value(i, j), leaves[j])
		}
		batch = append(batch, row)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func parquetValue(v dataset.Value, column int) parquet.Value {
	if f, ok := v.Float(); ok {
		return parquet.DoubleValue(f).Level(0, 1, column)
	}
	if b, ok := v.Bool(); ok {
		return parquet.BooleanValue(b).Level(0, 1, column)
	}
	if v.IsMissing() {
		return parquet.NullValue().Level(0, 0, column)
	}
	return parquet.ByteArrayValue([]byte(v.Text())).Level(0, 1, column)
}
