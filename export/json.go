package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/spektr-org/clusterlens/dataset"
)

// EncodeJSON returns view as a JSON array of objects. Keys follow column
// order; numbers and booleans are native JSON, missing cells are null.
func EncodeJSON(view dataset.View) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON streams the JSON encoding of view to w.
func WriteJSON(w io.Writer, view dataset.View) error {
	columns := view.Columns()
	keys := make([][]byte, len(columns))
	for j, c := range columns {
		key, err := json.Marshal(c.Name)
		if err != nil {
			return fmt.Errorf("failed to encode column name %q: %w", c.Name, err)
		}
		keys[j] = key
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < view.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			val, err := view.Value(i, j).MarshalJSON()
			if err != nil {
				return fmt.Errorf("failed to encode row %d column %q: %w", i+1, columns[j].Name, err)
			}
			buf.Write(keys[j])
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}
