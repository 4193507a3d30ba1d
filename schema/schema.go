package schema

import "github.com/spektr-org/clusterlens/dataset"

// ============================================================================
// SCHEMA — Logical shape of a loaded dataset
// ============================================================================
// Derived from a Dataset, never edited. The presentation layer builds its
// filter widgets from the domains recorded here: multi-selects for
// categorical/boolean columns, range sliders for numeric ones.
// ============================================================================

// Schema describes every column of a dataset plus the designated cluster-id column.
type Schema struct {
	ClusterColumn string         `json:"clusterColumn"`
	RowCount      int            `json:"rowCount"`
	Columns       []ColumnSchema `json:"columns"`
}

// ColumnSchema describes one column and its filter domain.
type ColumnSchema struct {
	Name        string       `json:"name"`
	Key         string       `json:"key"`         // snake_case form of Name
	DisplayName string       `json:"displayName"` // "parsed_category" → "Parsed Category"
	Type        dataset.Kind `json:"type"`

	// Categorical/boolean: distinct observed values in canonical order.
	Domain []string `json:"domain,omitempty"`

	// Numeric: observed range. Nil when the column has no values.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	DistinctCount   int    `json:"distinctCount"`
	MissingCount    int    `json:"missingCount"`
	List            bool   `json:"list,omitempty"` // every value is a "[a, b]" or multi-line list
	CardinalityHint string `json:"cardinalityHint"`
}

// Column looks up a column by name.
func (s *Schema) Column(name string) (ColumnSchema, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSchema{}, false
}

// ColumnNames returns all column names in dataset order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// OfType returns the names of the columns of one type, in dataset order.
func (s *Schema) OfType(kind dataset.Kind) []string {
	var names []string
	for _, c := range s.Columns {
		if c.Type == kind {
			names = append(names, c.Name)
		}
	}
	return names
}
