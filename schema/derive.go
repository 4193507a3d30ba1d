package schema

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/spektr-org/clusterlens/dataset"
	"github.com/spektr-org/clusterlens/internal/logger"
)

// ============================================================================
// DERIVATION — Dataset → Schema in a single pass per column
// ============================================================================
// Column types were fixed by the loader; this pass only collects domains:
//   - categorical/boolean: distinct values, sorted for deterministic output
//   - numeric: observed [min, max]
//   - list detection and cardinality hints for the presentation layer
// ============================================================================

// ErrEmptyDataset is returned when a schema is requested for a dataset with
// no rows. Callers should render an empty state instead of filters.
var ErrEmptyDataset = errors.New("dataset has no rows")

// clusterColumnCandidates are matched against snake_case column keys, in order.
var clusterColumnCandidates = []string{"cluster_id", "cluster", "id"}

// Option configures Derive.
type Option func(*deriveConfig)

type deriveConfig struct {
	clusterColumn string
}

// WithClusterColumn designates the cluster-id column explicitly.
func WithClusterColumn(name string) Option {
	return func(c *deriveConfig) {
		c.clusterColumn = name
	}
}

// Derive computes the schema of a dataset.
func Derive(ds *dataset.Dataset, opts ...Option) (*Schema, error) {
	cfg := &deriveConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	clusterColumn, err := ResolveClusterColumn(ds, cfg.clusterColumn)
	if err != nil {
		return nil, err
	}

	columns := ds.Columns()
	sch := &Schema{
		ClusterColumn: clusterColumn,
		RowCount:      ds.Len(),
		Columns:       make([]ColumnSchema, len(columns)),
	}
	for j, col := range columns {
		sch.Columns[j] = analyzeColumn(ds, j, col)
	}

	logger.Debugf("schema: cluster column %q, %d numeric, %d boolean, %d categorical",
		clusterColumn, len(sch.OfType(dataset.KindNumber)), len(sch.OfType(dataset.KindBool)), len(sch.OfType(dataset.KindString)))
	return sch, nil
}

// ResolveClusterColumn returns the explicit column when given (failing if it
// does not exist), else the first column whose snake_case key is a known
// cluster-id name, else the first column.
func ResolveClusterColumn(view dataset.View, explicit string) (string, error) {
	if explicit != "" {
		if _, err := view.ColumnIndex(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	columns := view.Columns()
	if len(columns) == 0 {
		return "", nil
	}
	for _, candidate := range clusterColumnCandidates {
		for _, col := range columns {
			if toSnakeCase(col.Name) == candidate {
				return col.Name, nil
			}
		}
	}
	return columns[0].Name, nil
}

// analyzeColumn walks one column of the dataset once.
func analyzeColumn(ds *dataset.Dataset, j int, col dataset.Column) ColumnSchema {
	cs := ColumnSchema{
		Name:        col.Name,
		Key:         toSnakeCase(col.Name),
		DisplayName: toDisplayName(col.Name),
		Type:        col.Kind,
	}

	distinct := make(map[string]bool)
	lo, hi := math.Inf(1), math.Inf(-1)
	listCells, values := 0, 0

	for i := 0; i < ds.Len(); i++ {
		v := ds.Value(i, j)
		if v.IsMissing() {
			cs.MissingCount++
			continue
		}
		values++
		distinct[v.Key()] = true

		switch col.Kind {
		case dataset.KindNumber:
			f, _ := v.Float()
			lo = math.Min(lo, f)
			hi = math.Max(hi, f)
		case dataset.KindString:
			if dataset.IsList(v.Text()) {
				listCells++
			}
		}
	}

	cs.DistinctCount = len(distinct)

	switch col.Kind {
	case dataset.KindNumber:
		if values > 0 {
			cs.Min, cs.Max = &lo, &hi
		}
	case dataset.KindBool, dataset.KindString:
		cs.Domain = sortedDomain(distinct)
		cs.List = col.Kind == dataset.KindString && values > 0 && listCells == values
	}

	switch {
	case cs.DistinctCount <= 10:
		cs.CardinalityHint = "low"
	case cs.DistinctCount <= 100:
		cs.CardinalityHint = "medium"
	default:
		cs.CardinalityHint = "high"
	}

	return cs
}

// sortedDomain returns the distinct values in lexicographic order. Boolean
// keys are "false"/"true", which sort correctly as strings.
func sortedDomain(set map[string]bool) []string {
	domain := make([]string, 0, len(set))
	for v := range set {
		domain = append(domain, v)
	}
	sort.Strings(domain)
	return domain
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}

// toDisplayName cleans a header for human display.
// "parsed_category" → "Parsed Category", "Cluster ID" → "Cluster ID"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}
