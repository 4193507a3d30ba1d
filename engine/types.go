package engine

import (
	"errors"
	"sort"
	"strings"

	"github.com/spektr-org/clusterlens/dataset"
)

// ============================================================================
// ENGINE TYPES — Filter requests, cluster summaries, render-ready output
// ============================================================================

var (
	// ErrPredicateMismatch reports a predicate whose shape does not fit the
	// column type: value sets on numeric columns, bounds on categorical or
	// boolean columns, or unrecognized boolean literals.
	ErrPredicateMismatch = errors.New("predicate does not match column type")

	// ErrInvalidRange reports a numeric predicate with min > max.
	ErrInvalidRange = errors.New("invalid numeric range")
)

// ============================================================================
// FILTER REQUEST
// ============================================================================

// FilterRequest maps column names to predicates. Predicates are AND-combined;
// columns without a predicate are unconstrained. Search, when non-empty, is
// an additional case-insensitive substring constraint over categorical columns.
type FilterRequest struct {
	Predicates map[string]Predicate `json:"predicates,omitempty"`
	Search     string               `json:"search,omitempty"`
}

// IsEmpty reports whether the request constrains nothing.
func (r FilterRequest) IsEmpty() bool {
	if strings.TrimSpace(r.Search) != "" {
		return false
	}
	for _, p := range r.Predicates {
		if len(p.Values) > 0 || p.Min != nil || p.Max != nil {
			return false
		}
	}
	return true
}

// Normalized returns an equivalent request in canonical form: value sets
// sorted and deduplicated, search trimmed. Equivalent requests normalize to
// equal values.
func (r FilterRequest) Normalized() FilterRequest {
	out := FilterRequest{Search: strings.TrimSpace(r.Search)}
	if len(r.Predicates) == 0 {
		return out
	}
	out.Predicates = make(map[string]Predicate, len(r.Predicates))
	for name, p := range r.Predicates {
		if len(p.Values) > 0 {
			values := append([]string(nil), p.Values...)
			sort.Strings(values)
			unique := values[:1]
			for _, v := range values[1:] {
				if v != unique[len(unique)-1] {
					unique = append(unique, v)
				}
			}
			p.Values = unique
		}
		out.Predicates[name] = p
	}
	return out
}

// Predicate constrains one column.
//
// Categorical and boolean columns use Values (OR within the set); numeric
// columns use Min/Max (inclusive, nil = observed bound). IncludeMissing lets
// rows with a missing cell through a narrowing value set or range.
type Predicate struct {
	Values         []string `json:"values,omitempty"`
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	IncludeMissing bool     `json:"includeMissing,omitempty"`
}

// OneOf builds a set-membership predicate.
func OneOf(values ...string) Predicate {
	return Predicate{Values: values}
}

// Between builds an inclusive numeric range predicate.
func Between(min, max float64) Predicate {
	return Predicate{Min: &min, Max: &max}
}

// AtLeast builds a numeric predicate bounded below only.
func AtLeast(min float64) Predicate {
	return Predicate{Min: &min}
}

// AtMost builds a numeric predicate bounded above only.
func AtMost(max float64) Predicate {
	return Predicate{Max: &max}
}

// WithMissing returns a copy of p that also admits missing cells.
func (p Predicate) WithMissing() Predicate {
	p.IncludeMissing = true
	return p
}

func (p Predicate) hasBounds() bool { return p.Min != nil || p.Max != nil }

// ============================================================================
// CLUSTER SUMMARY
// ============================================================================

// ClusterSummary describes the rows sharing one cluster id.
type ClusterSummary struct {
	Key        dataset.Value               `json:"key"`
	Label      string                      `json:"label"`
	Missing    bool                        `json:"missing"`
	Count      int                         `json:"count"`
	Numeric    map[string]NumericAggregate `json:"numeric"`
	Categories map[string]Distribution     `json:"categories"`

	// ListMembers holds, for list-valued columns, the number of distinct
	// members seen in this cluster.
	ListMembers map[string]int `json:"listMembers,omitempty"`

	View dataset.View `json:"-"` // rows of this cluster (zero-copy)
}

// NumericAggregate summarizes the non-missing values of a numeric column.
// Mean, Min and Max are nil when Count is zero.
type NumericAggregate struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

// Distribution is a value→count breakdown sorted by value.
type Distribution struct {
	Values  []CategoryCount `json:"values"`
	Missing int             `json:"missing"`
}

// CategoryCount is one entry of a Distribution.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Count returns the count recorded for value, 0 when absent.
func (d Distribution) Count(value string) int {
	for _, c := range d.Values {
		if c.Value == value {
			return c.Count
		}
	}
	return 0
}

// Overview holds dataset-level metrics of a (filtered) view.
type Overview struct {
	Rows                int `json:"rows"`
	Clusters            int `json:"clusters"`
	MultiMemberClusters int `json:"multiMemberClusters"`
	MissingClusterRows  int `json:"missingClusterRows"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is a render-ready table of string cells.
type TableData struct {
	Columns   []TableColumn `json:"columns"`
	Rows      [][]string    `json:"rows"`
	Total     int           `json:"total"`
	Truncated bool          `json:"truncated"`
}

// TableColumn defines a table column.
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "boolean"
	Align string `json:"align"` // "left", "center", "right"
}

// ============================================================================
// RESULT — Output of Execute
// ============================================================================

// Result bundles everything one filter run produces.
type Result struct {
	ClusterColumn string           `json:"clusterColumn"`
	Overview      Overview         `json:"overview"`
	Summaries     []ClusterSummary `json:"summaries"`
	Table         *TableData       `json:"table,omitempty"`

	Rows *ResultTable `json:"-"`
}
