package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/cases"

	"github.com/spektr-org/clusterlens/dataset"
	"github.com/spektr-org/clusterlens/internal/logger"
)

// ============================================================================
// FILTERS — Typed predicate filtering over a Dataset
// ============================================================================
// Single-pass filter: checks ALL compiled predicates per row in one loop.
// Returns a ResultTable (index list into the dataset), no data copy.
// ============================================================================

// Validate checks the request against the columns of view and returns every
// problem found, in column-name order.
func (r FilterRequest) Validate(view dataset.View) error {
	var result *multierror.Error
	columns := view.Columns()

	for _, name := range sortedPredicateNames(r.Predicates) {
		p := r.Predicates[name]
		col, err := view.ColumnIndex(name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		kind := columns[col].Kind

		switch kind {
		case dataset.KindNumber:
			if len(p.Values) > 0 {
				result = multierror.Append(result, fmt.Errorf("column %q is numeric, got a value set: %w", name, ErrPredicateMismatch))
			}
			if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
				result = multierror.Append(result, fmt.Errorf("column %q: min %g > max %g: %w", name, *p.Min, *p.Max, ErrInvalidRange))
			}
		case dataset.KindBool:
			if p.hasBounds() {
				result = multierror.Append(result, fmt.Errorf("column %q is boolean, got a numeric range: %w", name, ErrPredicateMismatch))
			}
			for _, v := range p.Values {
				if _, ok := dataset.ParseBool(v); !ok {
					result = multierror.Append(result, fmt.Errorf("column %q: %q is not a boolean: %w", name, v, ErrPredicateMismatch))
				}
			}
		default:
			if p.hasBounds() {
				result = multierror.Append(result, fmt.Errorf("column %q is %s, got a numeric range: %w", name, kind, ErrPredicateMismatch))
			}
		}
	}

	return result.ErrorOrNil()
}

// Apply returns the rows of ds satisfying every predicate of req, in
// original order. The dataset is never modified.
func Apply(ds *dataset.Dataset, req FilterRequest) (*ResultTable, error) {
	if err := req.Validate(ds); err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		logger.Debugf("filter: empty request, %d rows pass", ds.Len())
		return allRows(ds), nil
	}

	checks := compile(ds, req)
	if len(checks) == 0 {
		logger.Debugf("filter: no constraints, %d rows pass", ds.Len())
		return allRows(ds), nil
	}

	n := ds.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, check := range checks {
			if !check(ds, i) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	logger.Debugf("filter: %d of %d rows pass %d constraints", len(indices), n, len(checks))
	return newResultTable(ds, indices), nil
}

// ============================================================================
// COMPILATION — request → per-row checks
// ============================================================================

type rowCheck func(view dataset.View, row int) bool

// compile turns a validated request into row checks. Predicates that cannot
// exclude any row are dropped.
func compile(ds *dataset.Dataset, req FilterRequest) []rowCheck {
	columns := ds.Columns()
	checks := make([]rowCheck, 0, len(req.Predicates)+1)

	for _, name := range sortedPredicateNames(req.Predicates) {
		p := req.Predicates[name]
		col, _ := ds.ColumnIndex(name)

		var check rowCheck
		if columns[col].Kind == dataset.KindNumber {
			check = compileRange(ds, col, p)
		} else {
			check = compileSet(ds, col, columns[col].Kind, p)
		}
		if check != nil {
			checks = append(checks, check)
		}
	}

	if check := compileSearch(columns, req.Search); check != nil {
		checks = append(checks, check)
	}
	return checks
}

// compileSet builds a membership check. Categorical matching is exact;
// boolean literals are normalized. An empty set, or one that selects every
// observed value of the column, constrains nothing and keeps missing cells.
func compileSet(ds *dataset.Dataset, col int, kind dataset.Kind, p Predicate) rowCheck {
	if len(p.Values) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(p.Values))
	for _, v := range p.Values {
		if kind == dataset.KindBool {
			b, _ := dataset.ParseBool(v)
			v = strconv.FormatBool(b)
		}
		allowed[v] = struct{}{}
	}
	if coversDomain(ds, col, allowed) {
		return nil
	}
	includeMissing := p.IncludeMissing

	return func(view dataset.View, row int) bool {
		v := view.Value(row, col)
		if v.IsMissing() {
			return includeMissing
		}
		_, ok := allowed[v.Key()]
		return ok
	}
}

func coversDomain(ds *dataset.Dataset, col int, allowed map[string]struct{}) bool {
	for i := 0; i < ds.Len(); i++ {
		v := ds.Value(i, col)
		if v.IsMissing() {
			continue
		}
		if _, ok := allowed[v.Key()]; !ok {
			return false
		}
	}
	return true
}

// compileRange builds an inclusive range check. Nil bounds default to the
// observed bounds. Missing cells pass only when the effective range covers
// the whole observed range or the predicate asks for them.
func compileRange(ds *dataset.Dataset, col int, p Predicate) rowCheck {
	obsMin, obsMax, observed := ds.ObservedRange(col)
	if !p.hasBounds() {
		return nil
	}

	lo, hi := obsMin, obsMax
	if p.Min != nil {
		lo = *p.Min
	}
	if p.Max != nil {
		hi = *p.Max
	}

	// all-missing column: nothing observed, nothing to narrow
	covers := !observed || (lo <= obsMin && hi >= obsMax)
	includeMissing := covers || p.IncludeMissing
	if covers && observed {
		return nil
	}

	return func(view dataset.View, row int) bool {
		f, ok := view.Value(row, col).Float()
		if !ok {
			return includeMissing
		}
		return f >= lo && f <= hi
	}
}

// compileSearch builds a case-insensitive substring check over the
// categorical columns. List cells match on their members.
func compileSearch(columns []dataset.Column, search string) rowCheck {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil
	}

	caser := cases.Fold()
	needle := caser.String(search)

	targets := make([]int, 0, len(columns))
	for j, c := range columns {
		if c.Kind == dataset.KindString {
			targets = append(targets, j)
		}
	}

	return func(view dataset.View, row int) bool {
		for _, col := range targets {
			v := view.Value(row, col)
			if v.IsMissing() {
				continue
			}
			text := v.Text()
			if !dataset.IsList(text) {
				if strings.Contains(caser.String(text), needle) {
					return true
				}
				continue
			}
			for _, member := range dataset.SplitList(text) {
				if strings.Contains(caser.String(member), needle) {
					return true
				}
			}
		}
		return false
	}
}

func sortedPredicateNames(preds map[string]Predicate) []string {
	names := make([]string, 0, len(preds))
	for name := range preds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
