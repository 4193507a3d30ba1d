package engine

import (
	"sort"

	"github.com/spektr-org/clusterlens/dataset"
	"github.com/spektr-org/clusterlens/internal/logger"
)

// ============================================================================
// AGGREGATORS — Cluster grouping, per-cluster statistics, sorting
// ============================================================================
// Grouping produces sub-views (index lists into the input view).
// ============================================================================

// Sort orders accepted by SortSummaries.
const (
	SortByKey  = "key"
	SortBySize = "size"
)

// Summarize groups the rows of view by the cluster-id column and computes,
// per group, the row count, numeric mean/min/max and categorical
// distributions. Groups follow canonical key order with the missing-id group
// last. Counts sum to view.Len().
func Summarize(view dataset.View, clusterColumn string) ([]ClusterSummary, error) {
	clusterCol, err := view.ColumnIndex(clusterColumn)
	if err != nil {
		return nil, err
	}

	groups := groupByCluster(view, clusterCol)
	columns := view.Columns()
	lists := listColumns(view, columns)

	summaries := make([]ClusterSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, summarizeGroup(g, clusterCol, columns, lists))
	}

	logger.Debugf("summarize: %d rows in %d clusters by %q", view.Len(), len(summaries), clusterColumn)
	return summaries, nil
}

// ============================================================================
// GROUPING
// ============================================================================

type clusterGroup struct {
	key  dataset.Value
	view dataset.View
}

func groupByCluster(view dataset.View, col int) []clusterGroup {
	grouped := make(map[string][]int)
	keys := make(map[string]dataset.Value)
	var missing []int

	for i := 0; i < view.Len(); i++ {
		v := view.Value(i, col)
		if v.IsMissing() {
			missing = append(missing, i)
			continue
		}
		k := v.Key()
		if _, exists := grouped[k]; !exists {
			keys[k] = v
		}
		grouped[k] = append(grouped[k], i)
	}

	groups := make([]clusterGroup, 0, len(grouped)+1)
	for k, indices := range grouped {
		groups = append(groups, clusterGroup{key: keys[k], view: newSubView(view, indices)})
	}
	sort.Slice(groups, func(a, b int) bool {
		return groups[a].key.Compare(groups[b].key) < 0
	})

	if len(missing) > 0 {
		groups = append(groups, clusterGroup{key: dataset.Missing(), view: newSubView(view, missing)})
	}
	return groups
}

// listColumns flags categorical columns whose every non-missing cell in
// view is list-shaped.
func listColumns(view dataset.View, columns []dataset.Column) []bool {
	lists := make([]bool, len(columns))
	for j, c := range columns {
		if c.Kind != dataset.KindString {
			continue
		}
		seen, all := false, true
		for i := 0; i < view.Len() && all; i++ {
			v := view.Value(i, j)
			if v.IsMissing() {
				continue
			}
			seen = true
			all = dataset.IsList(v.Text())
		}
		lists[j] = seen && all
	}
	return lists
}

// ============================================================================
// AGGREGATION
// ============================================================================

func summarizeGroup(g clusterGroup, clusterCol int, columns []dataset.Column, lists []bool) ClusterSummary {
	s := ClusterSummary{
		Key:        g.key,
		Label:      g.key.Text(),
		Missing:    g.key.IsMissing(),
		Count:      g.view.Len(),
		Numeric:    make(map[string]NumericAggregate),
		Categories: make(map[string]Distribution),
		View:       g.view,
	}
	if s.Missing {
		s.Label = "(missing)"
	}

	for j, c := range columns {
		if j == clusterCol {
			continue
		}
		switch {
		case c.Kind == dataset.KindNumber:
			s.Numeric[c.Name] = aggregateNumeric(g.view, j)
		case lists[j]:
			dist, members := distributeMembers(g.view, j)
			s.Categories[c.Name] = dist
			if s.ListMembers == nil {
				s.ListMembers = make(map[string]int)
			}
			s.ListMembers[c.Name] = members
		default:
			s.Categories[c.Name] = distribute(g.view, j)
		}
	}
	return s
}

// aggregateNumeric computes mean/min/max over the non-missing cells.
func aggregateNumeric(view dataset.View, col int) NumericAggregate {
	var (
		agg      NumericAggregate
		sum      float64
		min, max float64
	)
	for i := 0; i < view.Len(); i++ {
		f, ok := view.Value(i, col).Float()
		if !ok {
			continue
		}
		if agg.Count == 0 || f < min {
			min = f
		}
		if agg.Count == 0 || f > max {
			max = f
		}
		sum += f
		agg.Count++
	}
	if agg.Count == 0 {
		return agg
	}
	mean := sum / float64(agg.Count)
	agg.Mean, agg.Min, agg.Max = &mean, &min, &max
	return agg
}

// distribute counts each distinct cell value.
func distribute(view dataset.View, col int) Distribution {
	counts := make(map[string]int)
	var d Distribution
	for i := 0; i < view.Len(); i++ {
		v := view.Value(i, col)
		if v.IsMissing() {
			d.Missing++
			continue
		}
		counts[v.Key()]++
	}
	d.Values = sortedCounts(counts)
	return d
}

// distributeMembers counts list members, once per row, and returns the
// number of distinct members.
func distributeMembers(view dataset.View, col int) (Distribution, int) {
	counts := make(map[string]int)
	var d Distribution
	for i := 0; i < view.Len(); i++ {
		v := view.Value(i, col)
		if v.IsMissing() {
			d.Missing++
			continue
		}
		seen := make(map[string]struct{})
		for _, m := range dataset.SplitList(v.Text()) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			counts[m]++
		}
	}
	d.Values = sortedCounts(counts)
	return d, len(counts)
}

func sortedCounts(counts map[string]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Value < out[b].Value })
	return out
}

// ============================================================================
// SORTING
// ============================================================================

// SortSummaries orders summaries in place. SortBySize puts larger clusters
// first, ties broken by key; anything else restores canonical key order.
// The missing-id group stays last in both orders.
func SortSummaries(summaries []ClusterSummary, by string) {
	sort.SliceStable(summaries, func(a, b int) bool {
		sa, sb := summaries[a], summaries[b]
		if sa.Missing != sb.Missing {
			return sb.Missing
		}
		if by == SortBySize && sa.Count != sb.Count {
			return sa.Count > sb.Count
		}
		return sa.Key.Compare(sb.Key) < 0
	})
}
