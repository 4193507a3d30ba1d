package engine

import (
	"github.com/spektr-org/clusterlens/dataset"
	"github.com/spektr-org/clusterlens/internal/logger"
	"github.com/spektr-org/clusterlens/schema"
)

// ============================================================================
// EXECUTOR — Filter → summarize → overview → table in one call
// ============================================================================
// Entry point: Execute(ds, req, opts...)
//
// Pipeline:
//   1. Resolve the cluster-id column
//   2. Validate and apply the FilterRequest → ResultTable
//   3. Group and summarize the filtered rows
//   4. Compute overview metrics, sort summaries
//   5. Build the display table
//
// No stage copies rows; everything reads through dataset.View.
// ============================================================================

// Execute runs req against ds and returns a render-ready Result.
//
// Options:
//   - WithClusterColumn(name): cluster-id column, resolved from headers when empty
//   - WithSort(by): summary order
//   - WithPreviewRows(n): display table row cap
func Execute(ds *dataset.Dataset, req FilterRequest, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)

	clusterColumn, err := schema.ResolveClusterColumn(ds, cfg.ClusterColumn)
	if err != nil {
		return nil, err
	}

	rows, err := Apply(ds, req)
	if err != nil {
		return nil, err
	}

	summaries, err := Summarize(rows, clusterColumn)
	if err != nil {
		return nil, err
	}
	overview := BuildOverview(rows, summaries)
	SortSummaries(summaries, cfg.SortBy)

	logger.Debugf("execute: %d/%d rows, %d clusters, sort=%s", rows.Len(), ds.Len(), overview.Clusters, cfg.SortBy)

	return &Result{
		ClusterColumn: clusterColumn,
		Overview:      overview,
		Summaries:     summaries,
		Table:         BuildTable(rows, cfg.PreviewRows),
		Rows:          rows,
	}, nil
}
