package engine

import (
	"github.com/spektr-org/clusterlens/dataset"
)

// BuildOverview computes the headline metrics of view from its summaries.
func BuildOverview(view dataset.View, summaries []ClusterSummary) Overview {
	o := Overview{Rows: view.Len()}
	for _, s := range summaries {
		if s.Missing {
			o.MissingClusterRows += s.Count
			continue
		}
		o.Clusters++
		if s.Count > 1 {
			o.MultiMemberClusters++
		}
	}
	return o
}
