package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/clusterlens/dataset"
)

// ============================================================================
// EXECUTOR + TABLE TESTS
// ============================================================================

func TestExecute(t *testing.T) {
	ds := mustLoad(t, trialsCSV)

	result, err := Execute(ds, FilterRequest{Predicates: map[string]Predicate{"status": OneOf("eligible")}},
		WithSort(SortBySize), WithPreviewRows(2))
	require.NoError(t, err)

	assert.Equal(t, "cluster_id", result.ClusterColumn)
	assert.Equal(t, []int{0, 2, 4}, result.Rows.Indices())
	assert.Equal(t, Overview{Rows: 3, Clusters: 3}, result.Overview)
	require.Len(t, result.Summaries, 3)
	assert.Equal(t, "1", result.Summaries[0].Label)

	require.NotNil(t, result.Table)
	assert.Len(t, result.Table.Rows, 2)
	assert.Equal(t, 3, result.Table.Total)
	assert.True(t, result.Table.Truncated)
}

func TestExecuteErrors(t *testing.T) {
	ds := mustLoad(t, trialsCSV)

	_, err := Execute(ds, FilterRequest{}, WithClusterColumn("trial"))
	assert.ErrorIs(t, err, dataset.ErrUnknownColumn)

	_, err = Execute(ds, FilterRequest{Predicates: map[string]Predicate{"age": Between(50, 40)}})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestBuildTable(t *testing.T) {
	ds := mustLoad(t, trialsCSV)

	table := BuildTable(ds, 0)
	assert.Equal(t, 6, table.Total)
	assert.False(t, table.Truncated)
	require.Len(t, table.Rows, 6)

	assert.Equal(t, []string{"2", MissingText, "9", "eligible", "no", "[diabetes type 2, Obesity]"}, table.Rows[2])

	byKey := make(map[string]TableColumn)
	for _, c := range table.Columns {
		byKey[c.Key] = c
	}
	assert.Equal(t, TableColumn{Key: "age", Label: "age", Type: "number", Align: "right"}, byKey["age"])
	assert.Equal(t, "boolean", byKey["smoker"].Type)
	assert.Equal(t, "text", byKey["status"].Type)
}

func TestBuildTableEmptyView(t *testing.T) {
	ds := mustLoad(t, []byte("cluster_id,age\n"))

	table := BuildTable(ds, 10)
	assert.Len(t, table.Columns, 2)
	assert.Empty(t, table.Rows)
	assert.NotNil(t, table.Rows)
}
