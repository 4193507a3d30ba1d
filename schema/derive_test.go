package schema

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/clusterlens/dataset"
)

// Sample cluster export, shaped like the visualizer's CSV download.
var clustersCSV = []byte(`Cluster ID,Type,Category,Representative Code,Size,Multi Site,Codes
3,inclusion,Organ Function,C03,4,yes,"[C03, C07, 'C09', C11]"
1,exclusion,Pregnancy/Lactation,C01,1,no,[C01]
2,inclusion,Organ Function,,2,no,"[C02, C05]"
4,inclusion,Laboratory Values,C04,7,,"[C04]"
`)

// Sample Jira CSV export
var jiraCSV = []byte(`Issue Key,Summary,Status,Priority,Issue Type,Assignee,Component,Sprint,Story Points,Time Spent Hours,Created,Resolved
PROJ-101,Login timeout on mobile,In Progress,P1 - Critical,Bug,alice@corp.com,Backend,Sprint 17,5,12.5,2026-01-15,
PROJ-102,Dashboard crash on Safari,To Do,P2 - High,Bug,bob@corp.com,Frontend,Sprint 17,3,0,2026-01-16,
PROJ-103,Add dark mode toggle,Done,P3 - Medium,Story,charlie@corp.com,Frontend,Sprint 16,8,16,2026-01-10,2026-01-20
PROJ-104,Update user docs,In Review,P4 - Low,Task,alice@corp.com,Documentation,Sprint 17,2,4,2026-01-18,
PROJ-105,Payment fails with expired card,In Progress,P1 - Critical,Bug,dave@corp.com,Backend,Sprint 17,8,20,2026-01-12,
PROJ-106,Optimize DB queries,Done,P2 - High,Task,eve@corp.com,Backend,Sprint 16,5,10,2026-01-08,2026-01-15
PROJ-107,Mobile push notifications,To Do,P2 - High,Story,frank@corp.com,Mobile,Sprint 18,13,0,2026-01-20,
PROJ-108,Fix memory leak in worker,In Progress,P1 - Critical,Bug,alice@corp.com,Infrastructure,Sprint 17,5,8,2026-01-14,
PROJ-109,Redesign settings page,Done,P3 - Medium,Story,bob@corp.com,Frontend,Sprint 15,8,14,2026-01-05,2026-01-12
PROJ-110,API rate limiting,Done,P2 - High,Story,charlie@corp.com,Backend,Sprint 16,5,9,2026-01-09,2026-01-18
PROJ-111,Add export to CSV,To Do,P3 - Medium,Story,dave@corp.com,Backend,Sprint 18,3,0,2026-01-22,
PROJ-112,Update SSL certs,Done,P1 - Critical,Task,eve@corp.com,Infrastructure,Sprint 16,1,2,2026-01-07,2026-01-07
`)

func mustLoad(t *testing.T, raw []byte) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(raw)
	require.NoError(t, err)
	return ds
}

func TestDeriveClusterExport(t *testing.T) {
	sch, err := Derive(mustLoad(t, clustersCSV))
	require.NoError(t, err)

	assert.Equal(t, "Cluster ID", sch.ClusterColumn)
	assert.Equal(t, 4, sch.RowCount)
	assert.Equal(t, []string{"Cluster ID", "Type", "Category", "Representative Code", "Size", "Multi Site", "Codes"}, sch.ColumnNames())

	typ, ok := sch.Column("Type")
	require.True(t, ok)
	assert.Equal(t, dataset.KindString, typ.Type)
	assert.Equal(t, []string{"exclusion", "inclusion"}, typ.Domain)
	assert.Equal(t, "type", typ.Key)
	assert.Equal(t, "low", typ.CardinalityHint)

	category, _ := sch.Column("Category")
	assert.Equal(t, []string{"Laboratory Values", "Organ Function", "Pregnancy/Lactation"}, category.Domain)

	code, _ := sch.Column("Representative Code")
	assert.Equal(t, 1, code.MissingCount)
	assert.Equal(t, 3, code.DistinctCount)

	size, _ := sch.Column("Size")
	assert.Equal(t, dataset.KindNumber, size.Type)
	require.NotNil(t, size.Min)
	require.NotNil(t, size.Max)
	assert.Equal(t, 1.0, *size.Min)
	assert.Equal(t, 7.0, *size.Max)
	assert.Nil(t, size.Domain)

	multi, _ := sch.Column("Multi Site")
	assert.Equal(t, dataset.KindBool, multi.Type)
	assert.Equal(t, []string{"false", "true"}, multi.Domain)
	assert.Equal(t, 1, multi.MissingCount)

	codes, _ := sch.Column("Codes")
	assert.True(t, codes.List)
	assert.False(t, typ.List)

	assert.Equal(t, []string{"Size"}, sch.OfType(dataset.KindNumber))
}

func TestDeriveIsDeterministic(t *testing.T) {
	ds := mustLoad(t, clustersCSV)

	first, err := Derive(ds)
	require.NoError(t, err)
	a, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Derive(ds)
		require.NoError(t, err)
		b, err := json.Marshal(again)
		require.NoError(t, err)
		assert.JSONEq(t, string(a), string(b))
	}
}

func TestDeriveEmptyDataset(t *testing.T) {
	sch, err := Derive(mustLoad(t, []byte("cluster_id,age\n")))
	assert.Nil(t, sch)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestResolveClusterColumn(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		explicit string
		want     string
	}{
		{"snake_case", "age,cluster_id,status", "", "cluster_id"},
		{"camel_case", "age,clusterId", "", "clusterId"},
		{"cluster_before_id", "id,cluster", "", "cluster"},
		{"plain_id", "ID,name", "", "ID"},
		{"fallback_first", "group,name", "", "group"},
		{"explicit", "cluster_id,group", "group", "group"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ds := mustLoad(t, []byte(tc.header+"\n"))
			got, err := ResolveClusterColumn(ds, tc.explicit)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	ds := mustLoad(t, []byte("a,b\n1,2\n"))
	_, err := Derive(ds, WithClusterColumn("missing"))
	assert.ErrorIs(t, err, dataset.ErrUnknownColumn)
}

func TestStringUtilities(t *testing.T) {
	assert.Equal(t, "representative_code", toSnakeCase("Representative Code"))
	assert.Equal(t, "nct_ids", toSnakeCase("nctIds"))
	assert.Equal(t, "parsed_category", toSnakeCase("parsed-category"))
	assert.Equal(t, "Parsed Category", toDisplayName("parsed_category"))
	assert.Equal(t, "Cluster ID", toDisplayName("Cluster ID"))
}

func TestDeriveJiraExport(t *testing.T) {
	sch, err := Derive(mustLoad(t, jiraCSV))
	require.NoError(t, err)

	assert.Equal(t, "Issue Key", sch.ClusterColumn, "no cluster-like header, falls back to the first column")
	assert.Equal(t, 12, sch.RowCount)

	status, _ := sch.Column("Status")
	assert.Equal(t, []string{"Done", "In Progress", "In Review", "To Do"}, status.Domain)

	key, _ := sch.Column("Issue Key")
	assert.Equal(t, 12, key.DistinctCount)
	assert.Equal(t, "medium", key.CardinalityHint)

	points, _ := sch.Column("Story Points")
	assert.Equal(t, dataset.KindNumber, points.Type)
	assert.Equal(t, 1.0, *points.Min)
	assert.Equal(t, 13.0, *points.Max)

	hours, _ := sch.Column("Time Spent Hours")
	assert.Equal(t, 0.0, *hours.Min)
	assert.Equal(t, 20.0, *hours.Max)
	assert.Equal(t, "time_spent_hours", hours.Key)

	resolved, _ := sch.Column("Resolved")
	assert.Equal(t, dataset.KindString, resolved.Type)
	assert.Equal(t, 7, resolved.MissingCount)
	assert.Len(t, resolved.Domain, 5)
}
