package session

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/clusterlens/dataset"
	"github.com/spektr-org/clusterlens/engine"
	"github.com/spektr-org/clusterlens/schema"
)

var scenarioCSV = []byte(`cluster_id,age,status
A,25,eligible
A,40,ineligible
B,,eligible
`)

func TestNewSessionsHaveDistinctIDs(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID.String(), 26)
}

func TestSignature(t *testing.T) {
	sig := Signature("trials.csv", []byte("abc"))
	assert.Equal(t, "trials.csv:3:ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sig)
	assert.NotEqual(t, sig, Signature("other.csv", []byte("abc")))
	assert.NotEqual(t, sig, Signature("trials.csv", []byte("abd")))
}

func TestUploadKeepsSameFile(t *testing.T) {
	s := New()

	changed, err := s.Upload("trials.csv", scenarioCSV)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "trials.csv", s.Name())
	assert.Equal(t, "cluster_id", s.Schema().ClusterColumn)

	ds := s.Dataset()
	result, err := s.Filter(engine.FilterRequest{})
	require.NoError(t, err)

	changed, err = s.Upload("trials.csv", scenarioCSV)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, ds, s.Dataset())
	assert.Same(t, result, s.Result())

	changed, err = s.Upload("trials.csv", append(scenarioCSV, []byte("C,33,eligible\n")...))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 4, s.Dataset().Len())
	assert.Nil(t, s.Result())
}

func TestUploadErrorsKeepState(t *testing.T) {
	s := New(WithMaxBytes(64))
	_, err := s.Upload("trials.csv", scenarioCSV)
	require.NoError(t, err)

	_, err = s.Upload("bad.csv", []byte("a,a\n1,2\n"))
	assert.ErrorIs(t, err, dataset.ErrMalformedHeader)

	_, err = s.Upload("empty.csv", []byte("cluster_id,age\n"))
	assert.ErrorIs(t, err, schema.ErrEmptyDataset)

	_, err = s.Upload("big.csv", []byte(strings.Repeat("x", 65)))
	assert.ErrorIs(t, err, dataset.ErrTooLarge)

	assert.Equal(t, "trials.csv", s.Name())
	assert.Equal(t, 3, s.Dataset().Len())
}

func TestFilterCachesByRequest(t *testing.T) {
	s := New(WithSort(engine.SortBySize))

	_, err := s.Filter(engine.FilterRequest{})
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = s.Upload("trials.csv", scenarioCSV)
	require.NoError(t, err)

	req := engine.FilterRequest{Predicates: map[string]engine.Predicate{"status": engine.OneOf("eligible")}}
	first, err := s.Filter(req)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, first.Rows.Indices())
	require.Len(t, first.Summaries, 2)
	assert.Equal(t, 25.0, *first.Summaries[0].Numeric["age"].Mean)
	assert.Nil(t, first.Summaries[1].Numeric["age"].Mean)

	again, err := s.Filter(engine.FilterRequest{Predicates: map[string]engine.Predicate{"status": engine.OneOf("eligible")}})
	require.NoError(t, err)
	assert.Same(t, first, again)

	other, err := s.Filter(engine.FilterRequest{Search: "inel"})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, []int{1}, other.Rows.Indices())
	assert.Same(t, other, s.Result())

	_, err = s.Filter(engine.FilterRequest{Predicates: map[string]engine.Predicate{"age": engine.OneOf("x")}})
	assert.ErrorIs(t, err, engine.ErrPredicateMismatch)
	assert.Same(t, other, s.Result(), "failed runs keep the previous result")
}

func TestFilterCacheKeyKeepsDuplicateValuesApart(t *testing.T) {
	s := New()
	_, err := s.Upload("trials.csv", scenarioCSV)
	require.NoError(t, err)

	status := func(values ...string) engine.FilterRequest {
		return engine.FilterRequest{Predicates: map[string]engine.Predicate{"status": engine.OneOf(values...)}}
	}

	eligible, err := s.Filter(status("eligible", "eligible"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, eligible.Rows.Indices())

	ineligible, err := s.Filter(status("ineligible", "ineligible"))
	require.NoError(t, err)
	assert.NotSame(t, eligible, ineligible)
	assert.Equal(t, []int{1}, ineligible.Rows.Indices())

	all, err := s.Filter(status())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, all.Rows.Indices())

	reordered, err := s.Filter(status("ineligible", "eligible", "ineligible"))
	require.NoError(t, err)
	again, err := s.Filter(status("eligible", "ineligible"))
	require.NoError(t, err)
	assert.Same(t, reordered, again, "equivalent value sets share a result")
}

func TestExport(t *testing.T) {
	s := New()
	var buf bytes.Buffer

	assert.ErrorIs(t, s.Export(&buf, FormatCSV), ErrNoDataset)

	_, err := s.Upload("trials.csv", scenarioCSV)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Export(&buf, FormatCSV), ErrNoResult)

	_, err = s.Filter(engine.FilterRequest{Predicates: map[string]engine.Predicate{"status": engine.OneOf("eligible")}})
	require.NoError(t, err)

	require.NoError(t, s.Export(&buf, FormatCSV))
	assert.Equal(t, "cluster_id,age,status\nA,25,eligible\nB,,eligible\n", buf.String())

	buf.Reset()
	require.NoError(t, s.Export(&buf, FormatJSON))
	assert.JSONEq(t, `[{"cluster_id":"A","age":25,"status":"eligible"},{"cluster_id":"B","age":null,"status":"eligible"}]`, buf.String())

	buf.Reset()
	require.NoError(t, s.Export(&buf, FormatParquet))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PAR1")))

	assert.ErrorIs(t, s.Export(&buf, "xlsx"), ErrUnknownFormat)
}
