package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/internal/infrastructure/synthetic"
)

func statesDataset(n int) *dataset.Dataset {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	for i := 0; i < n; i++ {
		state := fmt.Sprintf("S%02d", i)
		ds.Records = append(ds.Records,
			rec(2015, state, "T", "X", float64(100+i*37%11)),
			rec(2015, state, "T", "Y", float64(500-i*13%7)),
			rec(2015, state, "T", "Z", float64(i%3)*1000),
		)
	}
	return ds
}

func TestClusterStates_TooFewStates(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	ds.Records = []dataset.Record{rec(2015, "A", "T", "X", 1), rec(2015, "B", "T", "X", 2)}
	out := ClusterStates(ds)
	assert.False(t, out.OK())
	assert.Equal(t, ReasonTooFewStates, out.Reason)
	assert.Nil(t, out.Value)
}

func TestClusterStates_EmptyDataset(t *testing.T) {
	out := ClusterStates(emptyDataset())
	assert.Equal(t, ReasonTooFewStates, out.Reason)
}

func TestClusterStates_MissingColumns(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, dataset.ColumnState, dataset.ColumnProduction)
	ds.Records = []dataset.Record{rec(2015, "A", "T", "X", 1)}
	out := ClusterStates(ds)
	assert.Equal(t, ReasonMissingColumns, out.Reason)
	assert.Equal(t, "commodity", out.Detail)
}

func TestClusterStates_ExactlyKClusters(t *testing.T) {
	for _, n := range []int{3, 4, 6, 13} {
		out := ClusterStates(statesDataset(n))
		require.True(t, out.OK(), "n=%d", n)

		want := n - 1
		if want > MaxClusters {
			want = MaxClusters
		}
		c := out.Value
		assert.Equal(t, want, c.K, "n=%d", n)
		assert.Len(t, c.Assignments, n)
		require.Len(t, c.Profiles, want)

		members := 0
		for id, p := range c.Profiles {
			assert.Equal(t, id, p.ID)
			assert.NotEmpty(t, p.States, "cluster %d empty for n=%d", id, n)
			assert.IsNonDecreasing(t, p.States)
			assert.LessOrEqual(t, len(p.TopCommodities), ProfileTopN)
			members += len(p.States)
		}
		assert.Equal(t, n, members)
		for _, id := range c.Assignments {
			assert.GreaterOrEqual(t, id, 0)
			assert.Less(t, id, want)
		}
	}
}

func TestClusterStates_IdenticalStatesStillFillEveryCluster(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	for _, s := range []string{"A", "B", "C", "D"} {
		ds.Records = append(ds.Records, rec(2015, s, "T", "X", 10))
	}
	out := ClusterStates(ds)
	require.True(t, out.OK())
	assert.Equal(t, 3, out.Value.K)
	for _, p := range out.Value.Profiles {
		assert.NotEmpty(t, p.States)
	}
}

func TestClusterStates_SeparatesObviousGroups(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	for _, s := range []string{"Low1", "Low2"} {
		ds.Records = append(ds.Records, rec(2015, s, "T", "X", 1), rec(2015, s, "T", "Y", 1))
	}
	ds.Records = append(ds.Records, rec(2015, "High", "T", "X", 1000), rec(2015, "High", "T", "Y", 1000))

	out := ClusterStates(ds)
	require.True(t, out.OK())
	c := out.Value
	assert.Equal(t, 2, c.K)
	assert.Equal(t, c.Assignments["Low1"], c.Assignments["Low2"])
	assert.NotEqual(t, c.Assignments["Low1"], c.Assignments["High"])
	// Ids follow alphabetical first members: High sorts first.
	assert.Equal(t, 0, c.Assignments["High"])
	assert.Equal(t, []string{"Low1", "Low2"}, c.Profiles[1].States)
}

func TestClusterStates_StableGrouping(t *testing.T) {
	gen := synthetic.NewGenerator(7, synthetic.Options{StartYear: 2015, EndYear: 2020, States: []string{
		"Johor", "Kedah", "Kelantan", "Melaka", "Pahang", "Perak", "Sabah", "Sarawak",
	}})
	ds, err := gen.Generate(dataset.MineralExtraction)
	require.NoError(t, err)

	first := ClusterStates(ds)
	second := ClusterStates(ds)
	require.True(t, first.OK())
	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, MaxClusters, first.Value.K)
}

func TestBuildProductionMatrix(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	ds.Records = []dataset.Record{
		rec(2015, "A", "T", "X", 10), rec(2016, "A", "T", "X", 30),
		rec(2015, "A", "T", "Y", 5),
		rec(2015, "B", "T", "X", 0), rec(2015, "B", "T", "Y", 100),
		rec(2015, "C", "T", "X", 1), rec(2015, "C", "T", "Y", 99),
	}
	m := BuildProductionMatrix(ds)
	assert.Equal(t, []string{"A", "B", "C"}, m.States)
	assert.Equal(t, []string{"X", "Y"}, m.Commodities)
	assert.Equal(t, []float64{20, 5}, m.Values[0])
}

func TestStandardize(t *testing.T) {
	out := Standardize([][]float64{{1, 5}, {3, 5}})
	assert.InDelta(t, -1.0, out[0][0], 1e-9)
	assert.InDelta(t, 1.0, out[1][0], 1e-9)
	assert.Equal(t, 0.0, out[0][1])
	assert.Equal(t, 0.0, out[1][1])
	assert.Nil(t, Standardize(nil))
}

func TestKMeans_DegenerateInputs(t *testing.T) {
	labels, inertia := KMeans(nil, 3, 1)
	assert.Nil(t, labels)
	assert.Zero(t, inertia)

	labels, _ = KMeans([][]float64{{0}, {1}}, 5, 1)
	assert.ElementsMatch(t, []int{0, 1}, labels)
}

func TestClusterProfiles_TopCommoditiesByMean(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	ds.Records = []dataset.Record{
		rec(2015, "A", "T", "X", 1), rec(2015, "A", "T", "Y", 1),
		rec(2015, "B", "T", "X", 1), rec(2015, "B", "T", "Y", 1),
		rec(2015, "C", "T", "X", 900), rec(2015, "C", "T", "Y", 100),
	}
	out := ClusterStates(ds)
	require.True(t, out.OK())
	var high ClusterProfile
	for _, p := range out.Value.Profiles {
		if len(p.States) == 1 {
			high = p
		}
	}
	require.Equal(t, []string{"C"}, high.States)
	assert.Equal(t, []Total{{Name: "X", Production: 900}, {Name: "Y", Production: 100}}, high.TopCommodities)
}
