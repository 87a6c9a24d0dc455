package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

func TestYearlyProductionByType(t *testing.T) {
	out := YearlyProductionByType(scenarioDataset())
	require.True(t, out.OK())
	assert.Equal(t, map[string]map[int]float64{
		"Metallic": {2015: 140, 2020: 210},
		"Energy":   {2015: 180, 2020: 180},
	}, out.Value)
}

func TestYearlyProductionByType_SparseAndYearless(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	ds.Records = []dataset.Record{
		rec(2015, "A", "Metallic", "X", 5),
		rec(0, "A", "Energy", "Y", 7),
		rec(2016, "A", "Energy", "Y", 3),
	}
	out := YearlyProductionByType(ds)
	require.True(t, out.OK())
	assert.Equal(t, map[int]float64{2015: 5}, out.Value["Metallic"])
	assert.Equal(t, map[int]float64{2016: 3}, out.Value["Energy"])
}

func TestStateProductionByYear(t *testing.T) {
	out := StateProductionByYear(scenarioDataset())
	require.True(t, out.OK())
	assert.Equal(t, map[int]float64{2015: 150, 2020: 200}, out.Value["A"])
	assert.Equal(t, map[int]float64{2015: 100, 2020: 110}, out.Value["C"])
}

func TestTopCommodities_RanksDescending(t *testing.T) {
	out := TopCommodities(scenarioDataset(), DefaultTopN)
	require.True(t, out.OK())
	assert.Equal(t, []Total{{Name: "Y", Production: 360}, {Name: "X", Production: 350}}, out.Value)
}

func TestTopCommodities_TiesKeepFirstSeen(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	ds.Records = []dataset.Record{
		rec(2015, "A", "T", "Zinc", 10),
		rec(2015, "A", "T", "Alum", 10),
		rec(2015, "A", "T", "Big", 50),
	}
	out := TopCommodities(ds, 10)
	require.True(t, out.OK())
	require.Len(t, out.Value, 3)
	assert.Equal(t, "Big", out.Value[0].Name)
	assert.Equal(t, "Zinc", out.Value[1].Name)
	assert.Equal(t, "Alum", out.Value[2].Name)
}

func TestTopCommodities_Truncates(t *testing.T) {
	out := TopCommodities(scenarioDataset(), 1)
	require.True(t, out.OK())
	assert.Len(t, out.Value, 1)
}

func TestTopCommodities_OverflowingTotalDropped(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	ds.Records = []dataset.Record{
		rec(2015, "A", "T", "Huge", math.MaxFloat64),
		rec(2020, "A", "T", "Huge", math.MaxFloat64),
		rec(2015, "A", "T", "Sane", 10),
	}
	out := TopCommodities(ds, DefaultTopN)
	require.True(t, out.OK())
	assert.Equal(t, []Total{{Name: "Sane", Production: 10}}, out.Value)

	yearly := YearlyProductionByType(ds)
	require.True(t, yearly.OK())
	for _, series := range yearly.Value {
		for _, v := range series {
			assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
		}
	}
}

func TestStateTotals(t *testing.T) {
	out := StateTotals(scenarioDataset())
	require.True(t, out.OK())
	assert.Equal(t, map[string]float64{"A": 350, "B": 150, "C": 210}, out.Value)
}

func TestTypeShares(t *testing.T) {
	out := TypeShares(scenarioDataset())
	require.True(t, out.OK())
	assert.InDelta(t, 350.0/710*100, out.Value["Metallic"], 1e-9)
	assert.InDelta(t, 360.0/710*100, out.Value["Energy"], 1e-9)
}

func TestTypeShares_ZeroTotal(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	ds.Records = []dataset.Record{rec(2015, "A", "T", "X", 0)}
	out := TypeShares(ds)
	require.True(t, out.OK())
	assert.NotNil(t, out.Value)
	assert.Empty(t, out.Value)
}

func TestAggregates_ZeroRowsAreEmpty(t *testing.T) {
	ds := emptyDataset()

	yearly := YearlyProductionByType(ds)
	require.True(t, yearly.OK())
	assert.NotNil(t, yearly.Value)
	assert.Empty(t, yearly.Value)

	byState := StateProductionByYear(ds)
	require.True(t, byState.OK())
	assert.NotNil(t, byState.Value)

	top := TopCommodities(ds, DefaultTopN)
	require.True(t, top.OK())
	assert.NotNil(t, top.Value)
	assert.Empty(t, top.Value)

	totals := StateTotals(ds)
	require.True(t, totals.OK())
	assert.Empty(t, totals.Value)

	growth := CommodityGrowthRates(ds)
	require.True(t, growth.OK())
	assert.NotNil(t, growth.Value)
	assert.Empty(t, growth.Value)
}

func TestAggregates_MissingColumns(t *testing.T) {
	ds := dataset.New(dataset.MineralExtraction, dataset.ColumnYear, dataset.ColumnProduction)
	ds.Records = []dataset.Record{rec(2015, "A", "T", "X", 1)}

	out := YearlyProductionByType(ds)
	assert.False(t, out.OK())
	assert.Equal(t, ReasonMissingColumns, out.Reason)
	assert.Equal(t, "type", out.Detail)

	top := TopCommodities(ds, 5)
	assert.Equal(t, ReasonMissingColumns, top.Reason)
	assert.True(t, errors.IsCode(top.Err(), errors.CodeSchemaMismatch))
}

func TestAggregates_Idempotent(t *testing.T) {
	ds := scenarioDataset()
	assert.Equal(t, TopCommodities(ds, 10), TopCommodities(ds, 10))
	assert.Equal(t, CommodityGrowthRates(ds), CommodityGrowthRates(ds))
	assert.Equal(t, YearlyProductionByType(ds), YearlyProductionByType(ds))
}

func TestOutcome_Err(t *testing.T) {
	assert.NoError(t, Available(1).Err())

	err := Unavailable[int](ReasonTooFewStates, "2 states").Err()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeComputationFailed))
	assert.Contains(t, err.Error(), "too_few_states")
}
