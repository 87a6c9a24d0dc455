package synthetic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

var testOpts = Options{StartYear: 2015, EndYear: 2019, States: []string{"Johor", "Perak", "Sabah"}}

func commodityCount(tax Taxonomy) int {
	n := 0
	for _, c := range tax {
		n += len(c)
	}
	return n
}

func TestProduction_CrossProductShape(t *testing.T) {
	g := NewGenerator(7, testOpts)
	ds := g.Production(dataset.MineralExtraction, MineralTaxonomy)

	assert.True(t, ds.Synthetic)
	assert.Equal(t, 5*3*commodityCount(MineralTaxonomy), ds.Len())
	assert.Equal(t, []int{2015, 2016, 2017, 2018, 2019}, ds.Years())
	assert.Equal(t, []string{"Johor", "Perak", "Sabah"}, ds.States())
	assert.Empty(t, ds.MissingColumns(dataset.ColumnState, dataset.ColumnType, dataset.ColumnCommodity, dataset.ColumnProduction))

	for _, r := range ds.Records {
		assert.Greater(t, r.Production, 0.0)
		require.NotNil(t, r.Date)
		assert.Equal(t, r.Year, r.Date.Year())
	}
}

func TestProduction_ValuesFollowBoundedTrend(t *testing.T) {
	g := NewGenerator(11, testOpts)
	ds := g.Production(dataset.TimberProduction, TimberTaxonomy)

	// base < 100 000, growth < 0.15 over 4 years, noise ≤ 1.2
	upper := 100000 * math.Pow(1.15, 4) * 1.2
	// base ≥ 1 000, growth ≥ −0.05 over 4 years, noise ≥ 0.8
	lower := 1000 * math.Pow(0.95, 4) * 0.8
	for _, r := range ds.Records {
		assert.LessOrEqual(t, r.Production, upper)
		assert.GreaterOrEqual(t, r.Production, math.Floor(lower))
	}
}

func TestGenerator_SameSeedSameData(t *testing.T) {
	a := NewGenerator(42, testOpts).Production(dataset.MineralExtraction, MineralTaxonomy)
	b := NewGenerator(42, testOpts).Production(dataset.MineralExtraction, MineralTaxonomy)
	assert.Equal(t, a.Records, b.Records)

	c := NewGenerator(43, testOpts).Production(dataset.MineralExtraction, MineralTaxonomy)
	assert.NotEqual(t, a.Records, c.Records)
}

func TestWater_SharesSumToOne(t *testing.T) {
	ds := NewGenerator(3, testOpts).Water()

	assert.Equal(t, 5*len(WaterMeasures)*len(WaterStatuses), ds.Len())
	sums := map[[2]interface{}]float64{}
	for _, r := range ds.Records {
		sums[[2]interface{}{r.Year, r.Commodity}] += r.Production
		basins := r.Extras["basins_monitored"]
		assert.GreaterOrEqual(t, basins, 140.0)
		assert.LessOrEqual(t, basins, 146.0)
	}
	for k, s := range sums {
		assert.InDelta(t, 1.0, s, 0.001, "shares for %v", k)
	}
}

func TestGenerate_Dispatch(t *testing.T) {
	g := NewGenerator(1, testOpts)
	for _, name := range dataset.Names {
		ds, err := g.Generate(name)
		require.NoError(t, err)
		assert.Equal(t, name, ds.Name)
		assert.NotZero(t, ds.Len())
	}

	_, err := g.Generate("air_quality")
	assert.True(t, errors.IsCode(err, errors.CodeDatasetNotFound))
}

func TestNewGenerator_SwapsInvertedYears(t *testing.T) {
	g := NewGenerator(1, Options{StartYear: 2020, EndYear: 2018, States: []string{"Johor"}})
	assert.Equal(t, []int{2018, 2019, 2020}, g.Water().Years())
	assert.Contains(t, g.Description(), "2018-2020")
}
