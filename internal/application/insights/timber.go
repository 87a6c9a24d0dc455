package insights

import (
	"github.com/turtacn/EnviroLens/internal/application/analytics"
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// Timber summarizes a timber-production dataset: top-producing state,
// fastest-growing and steepest-declining species, and the dominant product
// type.
func Timber(ds *dataset.Dataset) []string {
	return production(ds, productionLabels{
		domain:   TimberDomain,
		state:    "%s is the highest timber producing state with %s units.",
		keyLabel: "timber species",
		dominant: "%s products dominate timber output at %.1f%% of total volume.",
		fallback: TimberFallback,
		growth:   SpeciesGrowthRates,
	})
}

// SpeciesGrowthRates is the growth rate per timber species, which the
// timber schema maps onto the commodity role.
func SpeciesGrowthRates(ds *dataset.Dataset) analytics.Outcome[map[string]float64] {
	return analytics.CommodityGrowthRates(ds)
}

//Personal.AI order the ending
