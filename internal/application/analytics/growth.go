package analytics

import (
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// CommodityGrowthRates computes, per commodity, the percentage change
// between the dataset's minimum and maximum year:
//
//	(last − first) / first × 100
//
// The pivot fills missing (year, commodity) cells with zero, and commodities
// whose first-year value is not positive, or whose rate overflows, are left
// out rather than reported as infinite.
func CommodityGrowthRates(ds *dataset.Dataset) Outcome[map[string]float64] {
	return GrowthRates(ds, dataset.ColumnCommodity, func(r dataset.Record) string { return r.Commodity })
}

// GrowthRates is CommodityGrowthRates over an arbitrary key.
func GrowthRates(ds *dataset.Dataset, role string, key func(dataset.Record) string) Outcome[map[string]float64] {
	if o, ok := checkColumns[map[string]float64](ds, dataset.ColumnYear, role, dataset.ColumnProduction); !ok {
		return o
	}
	rates := make(map[string]float64)
	years := ds.Years()
	if len(years) == 0 {
		if ds.Len() == 0 {
			return Available(rates)
		}
		return Unavailable[map[string]float64](ReasonNoBaseYear, "no record has a resolved year")
	}
	first, last := years[0], years[len(years)-1]

	pivot := groupSum2(records(ds), func(r dataset.Record) (int, string, bool) {
		k := key(r)
		return r.Year, k, r.HasYear() && k != ""
	})
	keys := make(map[string]struct{})
	for _, row := range pivot {
		for k := range row {
			keys[k] = struct{}{}
		}
	}
	for k := range keys {
		start := pivot[first][k]
		if start <= 0 {
			continue
		}
		end := pivot[last][k]
		rate := (end - start) / start * 100
		if !finite(rate) {
			continue
		}
		rates[k] = rate
	}
	return Available(rates)
}

//Personal.AI order the ending
