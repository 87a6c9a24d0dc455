package insights

import (
	"fmt"
	"strings"

	"github.com/turtacn/EnviroLens/internal/application/analytics"
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// Water summarizes a water-quality dataset: best measure in the latest year,
// most improved measure, the overall quality index and the dominant status.
func Water(ds *dataset.Dataset) []string {
	if ds.Len() == 0 {
		return Insufficient(WaterDomain)
	}
	shares := analytics.CleanShareByMeasure(ds)
	breakdown := analytics.LatestStatusBreakdown(ds)
	index := analytics.QualityIndex(ds)
	if !shares.OK() || !breakdown.OK() || !index.OK() {
		return append([]string(nil), WaterFallback...)
	}
	years := ds.Years()
	if len(years) == 0 || len(shares.Value) == 0 {
		return Insufficient(WaterDomain)
	}
	first, last := years[0], years[len(years)-1]

	latest := make(map[string]float64)
	change := make(map[string]float64)
	for measure, series := range shares.Value {
		end, ok := series[last]
		if !ok {
			continue
		}
		latest[measure] = end
		if start, ok := series[first]; ok && first != last {
			change[measure] = end - start
		}
	}

	var out []string
	if best, ok := MaxKey(latest); ok {
		out = append(out, fmt.Sprintf("%s has the highest clean share at %.1f%% in %d.",
			strings.ToUpper(best.Key), best.Value*100, last))
	}
	if most, ok := MaxKey(change); ok {
		verb := "improved the most"
		if most.Value < 0 {
			verb = "declined the least"
		}
		out = append(out, fmt.Sprintf("%s %s, with its clean share changing by %.1f points between %d and %d.",
			strings.ToUpper(most.Key), verb, most.Value*100, first, last))
	}
	out = append(out, fmt.Sprintf("Overall water quality index stands at %.1f.", index.Value))
	if dom, ok := MaxKey(breakdown.Value); ok {
		out = append(out, fmt.Sprintf("Most readings in %d are classed as %s (%.1f%%).", last, dom.Key, dom.Value))
	}
	return out
}

//Personal.AI order the ending
