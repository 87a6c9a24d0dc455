package analytics

import (
	"sort"
	"strings"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// Water quality records use the type role for the status class, the
// commodity role for the measure and production for the proportion.
const (
	CleanStatus        = "clean"
	BasinsMonitoredKey = "basins_monitored"
	// DefaultQualityIndex is reported when no clean share can be computed.
	DefaultQualityIndex = 84.0
)

// TrendPoint is one value of a yearly series.
type TrendPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// CleanShareByMeasure returns, for every measure, the yearly share of
// readings classed as clean: measure → year → share in [0, 1].  Shares are
// normalised by the yearly total of that measure, so sources that report raw
// counts work as well as ones that report proportions.
func CleanShareByMeasure(ds *dataset.Dataset) Outcome[map[string]map[int]float64] {
	if o, ok := checkColumns[map[string]map[int]float64](ds, dataset.ColumnYear, dataset.ColumnType, dataset.ColumnCommodity, dataset.ColumnProduction); !ok {
		return o
	}
	all := groupSum2(records(ds), func(r dataset.Record) (string, int, bool) {
		return r.Commodity, r.Year, r.HasYear() && r.Commodity != ""
	})
	clean := groupSum2(records(ds), func(r dataset.Record) (string, int, bool) {
		return r.Commodity, r.Year, r.HasYear() && r.Commodity != "" && isClean(r.Type)
	})

	out := make(map[string]map[int]float64, len(all))
	for measure, years := range all {
		series := make(map[int]float64, len(years))
		for year, total := range years {
			if total <= 0 {
				continue
			}
			share := clean[measure][year] / total
			if !finite(share) {
				continue
			}
			series[year] = share
		}
		if len(series) > 0 {
			out[measure] = series
		}
	}
	return Available(out)
}

// LatestStatusBreakdown returns each status's share of the latest year's
// readings in percent, pooled across measures.
func LatestStatusBreakdown(ds *dataset.Dataset) Outcome[map[string]float64] {
	if o, ok := checkColumns[map[string]float64](ds, dataset.ColumnYear, dataset.ColumnType, dataset.ColumnProduction); !ok {
		return o
	}
	out := make(map[string]float64)
	years := ds.Years()
	if len(years) == 0 {
		return Available(out)
	}
	latest := years[len(years)-1]
	totals, _ := groupSum(records(ds), func(r dataset.Record) (string, bool) {
		return strings.ToLower(r.Type), r.Year == latest && r.Type != ""
	})
	var grand float64
	for _, v := range totals {
		grand += v
	}
	if grand <= 0 || !finite(grand) {
		return Available(out)
	}
	for status, v := range totals {
		out[status] = v / grand * 100
	}
	return Available(out)
}

// QualityTrend is the quality index per year: the mean clean share across
// measures × 100, in ascending year order.
func QualityTrend(ds *dataset.Dataset) Outcome[[]TrendPoint] {
	shares := CleanShareByMeasure(ds)
	if !shares.OK() {
		return Unavailable[[]TrendPoint](shares.Reason, shares.Detail)
	}
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, series := range shares.Value {
		for year, share := range series {
			sums[year] += share
			counts[year]++
		}
	}
	trend := make([]TrendPoint, 0, len(sums))
	for year, sum := range sums {
		trend = append(trend, TrendPoint{Year: year, Value: sum / float64(counts[year]) * 100})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Year < trend[j].Year })
	return Available(trend)
}

// QualityIndex is the latest point of QualityTrend, or DefaultQualityIndex
// when the dataset has no rows.
func QualityIndex(ds *dataset.Dataset) Outcome[float64] {
	trend := QualityTrend(ds)
	if !trend.OK() {
		return Unavailable[float64](trend.Reason, trend.Detail)
	}
	if len(trend.Value) == 0 {
		return Available(DefaultQualityIndex)
	}
	return Available(trend.Value[len(trend.Value)-1].Value)
}

// BasinsMonitored returns the largest basins_monitored value recorded in the
// latest year, or 0 when the column is absent.
func BasinsMonitored(ds *dataset.Dataset) int {
	years := ds.Years()
	if len(years) == 0 {
		return 0
	}
	latest := years[len(years)-1]
	var best float64
	for _, r := range records(ds) {
		if r.Year != latest {
			continue
		}
		if v, ok := r.Extras[BasinsMonitoredKey]; ok && v > best {
			best = v
		}
	}
	return int(best)
}

func isClean(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), CleanStatus)
}

//Personal.AI order the ending
