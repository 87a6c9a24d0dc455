package analytics

import (
	"math"
	"sort"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// DefaultTopN is the length of the commodity ranking.
const DefaultTopN = 10

// Total is one ranked entry.
type Total struct {
	Name       string  `json:"name"`
	Production float64 `json:"production"`
}

// groupSum2 sums production over two keys.  Records for which key returns
// false are skipped, and sums that overflow to ±Inf or NaN are dropped.
func groupSum2[K1, K2 comparable](records []dataset.Record, key func(dataset.Record) (K1, K2, bool)) map[K1]map[K2]float64 {
	out := make(map[K1]map[K2]float64)
	for _, r := range records {
		k1, k2, ok := key(r)
		if !ok {
			continue
		}
		inner, exists := out[k1]
		if !exists {
			inner = make(map[K2]float64)
			out[k1] = inner
		}
		inner[k2] += r.Production
	}
	for k1, inner := range out {
		for k2, v := range inner {
			if !finite(v) {
				delete(inner, k2)
			}
		}
		if len(inner) == 0 {
			delete(out, k1)
		}
	}
	return out
}

// groupSum sums production over one string key and also returns the keys in
// first-seen order.  Non-finite sums are dropped.
func groupSum(records []dataset.Record, key func(dataset.Record) (string, bool)) (map[string]float64, []string) {
	out := make(map[string]float64)
	order := make([]string, 0)
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		if _, seen := out[k]; !seen {
			order = append(order, k)
		}
		out[k] += r.Production
	}
	kept := order[:0]
	for _, k := range order {
		if finite(out[k]) {
			kept = append(kept, k)
		} else {
			delete(out, k)
		}
	}
	return out, kept
}

// finite reports whether v can be encoded as a JSON number.
func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// checkColumns returns an unavailable outcome when ds lacks any required role.
// Datasets without rows pass: their aggregates are simply empty.
func checkColumns[T any](ds *dataset.Dataset, roles ...string) (Outcome[T], bool) {
	if ds.Len() == 0 {
		return Outcome[T]{}, true
	}
	if missing := ds.MissingColumns(roles...); len(missing) > 0 {
		return Unavailable[T](ReasonMissingColumns, missingColumns(missing)), false
	}
	return Outcome[T]{}, true
}

func records(ds *dataset.Dataset) []dataset.Record {
	if ds == nil {
		return nil
	}
	return ds.Records
}

// YearlyProductionByType sums production by (type, year) as type → year →
// total.  Combinations without records are absent; unresolved years are
// skipped.
func YearlyProductionByType(ds *dataset.Dataset) Outcome[map[string]map[int]float64] {
	if o, ok := checkColumns[map[string]map[int]float64](ds, dataset.ColumnYear, dataset.ColumnType, dataset.ColumnProduction); !ok {
		return o
	}
	return Available(groupSum2(records(ds), func(r dataset.Record) (string, int, bool) {
		return r.Type, r.Year, r.HasYear()
	}))
}

// StateProductionByYear sums production by (state, year) as state → year →
// total, with the same sparse-key semantics as YearlyProductionByType.
func StateProductionByYear(ds *dataset.Dataset) Outcome[map[string]map[int]float64] {
	if o, ok := checkColumns[map[string]map[int]float64](ds, dataset.ColumnYear, dataset.ColumnState, dataset.ColumnProduction); !ok {
		return o
	}
	return Available(groupSum2(records(ds), func(r dataset.Record) (string, int, bool) {
		return r.State, r.Year, r.HasYear()
	}))
}

// TopCommodities ranks commodities by total production, descending, and
// keeps the first n.  Equal totals keep the order in which the commodities
// first appear in the dataset.
func TopCommodities(ds *dataset.Dataset, n int) Outcome[[]Total] {
	return TopBy(ds, dataset.ColumnCommodity, n, func(r dataset.Record) string { return r.Commodity })
}

// TopBy ranks the values of an arbitrary key by total production.  role
// names the column the key reads so a missing column is reported.
func TopBy(ds *dataset.Dataset, role string, n int, key func(dataset.Record) string) Outcome[[]Total] {
	if o, ok := checkColumns[[]Total](ds, role, dataset.ColumnProduction); !ok {
		return o
	}
	totals, order := groupSum(records(ds), func(r dataset.Record) (string, bool) {
		k := key(r)
		return k, k != ""
	})
	ranked := make([]Total, 0, len(order))
	for _, k := range order {
		ranked = append(ranked, Total{Name: k, Production: totals[k]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Production > ranked[j].Production })
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return Available(ranked)
}

// StateTotals sums production per state.
func StateTotals(ds *dataset.Dataset) Outcome[map[string]float64] {
	if o, ok := checkColumns[map[string]float64](ds, dataset.ColumnState, dataset.ColumnProduction); !ok {
		return o
	}
	totals, _ := groupSum(records(ds), func(r dataset.Record) (string, bool) { return r.State, r.State != "" })
	return Available(totals)
}

// TypeShares returns each type's share of total production in percent.  A
// dataset whose total is zero yields an empty mapping.
func TypeShares(ds *dataset.Dataset) Outcome[map[string]float64] {
	if o, ok := checkColumns[map[string]float64](ds, dataset.ColumnType, dataset.ColumnProduction); !ok {
		return o
	}
	totals, _ := groupSum(records(ds), func(r dataset.Record) (string, bool) { return r.Type, r.Type != "" })
	var grand float64
	for _, v := range totals {
		grand += v
	}
	shares := make(map[string]float64, len(totals))
	if grand <= 0 || !finite(grand) {
		return Available(shares)
	}
	for k, v := range totals {
		shares[k] = v / grand * 100
	}
	return Available(shares)
}

//Personal.AI order the ending
