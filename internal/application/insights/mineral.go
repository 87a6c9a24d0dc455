package insights

import (
	"fmt"

	"github.com/turtacn/EnviroLens/internal/application/analytics"
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// Mineral summarizes a mineral-extraction dataset:
//
//  1. highest-producing state with its total
//  2. commodity with the highest growth rate
//  3. commodity with the steepest decline
//  4. dominant mineral type by share of total volume
func Mineral(ds *dataset.Dataset) []string {
	return production(ds, productionLabels{
		domain:   MineralDomain,
		state:    "%s is the highest mineral producing state with %s units.",
		keyLabel: "commodities",
		dominant: "%s minerals dominate production at %.1f%% of total volume.",
		fallback: MineralFallback,
		growth:   analytics.CommodityGrowthRates,
	})
}

type productionLabels struct {
	domain   string
	state    string
	keyLabel string
	dominant string
	fallback []string
	growth   func(*dataset.Dataset) analytics.Outcome[map[string]float64]
}

// production is shared by the mineral and timber summarizers, which only
// differ in wording.
func production(ds *dataset.Dataset, l productionLabels) []string {
	if ds.Len() == 0 {
		return Insufficient(l.domain)
	}

	totals := analytics.StateTotals(ds)
	growth := l.growth(ds)
	shares := analytics.TypeShares(ds)
	if !totals.OK() || !shares.OK() || (!growth.OK() && growth.Reason == analytics.ReasonMissingColumns) {
		return append([]string(nil), l.fallback...)
	}

	var out []string
	if top, ok := MaxKey(totals.Value); ok {
		out = append(out, fmt.Sprintf(l.state, top.Key, formatAmount(top.Value)))
	}
	if growth.OK() {
		out = append(out, growthSentences(growth.Value, l.keyLabel)...)
	}
	if dom, ok := MaxKey(shares.Value); ok {
		out = append(out, fmt.Sprintf(l.dominant, dom.Key, dom.Value))
	}
	if len(out) == 0 {
		return Insufficient(l.domain)
	}
	return out
}

//Personal.AI order the ending
