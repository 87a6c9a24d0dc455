// Package insights turns analytics results into short natural-language
// sentences for the dashboard.  Each domain has its own summarizer; all of
// them check the required columns first, compute the aggregates they need and
// fall back to a static sentence set when a computation is unavailable.
//
// Selection of "highest" and "lowest" keys is deterministic: exact ties
// resolve to the lexicographically smallest key.
package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/dustin/go-humanize"
)

// Domain labels used in generated sentences.
const (
	MineralDomain = "mineral extraction"
	WaterDomain   = "water quality"
	TimberDomain  = "timber production"
)

// Insufficient is the single sentence reported for a dataset without rows.
func Insufficient(domain string) []string {
	return []string{fmt.Sprintf("Insufficient data available for %s analysis.", domain)}
}

// Ranked is a key with its value, as picked by MaxKey or MinKey.
type Ranked struct {
	Key   string
	Value float64
}

// MaxKey returns the entry with the largest value.  Ties go to the
// lexicographically smallest key.  ok is false for an empty mapping.
func MaxKey(m map[string]float64) (Ranked, bool) {
	return pick(m, func(a, b float64) bool { return a > b })
}

// MinKey returns the entry with the smallest value, with the same tie rule
// as MaxKey.
func MinKey(m map[string]float64) (Ranked, bool) {
	return pick(m, func(a, b float64) bool { return a < b })
}

func pick(m map[string]float64, better func(a, b float64) bool) (Ranked, bool) {
	if len(m) == 0 {
		return Ranked{}, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := Ranked{Key: keys[0], Value: m[keys[0]]}
	for _, k := range keys[1:] {
		if better(m[k], best.Value) {
			best = Ranked{Key: k, Value: m[k]}
		}
	}
	return best, true
}

// formatAmount renders a production total with thousands separators.
func formatAmount(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// growthSentences renders the fastest-growing and steepest-declining
// entries of a growth-rate mapping.  When every rate is negative only the
// decline is reported.  label names the key kind ("commodities",
// "timber species").
func growthSentences(rates map[string]float64, label string) []string {
	top, ok := MaxKey(rates)
	if !ok {
		return nil
	}
	if top.Value < 0 {
		// Everything declined; a "highest growth" line would be misleading.
		low, _ := MinKey(rates)
		return []string{fmt.Sprintf("%s shows the steepest decline at %.1f%% among %s.", low.Key, low.Value, label)}
	}
	out := []string{fmt.Sprintf("%s shows the highest growth rate at %.1f%% among %s.", top.Key, top.Value, label)}

	if len(rates) < 2 {
		return out
	}
	low, _ := MinKey(rates)
	if low.Value < 0 {
		out = append(out, fmt.Sprintf("%s shows the steepest decline at %.1f%% among %s.", low.Key, low.Value, label))
	} else {
		out = append(out, fmt.Sprintf("%s shows the slowest growth at %.1f%% among %s.", low.Key, low.Value, label))
	}
	return out
}

//Personal.AI order the ending
