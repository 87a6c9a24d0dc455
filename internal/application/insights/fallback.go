package insights

import "github.com/turtacn/EnviroLens/internal/domain/dataset"

// Static sentence sets reported when a domain's columns are missing or its
// computation failed.
var (
	MineralFallback = []string{
		"Iron ore extraction has increased by 15% in the past year, primarily in Pahang state.",
		"Bauxite mining shows the highest growth rate at 22.3% across all mineral types.",
		"Metallic minerals dominate production at 68.5% of total volume.",
	}
	WaterFallback = []string{
		"Average water pH level across all locations is 6.8.",
		"Klang River basin has the most samples with pH below recommended levels.",
		"Johor shows elevated contaminant levels that require attention.",
	}
	TimberFallback = []string{
		"Sarawak is the highest timber producing region with 3,245,000 units.",
		"Kelantan has the lowest sustainability index at 3.45.",
		"Sabah has the highest timber species diversity with 28 different species.",
	}
)

// Fallback returns a copy of the static sentence set for a dataset name, or
// nil for an unknown name.
func Fallback(name string) []string {
	var src []string
	switch name {
	case dataset.MineralExtraction:
		src = MineralFallback
	case dataset.WaterQuality:
		src = WaterFallback
	case dataset.TimberProduction:
		src = TimberFallback
	default:
		return nil
	}
	return append([]string(nil), src...)
}

//Personal.AI order the ending
