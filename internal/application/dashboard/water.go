package dashboard

import (
	"github.com/turtacn/EnviroLens/internal/application/analytics"
	"github.com/turtacn/EnviroLens/internal/application/insights"
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// Water dataset keys.
const (
	KeyCleanShareByMeasure   = "clean_share_by_measure"
	KeyLatestStatusBreakdown = "latest_status_breakdown"
	KeyQualityIndex          = "quality_index"
	KeyBasinsMonitored       = "basins_monitored"
	KeyTrends                = "trends"
)

// WaterPlugin analyses river water quality: status class per measure and
// year, with the share of clean readings as the headline figure.
type WaterPlugin struct {
	basePlugin
}

func NewWaterPlugin(loader Loader, source string) *WaterPlugin {
	return &WaterPlugin{basePlugin{name: dataset.WaterQuality, source: source, loader: loader}}
}

func (p *WaterPlugin) Analyze(ds *dataset.Dataset) (*Analysis, error) {
	a := newAnalysis()
	err := firstSchemaError(
		setOutcome(a, KeyCleanShareByMeasure, analytics.CleanShareByMeasure(ds)),
		setOutcome(a, KeyLatestStatusBreakdown, analytics.LatestStatusBreakdown(ds)),
		setOutcome(a, KeyQualityIndex, analytics.QualityIndex(ds)),
		setOutcome(a, KeyTrends, analytics.QualityTrend(ds)),
	)
	a.Fields[KeyBasinsMonitored] = analytics.BasinsMonitored(ds)
	return a, err
}

func (p *WaterPlugin) Summarize(ds *dataset.Dataset, _ *Analysis) []string {
	return insights.Water(ds)
}

func (p *WaterPlugin) Fallback() []string {
	return insights.Fallback(p.name)
}

//Personal.AI order the ending
