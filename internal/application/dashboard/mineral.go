package dashboard

import (
	"github.com/turtacn/EnviroLens/internal/application/analytics"
	"github.com/turtacn/EnviroLens/internal/application/insights"
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// Mineral dataset keys.
const (
	KeyYearlyProductionByType = "yearly_production_by_type"
	KeyTopCommodities         = "top_commodities"
	KeyStateProductionByYear  = "state_production_by_year"
	KeyCommodityGrowthRates   = "commodity_growth_rates"
	KeyStateClusters          = "state_clusters"
)

// MineralPlugin analyses mineral extraction by state, type and commodity.
type MineralPlugin struct {
	basePlugin
}

// NewMineralPlugin reads the mineral dataset from source through loader.
func NewMineralPlugin(loader Loader, source string) *MineralPlugin {
	return &MineralPlugin{basePlugin{name: dataset.MineralExtraction, source: source, loader: loader}}
}

func (p *MineralPlugin) Analyze(ds *dataset.Dataset) (*Analysis, error) {
	a := newAnalysis()
	err := firstSchemaError(
		setOutcome(a, KeyYearlyProductionByType, analytics.YearlyProductionByType(ds)),
		setOutcome(a, KeyTopCommodities, analytics.TopCommodities(ds, analytics.DefaultTopN)),
		setOutcome(a, KeyStateProductionByYear, analytics.StateProductionByYear(ds)),
		setOutcome(a, KeyCommodityGrowthRates, analytics.CommodityGrowthRates(ds)),
	)
	if err != nil {
		return a, err
	}
	// Clustering is optional: too few states leaves the key absent.
	if err := setOutcome(a, KeyStateClusters, analytics.ClusterStates(ds)); err != nil {
		return a, err
	}
	return a, nil
}

func (p *MineralPlugin) Summarize(ds *dataset.Dataset, _ *Analysis) []string {
	return insights.Mineral(ds)
}

func (p *MineralPlugin) Fallback() []string {
	return insights.Fallback(p.name)
}

//Personal.AI order the ending
