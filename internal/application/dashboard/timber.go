package dashboard

import (
	"github.com/turtacn/EnviroLens/internal/application/analytics"
	"github.com/turtacn/EnviroLens/internal/application/insights"
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

// Timber dataset keys.
const (
	KeyTopSpecies         = "top_species"
	KeyStateTotals        = "state_totals"
	KeySpeciesGrowthRates = "species_growth_rates"
)

// TimberPlugin analyses timber production.  The timber schema maps product
// onto the type role and species onto the commodity role.
type TimberPlugin struct {
	basePlugin
}

func NewTimberPlugin(loader Loader, source string) *TimberPlugin {
	return &TimberPlugin{basePlugin{name: dataset.TimberProduction, source: source, loader: loader}}
}

func (p *TimberPlugin) Analyze(ds *dataset.Dataset) (*Analysis, error) {
	a := newAnalysis()
	err := firstSchemaError(
		setOutcome(a, KeyYearlyProductionByType, analytics.YearlyProductionByType(ds)),
		setOutcome(a, KeyTopSpecies, analytics.TopCommodities(ds, analytics.DefaultTopN)),
		setOutcome(a, KeyStateTotals, analytics.StateTotals(ds)),
		setOutcome(a, KeySpeciesGrowthRates, insights.SpeciesGrowthRates(ds)),
	)
	return a, err
}

func (p *TimberPlugin) Summarize(ds *dataset.Dataset, _ *Analysis) []string {
	return insights.Timber(ds)
}

func (p *TimberPlugin) Fallback() []string {
	return insights.Fallback(p.name)
}

//Personal.AI order the ending
