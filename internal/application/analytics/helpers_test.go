package analytics

import (
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
)

func productionColumns() []string {
	return []string{dataset.ColumnYear, dataset.ColumnState, dataset.ColumnType, dataset.ColumnCommodity, dataset.ColumnProduction}
}

func rec(year int, state, typ, commodity string, production float64) dataset.Record {
	return dataset.Record{Year: year, State: state, Type: typ, Commodity: commodity, Production: production}
}

// scenarioDataset is 3 states × 2 commodities × 2 years with known totals.
//
//	X: 100+150 (A) + 10+20 (B) + 30+40 (C) = 350
//	Y: 50+50   (A) + 60+60 (B) + 70+70 (C) = 360
func scenarioDataset() *dataset.Dataset {
	ds := dataset.New(dataset.MineralExtraction, productionColumns()...)
	ds.Records = []dataset.Record{
		rec(2015, "A", "Metallic", "X", 100),
		rec(2020, "A", "Metallic", "X", 150),
		rec(2015, "A", "Energy", "Y", 50),
		rec(2020, "A", "Energy", "Y", 50),
		rec(2015, "B", "Metallic", "X", 10),
		rec(2020, "B", "Metallic", "X", 20),
		rec(2015, "B", "Energy", "Y", 60),
		rec(2020, "B", "Energy", "Y", 60),
		rec(2015, "C", "Metallic", "X", 30),
		rec(2020, "C", "Metallic", "X", 40),
		rec(2015, "C", "Energy", "Y", 70),
		rec(2020, "C", "Energy", "Y", 70),
	}
	return ds
}

func emptyDataset() *dataset.Dataset {
	return dataset.Empty(dataset.MineralExtraction, "http://example.invalid", "No data available")
}
