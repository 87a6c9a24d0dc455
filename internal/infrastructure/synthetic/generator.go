// Package synthetic generates stand-in datasets when a real source is absent.
// Generation is driven by an explicit seed so tests can request identical
// datasets without any network access.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

// Taxonomy maps a type/category onto the commodities that belong to it.
type Taxonomy map[string][]string

// types returns the taxonomy keys sorted, so generation order never depends
// on map iteration.
func (t Taxonomy) types() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MineralTaxonomy is the default mineral-extraction taxonomy.
var MineralTaxonomy = Taxonomy{
	"Metallic":     {"Iron Ore", "Bauxite", "Tin", "Gold", "Copper"},
	"Non-Metallic": {"Limestone", "Kaolin", "Silica Sand", "Feldspar"},
	"Energy":       {"Coal", "Crude Oil", "Natural Gas"},
}

// TimberTaxonomy is the default timber-production taxonomy (product → species).
var TimberTaxonomy = Taxonomy{
	"Sawlogs":   {"Meranti", "Keruing", "Kapur", "Balau"},
	"Plywood":   {"Meranti", "Mersawa", "Jelutong"},
	"Pulpwood":  {"Acacia", "Rubberwood"},
	"Veneer":    {"Kapur", "Nyatoh"},
}

// Water quality measures and status classes, matching the river monitoring
// export.
var (
	WaterMeasures = []string{"bod5", "nh3n", "ss"}
	WaterStatuses = []string{"clean", "slightly polluted", "polluted"}
)

// Options bounds the generated cross-product.
type Options struct {
	StartYear int
	EndYear   int
	States    []string
}

// Generator produces synthetic datasets from a seeded source.  It is safe for
// concurrent use.
type Generator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	opts Options
}

// NewGenerator returns a Generator seeded with seed.  A zero seed selects a
// time-based seed, so every process start sees different numbers.
func NewGenerator(seed int64, opts Options) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.EndYear < opts.StartYear {
		opts.StartYear, opts.EndYear = opts.EndYear, opts.StartYear
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), opts: opts}
}

// uniform returns a value in [lo, hi).  Callers hold g.mu.
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// Generate returns the synthetic dataset for a named domain.
func (g *Generator) Generate(name string) (*dataset.Dataset, error) {
	switch name {
	case dataset.MineralExtraction:
		return g.Production(name, MineralTaxonomy), nil
	case dataset.TimberProduction:
		return g.Production(name, TimberTaxonomy), nil
	case dataset.WaterQuality:
		return g.Water(), nil
	}
	return nil, errors.Newf(errors.CodeDatasetNotFound, "no synthetic generator for dataset %q", name)
}

// Production builds the cross-product years × states × (type → commodity).
// Each (state, commodity) series follows
//
//	base × (1+growth)^(year−StartYear) × noise
//
// with base in [1 000, 100 000), growth in [−0.05, 0.15) and noise in
// [0.8, 1.2].
func (g *Generator) Production(name string, tax Taxonomy) *dataset.Dataset {
	g.mu.Lock()
	defer g.mu.Unlock()

	ds := dataset.New(name,
		dataset.ColumnDate, dataset.ColumnYear, dataset.ColumnState,
		dataset.ColumnType, dataset.ColumnCommodity, dataset.ColumnProduction)
	ds.Source = "synthetic"
	ds.Synthetic = true

	types := tax.types()
	for _, state := range g.opts.States {
		for _, typ := range types {
			for _, commodity := range tax[typ] {
				base := g.uniform(1000, 100000)
				growth := g.uniform(-0.05, 0.15)
				for year := g.opts.StartYear; year <= g.opts.EndYear; year++ {
					elapsed := float64(year - g.opts.StartYear)
					noise := g.uniform(0.8, 1.2)
					value := base * math.Pow(1+growth, elapsed) * noise
					ds.Records = append(ds.Records, dataset.Record{
						Date:       yearStart(year),
						Year:       year,
						State:      state,
						Type:       typ,
						Commodity:  commodity,
						Production: math.Round(value*100) / 100,
					})
				}
			}
		}
	}
	sortRecords(ds.Records)
	return ds
}

// Water builds yearly status shares per measure.  For every (year, measure)
// the proportions across statuses sum to 1.  The clean share starts in
// [0.55, 0.85) and drifts by a per-measure trend in [−0.02, 0.03) per year.
func (g *Generator) Water() *dataset.Dataset {
	g.mu.Lock()
	defer g.mu.Unlock()

	ds := dataset.New(dataset.WaterQuality,
		dataset.ColumnDate, dataset.ColumnYear, dataset.ColumnType,
		dataset.ColumnCommodity, dataset.ColumnProduction)
	ds.Source = "synthetic"
	ds.Synthetic = true

	for _, measure := range WaterMeasures {
		clean := g.uniform(0.55, 0.85)
		drift := g.uniform(-0.02, 0.03)
		for year := g.opts.StartYear; year <= g.opts.EndYear; year++ {
			elapsed := float64(year - g.opts.StartYear)
			cleanShare := clamp(clean+drift*elapsed+g.uniform(-0.02, 0.02), 0.05, 0.98)
			rest := 1 - cleanShare
			slight := rest * g.uniform(0.5, 0.8)
			shares := []float64{cleanShare, slight, rest - slight}
			basins := float64(140 + g.rng.Intn(7))
			for i, status := range WaterStatuses {
				ds.Records = append(ds.Records, dataset.Record{
					Date:       yearStart(year),
					Year:       year,
					Type:       status,
					Commodity:  measure,
					Production: math.Round(shares[i]*10000) / 10000,
					Extras:     map[string]float64{"basins_monitored": basins},
				})
			}
		}
	}
	sortRecords(ds.Records)
	return ds
}

// Description names the generator settings, used in loader messages.
func (g *Generator) Description() string {
	return fmt.Sprintf("synthetic %d-%d across %d states", g.opts.StartYear, g.opts.EndYear, len(g.opts.States))
}

func yearStart(year int) *time.Time {
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// sortRecords orders records by year so the dataset reads chronologically.
// The sort is stable, so ties keep generation order.
func sortRecords(records []dataset.Record) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Year < records[j].Year })
}

//Personal.AI order the ending
