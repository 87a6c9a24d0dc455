package dashboard

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/internal/infrastructure/llm"
	"github.com/turtacn/EnviroLens/internal/infrastructure/messaging/kafka"
)

// staticLoader serves fixed datasets and counts loads.
type staticLoader struct {
	datasets map[string]*dataset.Dataset
	err      error
	delay    time.Duration
	calls    atomic.Int32
}

func (l *staticLoader) Load(_ context.Context, name, _ string) (*dataset.Dataset, error) {
	l.calls.Add(1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if l.err != nil {
		return nil, l.err
	}
	if ds, ok := l.datasets[name]; ok {
		return ds, nil
	}
	return dataset.Empty(name, "", "No data available"), nil
}

// panicPlugin blows up during analysis.
type panicPlugin struct {
	basePlugin
}

func (p *panicPlugin) Analyze(*dataset.Dataset) (*Analysis, error) { panic("matrix exploded") }
func (p *panicPlugin) Summarize(*dataset.Dataset, *Analysis) []string {
	return nil
}
func (p *panicPlugin) Fallback() []string { return []string{"fallback one", "fallback two"} }

// infPlugin reports a value JSON cannot encode.
type infPlugin struct {
	basePlugin
}

func (p *infPlugin) Analyze(*dataset.Dataset) (*Analysis, error) {
	return &Analysis{Fields: map[string]interface{}{"growth": math.Inf(1)}}, nil
}
func (p *infPlugin) Summarize(*dataset.Dataset, *Analysis) []string { return []string{"grew"} }
func (p *infPlugin) Fallback() []string { return []string{"growth unavailable"} }

func productionRecord(year int, state, typ, commodity string, production float64) dataset.Record {
	return dataset.Record{Year: year, State: state, Type: typ, Commodity: commodity, Production: production}
}

// mineralDataset has four states so clustering runs.
func mineralDataset() *dataset.Dataset {
	ds := dataset.New(dataset.MineralExtraction,
		dataset.ColumnYear, dataset.ColumnState, dataset.ColumnType, dataset.ColumnCommodity, dataset.ColumnProduction)
	for _, r := range []dataset.Record{
		productionRecord(2015, "Johor", "Metallic", "Iron Ore", 100),
		productionRecord(2020, "Johor", "Metallic", "Iron Ore", 150),
		productionRecord(2015, "Pahang", "Metallic", "Bauxite", 400),
		productionRecord(2020, "Pahang", "Metallic", "Bauxite", 300),
		productionRecord(2015, "Perak", "Non-Metallic", "Limestone", 50),
		productionRecord(2020, "Perak", "Non-Metallic", "Limestone", 60),
		productionRecord(2015, "Sabah", "Energy", "Coal", 20),
		productionRecord(2020, "Sabah", "Energy", "Coal", 80),
	} {
		ds.Records = append(ds.Records, r)
	}
	return ds
}

// fakeInsights is an InsightClient with scripted replies.
type fakeInsights struct {
	enabled    bool
	keyPoints  map[string][]string
	integrated *llm.IntegratedAnalysis
	mu         sync.Mutex
	analyzed   []string
}

func (f *fakeInsights) Enabled() bool   { return f.enabled }
func (f *fakeInsights) SampleSize() int { return 5 }

func (f *fakeInsights) Analyze(_ context.Context, name string, data llm.PromptData) *llm.Analysis {
	f.mu.Lock()
	f.analyzed = append(f.analyzed, name+":"+data.Label)
	f.mu.Unlock()
	return &llm.Analysis{Insights: []string{"ai " + name}, KeyPoints: f.keyPoints[name]}
}

func (f *fakeInsights) AnalyzeIntegrated(context.Context, llm.IntegratedPromptData) *llm.IntegratedAnalysis {
	if f.integrated != nil {
		return f.integrated
	}
	return llm.CannedIntegratedAnalysis()
}

// recordingPublisher captures snapshots.
type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []kafka.SnapshotPayload
	err       error
}

func (p *recordingPublisher) PublishSnapshot(_ context.Context, s kafka.SnapshotPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, s)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}
