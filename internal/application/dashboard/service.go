package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/internal/infrastructure/llm"
	"github.com/turtacn/EnviroLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

// Top-level payload keys besides the dataset names.
const (
	KeyRecommendations    = "recommendations"
	KeyIntegratedAnalysis = "integrated_analysis"
)

// MaxRecommendations caps recommendations drawn from per-dataset key points.
const MaxRecommendations = 5

// DefaultRecommendations are served when no AI analysis is available.
var DefaultRecommendations = []string{
	"Implement buffer zones between industrial areas and water sources",
	"Improve wastewater treatment infrastructure in urban centers",
	"Develop green infrastructure to mitigate urban runoff issues",
}

// Labels used in prompts.
var datasetLabels = map[string]string{
	dataset.MineralExtraction: "Mineral Extraction",
	dataset.WaterQuality:      "Water Quality",
	dataset.TimberProduction:  "Timber Production",
}

// ResultStore memoizes serialized results.  Entries never expire; Clear is
// the only invalidation.
type ResultStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// InsightClient is the optional AI analysis service.
type InsightClient interface {
	Enabled() bool
	SampleSize() int
	Analyze(ctx context.Context, name string, data llm.PromptData) *llm.Analysis
	AnalyzeIntegrated(ctx context.Context, data llm.IntegratedPromptData) *llm.IntegratedAnalysis
}

// Option configures a Service.
type Option func(*Service)

// WithInsights enables per-dataset and integrated AI analysis.
func WithInsights(c InsightClient) Option {
	return func(s *Service) { s.insight = c }
}

// WithMetrics records pipeline and cache metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPublisher publishes a snapshot after every recompute.
func WithPublisher(p kafka.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithBackend names the store backend in metrics.
func WithBackend(name string) Option {
	return func(s *Service) { s.backend = name }
}

// Service orchestrates the dataset plugins.  It is safe for concurrent use.
type Service struct {
	plugins   []Plugin
	byName    map[string]Plugin
	store     ResultStore
	insight   InsightClient
	metrics   *prometheus.AppMetrics
	publisher kafka.Publisher
	backend   string
	logger    logging.Logger
	group     singleflight.Group
}

// NewService builds a Service over plugins, which are reported in the given
// order.
func NewService(store ResultStore, plugins []Plugin, logger logging.Logger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.InvalidParam("dashboard: result store is required")
	}
	if len(plugins) == 0 {
		return nil, errors.InvalidParam("dashboard: at least one plugin is required")
	}
	s := &Service{
		plugins: plugins,
		byName:  make(map[string]Plugin, len(plugins)),
		store:   store,
		backend: "memory",
		logger:  logging.OrDefault(logger).Named("dashboard"),
	}
	for _, p := range plugins {
		if _, dup := s.byName[p.Name()]; dup {
			return nil, errors.Newf(errors.CodeInvalidParam, "dashboard: duplicate plugin %q", p.Name())
		}
		s.byName[p.Name()] = p
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Names returns the plugin names in report order.
func (s *Service) Names() []string {
	out := make([]string, len(s.plugins))
	for i, p := range s.plugins {
		out[i] = p.Name()
	}
	return out
}

// Data returns the full payload.  With refresh the store is cleared first.
// Consecutive calls without refresh return identical bytes.
func (s *Service) Data(ctx context.Context, refresh bool) ([]byte, error) {
	parts, err := s.parts(ctx, refresh)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(parts)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to assemble payload")
	}
	return out, nil
}

// Dataset returns one dataset's slice of the cached payload.
func (s *Service) Dataset(ctx context.Context, name string) ([]byte, error) {
	if _, ok := s.byName[name]; !ok {
		return nil, errors.Newf(errors.CodeDatasetNotFound, "unknown dataset %q", name)
	}
	parts, err := s.parts(ctx, false)
	if err != nil {
		return nil, err
	}
	return parts[name], nil
}

// Refresh clears the store and recomputes every dataset.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.parts(ctx, true)
	return err
}

// flightTimeout bounds one shared computation.  The flight is detached from
// the caller that started it, so a disconnect fails only that caller.
const flightTimeout = 2 * time.Minute

func (s *Service) parts(ctx context.Context, refresh bool) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "dashboard computation cancelled")
	}
	if !refresh {
		if parts, ok := s.cached(ctx); ok {
			s.metrics.RecordCacheAccess(s.backend, true)
			return parts, nil
		}
	}
	s.metrics.RecordCacheAccess(s.backend, false)

	// Refreshes never join a plain flight that started before the store
	// was cleared.
	key := "compute"
	if refresh {
		key = "refresh"
	}
	ch := s.group.DoChan(key, func() (v interface{}, err error) {
		// DoChan re-panics on a fresh goroutine, which nothing could recover.
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf(errors.CodeComputationFailed, "dashboard computation panicked: %v", r)
			}
		}()
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		if refresh {
			if err := s.store.Clear(fctx); err != nil {
				s.logger.Warn("result store clear failed", logging.Err(err))
			}
			s.metrics.RecordCacheClear(s.backend)
		} else if parts, ok := s.cached(fctx); ok {
			return parts, nil
		}
		return s.compute(fctx, refresh)
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.CodeTimeout, "dashboard computation cancelled")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("joined in-flight computation", logging.String("flight", key))
		}
		return res.Val.(map[string]json.RawMessage), nil
	}
}

func (s *Service) keys() []string {
	keys := append(s.Names(), KeyRecommendations)
	if s.aiEnabled() {
		keys = append(keys, KeyIntegratedAnalysis)
	}
	return keys
}

// cached returns every stored part, or false when any is missing.
func (s *Service) cached(ctx context.Context) (map[string]json.RawMessage, bool) {
	keys := s.keys()
	parts := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		b, ok, err := s.store.Get(ctx, key)
		if err != nil {
			s.logger.Warn("result store read failed", logging.String("key", key), logging.Err(err))
			return nil, false
		}
		if !ok {
			return nil, false
		}
		parts[key] = b
	}
	return parts, true
}

func (s *Service) aiEnabled() bool {
	return s.insight != nil && s.insight.Enabled()
}

// datasetResult is one plugin's contribution before serialization.
type datasetResult struct {
	name      string
	fields    map[string]interface{}
	summary   map[string]interface{}
	keyPoints []string
}

func (s *Service) compute(ctx context.Context, refresh bool) (map[string]json.RawMessage, error) {
	start := time.Now()
	results := make([]*datasetResult, len(s.plugins))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range s.plugins {
		i, p := i, p
		g.Go(func() error {
			results[i] = s.run(gctx, p)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "dashboard computation cancelled")
	}

	parts := make(map[string]json.RawMessage, len(results)+2)
	for i, r := range results {
		b, err := json.Marshal(r.fields)
		if err != nil {
			// Typically a NaN or ±Inf that slipped into the analysis.
			err = errors.Wrap(err, errors.CodeSerialization, "failed to marshal dataset result").WithDetail(r.name)
			s.logger.Error("dataset result not serializable", logging.Dataset(r.name), logging.Err(err))
			r = s.failed(s.plugins[i], err, start)
			results[i] = r
			if b, err = json.Marshal(r.fields); err != nil {
				return nil, errors.Wrap(err, errors.CodeSerialization, "failed to marshal dataset result").WithDetail(r.name)
			}
		}
		parts[r.name] = b
	}

	recs, integrated := s.recommend(ctx, results)
	b, err := json.Marshal(recs)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to marshal recommendations")
	}
	parts[KeyRecommendations] = b
	if integrated != nil {
		if b, err = json.Marshal(integrated); err != nil {
			s.logger.Error("integrated analysis not serializable", logging.Err(err))
			b = json.RawMessage("null")
		}
		parts[KeyIntegratedAnalysis] = b
	}

	for key, val := range parts {
		if err := s.store.Set(ctx, key, val); err != nil {
			s.logger.Warn("result store write failed", logging.String("key", key), logging.Err(err))
			s.metrics.RecordError("dashboard", string(errors.CodeCacheError))
		}
	}
	s.logger.Info("analytics recomputed",
		logging.Bool("refresh", refresh),
		logging.Int("datasets", len(results)),
		logging.Duration("took", time.Since(start)))

	s.publish(ctx, refresh, parts)
	return parts, nil
}

// run executes one plugin.  Every failure, panics included, is contained in
// the plugin's result.
func (s *Service) run(ctx context.Context, p Plugin) (res *datasetResult) {
	name := p.Name()
	start := time.Now()
	log := s.logger.With(logging.Dataset(name))

	defer func() {
		if r := recover(); r != nil {
			err := errors.Newf(errors.CodeComputationFailed, "%v", r)
			log.Error("dataset pipeline panicked", logging.Err(err))
			res = s.failed(p, err, start)
		}
	}()

	ds, err := p.Load(ctx)
	if err != nil {
		log.Error("dataset load failed", logging.Err(err))
		return s.failed(p, err, start)
	}

	res = &datasetResult{name: name, fields: make(map[string]interface{}), summary: map[string]interface{}{}}
	if ds.Message != "" {
		res.fields["message"] = ds.Message
	}
	if ds.Synthetic {
		res.fields["synthetic"] = true
	}

	a, err := p.Analyze(ds)
	if a != nil {
		for k, v := range a.Fields {
			res.fields[k] = v
		}
		res.summary = a.Fields
		for step, reason := range a.Unavailable {
			s.metrics.RecordUnavailable(name, string(reason))
			log.Debug("analytics step unavailable", logging.String("step", step), logging.String("reason", string(reason)))
		}
	}
	switch {
	case err != nil && errors.IsCode(err, errors.CodeSchemaMismatch):
		log.Warn("dataset does not match its schema", logging.Err(err))
		res.fields["status"] = StatusInsufficientData
	case err != nil:
		log.Error("dataset analysis failed", logging.Err(err))
		return s.failed(p, err, start)
	case ds.Len() == 0:
		res.fields["status"] = StatusInsufficientData
	}

	res.fields["insights"] = p.Summarize(ds, a)

	if s.aiEnabled() {
		n := s.insight.SampleSize()
		ai := s.insight.Analyze(ctx, name, llm.PromptData{
			Label:       datasetLabels[name],
			RecordCount: ds.Len(),
			SampleSize:  n,
			Summary:     res.summary,
			Sample:      ds.Sample(n),
			Columns:     ds.Columns,
		})
		res.fields["ai_analysis"] = ai
		res.keyPoints = ai.KeyPoints
	}

	s.metrics.RecordPipeline(name, true, ds.Len(), ds.Synthetic, time.Since(start))
	log.Info("dataset pipeline finished",
		logging.Int("records", ds.Len()),
		logging.Bool("synthetic", ds.Synthetic),
		logging.Duration("took", time.Since(start)))
	return res
}

// failed builds the error result: the message plus the fixed fallback
// insights.
func (s *Service) failed(p Plugin, err error, start time.Time) *datasetResult {
	s.metrics.RecordPipeline(p.Name(), false, 0, false, time.Since(start))
	s.metrics.RecordError("dashboard", string(errors.GetCode(err)))

	insights := []string{fmt.Sprintf("Analysis of %s is currently unavailable.", p.Name())}
	if fb := safeFallback(p); len(fb) > 0 {
		insights = fb
	}
	return &datasetResult{
		name: p.Name(),
		fields: map[string]interface{}{
			"status":   StatusError,
			"error":    err.Error(),
			"insights": insights,
		},
		summary: map[string]interface{}{},
	}
}

func safeFallback(p Plugin) (out []string) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return p.Fallback()
}

// recommend picks the top-level recommendations: integrated AI
// recommendations when the call succeeded, then per-dataset key points, then
// the defaults.
func (s *Service) recommend(ctx context.Context, results []*datasetResult) ([]string, *llm.IntegratedAnalysis) {
	if !s.aiEnabled() {
		return append([]string(nil), DefaultRecommendations...), nil
	}

	summaries := make(map[string]interface{}, len(results))
	for _, r := range results {
		label := datasetLabels[r.name]
		if label == "" {
			label = r.name
		}
		summaries[label] = r.summary
	}
	integrated := s.insight.AnalyzeIntegrated(ctx, llm.IntegratedPromptData{Summaries: summaries})
	if integrated != nil && !integrated.Fallback && len(integrated.Recommendations) > 0 {
		return append([]string(nil), integrated.Recommendations...), integrated
	}

	var recs []string
	for _, r := range results {
		recs = append(recs, r.keyPoints...)
	}
	if len(recs) == 0 {
		return append([]string(nil), DefaultRecommendations...), integrated
	}
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs, integrated
}

func (s *Service) publish(ctx context.Context, refresh bool, parts map[string]json.RawMessage) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(parts)
	if err != nil {
		s.logger.Warn("snapshot encoding failed", logging.Err(err))
		s.metrics.RecordSnapshotPublished(false)
		return
	}
	err = s.publisher.PublishSnapshot(ctx, kafka.SnapshotPayload{
		Datasets: s.Names(),
		Refresh:  refresh,
		Data:     data,
	})
	s.metrics.RecordSnapshotPublished(err == nil)
}

//Personal.AI order the ending
