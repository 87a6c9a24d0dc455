package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics is the EnviroLens metric set.  Every method is safe on a nil
// receiver, so components can take an optional *AppMetrics.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Dataset pipeline
	PipelineRunsTotal     CounterVec
	PipelineDuration      HistogramVec
	DatasetRecords        GaugeVec
	DatasetSyntheticTotal CounterVec
	AnalysisUnavailable   CounterVec

	// Result store
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	CacheClearsTotal CounterVec

	// Insight service
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec

	// Snapshot publication
	SnapshotsPublishedTotal CounterVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultPipelineDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultLLMDurationBuckets      = []float64{.5, 1, 2, 5, 10, 20, 30, 60}
)

// NewAppMetrics registers the metric set with collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.PipelineRunsTotal = collector.RegisterCounter("pipeline_runs_total", "Dataset pipeline runs", "dataset", "status")
	m.PipelineDuration = collector.RegisterHistogram("pipeline_duration_seconds", "Dataset pipeline duration", DefaultPipelineDurationBuckets, "dataset")
	m.DatasetRecords = collector.RegisterGauge("dataset_records", "Records in the last loaded dataset", "dataset")
	m.DatasetSyntheticTotal = collector.RegisterCounter("dataset_synthetic_total", "Loads served from synthetic data", "dataset")
	m.AnalysisUnavailable = collector.RegisterCounter("analysis_unavailable_total", "Analytics steps that produced no value", "dataset", "reason")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Result store hits", "backend")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Result store misses", "backend")
	m.CacheClearsTotal = collector.RegisterCounter("cache_clears_total", "Explicit result store refreshes", "backend")

	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "Insight service calls", "template", "outcome")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "Insight service call duration", DefaultLLMDurationBuckets, "template")

	m.SnapshotsPublishedTotal = collector.RegisterCounter("snapshots_published_total", "Snapshots published to Kafka", "status")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// RecordHTTPRequest counts one served request.
func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordPipeline counts one dataset pipeline run.
func (m *AppMetrics) RecordPipeline(dataset string, ok bool, records int, synthetic bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	m.PipelineRunsTotal.WithLabelValues(dataset, status).Inc()
	m.PipelineDuration.WithLabelValues(dataset).Observe(duration.Seconds())
	m.DatasetRecords.WithLabelValues(dataset).Set(float64(records))
	if synthetic {
		m.DatasetSyntheticTotal.WithLabelValues(dataset).Inc()
	}
}

// RecordUnavailable counts an analytics step that returned no value.
func (m *AppMetrics) RecordUnavailable(dataset, reason string) {
	if m == nil {
		return
	}
	m.AnalysisUnavailable.WithLabelValues(dataset, reason).Inc()
}

// RecordCacheAccess counts a result store lookup.
func (m *AppMetrics) RecordCacheAccess(backend string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(backend).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(backend).Inc()
	}
}

// RecordCacheClear counts an explicit refresh.
func (m *AppMetrics) RecordCacheClear(backend string) {
	if m == nil {
		return
	}
	m.CacheClearsTotal.WithLabelValues(backend).Inc()
}

// ObserveLLMCall records one insight service attempt.  It satisfies the llm
// client's Observer interface.
func (m *AppMetrics) ObserveLLMCall(template, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.LLMRequestsTotal.WithLabelValues(template, outcome).Inc()
	if d > 0 {
		m.LLMRequestDuration.WithLabelValues(template).Observe(d.Seconds())
	}
}

// RecordSnapshotPublished counts a Kafka publication attempt.
func (m *AppMetrics) RecordSnapshotPublished(ok bool) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	m.SnapshotsPublishedTotal.WithLabelValues(status).Inc()
}

// SetHealth records a component health state.
func (m *AppMetrics) SetHealth(component string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// RecordError counts an error by component and error code.
func (m *AppMetrics) RecordError(component, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
