// Package source reads tabular datasets from remote URLs or local files and
// substitutes seeded synthetic data when a source cannot be reached.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

// NoDataMessage is attached to datasets built from an empty, malformed or
// non-200 remote response.
const NoDataMessage = "No data available"

// maxBodyBytes caps how much of a remote response is read.
const maxBodyBytes = 32 << 20

// SyntheticSource is the source identifier that selects generated data.
const SyntheticSource = "synthetic"

// Generator produces synthetic stand-ins.  *synthetic.Generator satisfies it.
type Generator interface {
	Generate(name string) (*dataset.Dataset, error)
}

// HTTPDoer is the subset of *http.Client used for remote fetches.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Loader resolves a source identifier into a Dataset.
type Loader struct {
	client  HTTPDoer
	gen     Generator
	timeout time.Duration
	logger  logging.Logger
}

// Option customises a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(l *Loader) { l.client = c }
}

// WithTimeout bounds each remote fetch.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// NewLoader returns a Loader that falls back to gen.
func NewLoader(gen Generator, logger logging.Logger, opts ...Option) *Loader {
	l := &Loader{
		client:  &http.Client{},
		gen:     gen,
		timeout: 10 * time.Second,
		logger:  logging.OrDefault(logger).Named("source"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the dataset called name from src.
//
//   - "" or "synthetic": generated data.
//   - http(s) URL: JSON or CSV body.  A transport failure falls back to
//     synthetic data; a non-200, empty or unrecognisable response yields an
//     empty dataset with NoDataMessage.
//   - file path (.csv, .json, .xlsx): a missing file falls back to synthetic
//     data; an unreadable one yields an empty dataset with NoDataMessage.
//
// The only errors returned are for datasets without a registered schema and
// for a cancelled context.
func (l *Loader) Load(ctx context.Context, name, src string) (*dataset.Dataset, error) {
	schema, ok := dataset.SchemaFor(name)
	if !ok {
		return nil, errors.Newf(errors.CodeDatasetNotFound, "no schema registered for dataset %q", name)
	}

	src = strings.TrimSpace(src)
	switch {
	case src == "" || strings.EqualFold(src, SyntheticSource):
		return l.synthetic(name, "")
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return l.loadRemote(ctx, name, src, schema)
	default:
		return l.loadFile(ctx, name, src, schema)
	}
}

func (l *Loader) synthetic(name, reason string) (*dataset.Dataset, error) {
	if l.gen == nil {
		return nil, errors.Newf(errors.CodeSourceUnavailable, "no synthetic generator configured for %q", name)
	}
	ds, err := l.gen.Generate(name)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		ds.Message = "Using synthetic data: " + reason
	}
	return ds, nil
}

func (l *Loader) loadRemote(ctx context.Context, name, src string, schema dataset.Schema) (*dataset.Dataset, error) {
	log := l.logger.With(logging.Dataset(name), logging.String("source", src))

	body, status, err := l.fetch(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), errors.CodeTimeout, "dataset load cancelled")
		}
		appErr := errors.Wrap(err, errors.CodeSourceUnavailable, "remote source unavailable").WithDetail(src)
		log.Warn("remote source unavailable, substituting synthetic data", logging.Err(appErr))
		return l.synthetic(name, "remote source unavailable")
	}
	if status != http.StatusOK {
		log.Warn("remote source returned non-200", logging.Int("status", status))
		return dataset.Empty(name, src, NoDataMessage), nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		log.Warn("remote source returned an empty body")
		return dataset.Empty(name, src, NoDataMessage), nil
	}

	t, err := decodeRemote(body)
	if err != nil || t.empty() {
		log.Warn("remote payload not recognised", logging.Err(err))
		return dataset.Empty(name, src, NoDataMessage), nil
	}
	ds := buildDataset(name, src, schema, t)
	if len(ds.Columns) == 0 {
		log.Warn("remote payload has no recognised columns", logging.Strings("headers", t.Headers))
		return dataset.Empty(name, src, NoDataMessage), nil
	}
	log.Info("remote dataset loaded", logging.Int("records", ds.Len()))
	return ds, nil
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json, text/csv;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// decodeRemote tries JSON first when the body looks like JSON, then CSV.
func decodeRemote(body []byte) (*table, error) {
	if looksLikeJSON(body) {
		if t, err := decodeJSON(body); err == nil {
			return t, nil
		}
	}
	return decodeCSV(bytes.NewReader(body))
}

func (l *Loader) loadFile(ctx context.Context, name, path string, schema dataset.Schema) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "dataset load cancelled")
	}
	log := l.logger.With(logging.Dataset(name), logging.String("source", path))

	f, err := os.Open(path)
	if err != nil {
		appErr := errors.Wrap(err, errors.CodeSourceUnavailable, "dataset file unavailable").WithDetail(path)
		log.Warn("dataset file unavailable, substituting synthetic data", logging.Err(appErr))
		return l.synthetic(name, fmt.Sprintf("file %s not found", filepath.Base(path)))
	}
	defer f.Close()

	var t *table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err = decodeCSV(f)
	case ".json":
		var body []byte
		body, err = io.ReadAll(io.LimitReader(f, maxBodyBytes))
		if err == nil {
			t, err = decodeJSON(body)
		}
	case ".xlsx":
		t, err = decodeXLSX(f)
	default:
		err = errors.Newf(errors.CodeSourceUnsupported, "unsupported file extension %q", filepath.Ext(path))
	}
	if err != nil || t.empty() {
		log.Warn("dataset file not readable", logging.Err(err))
		return dataset.Empty(name, path, NoDataMessage), nil
	}

	ds := buildDataset(name, path, schema, t)
	if len(ds.Columns) == 0 {
		log.Warn("dataset file has no recognised columns", logging.Strings("headers", t.Headers))
		return dataset.Empty(name, path, NoDataMessage), nil
	}
	log.Info("dataset file loaded", logging.Int("records", ds.Len()))
	return ds, nil
}

//Personal.AI order the ending
