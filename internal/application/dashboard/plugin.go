// Package dashboard runs every dataset plugin through load → analytics →
// insights, memoizes the serialized results in a ResultStore and assembles
// the /api/data payload.
package dashboard

import (
	"context"

	"github.com/turtacn/EnviroLens/internal/application/analytics"
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

// Per-dataset status values.  A healthy dataset carries no status.
const (
	StatusInsufficientData = "insufficient_data"
	StatusError            = "error"
)

// Loader reads one dataset from a source identifier.
type Loader interface {
	Load(ctx context.Context, name, src string) (*dataset.Dataset, error)
}

// Analysis is what a plugin computes over its dataset.  Fields are the
// aggregate keys of the dataset's JSON object; Unavailable records the steps
// that produced no value and why.
type Analysis struct {
	Fields      map[string]interface{}
	Unavailable map[string]analytics.Reason
}

func newAnalysis() *Analysis {
	return &Analysis{
		Fields:      make(map[string]interface{}),
		Unavailable: make(map[string]analytics.Reason),
	}
}

// Plugin is one dataset domain.
type Plugin interface {
	Name() string
	Load(ctx context.Context) (*dataset.Dataset, error)
	// Analyze returns a SchemaMismatch error when the dataset cannot be
	// analysed at all; optional steps are reported through Unavailable.
	Analyze(ds *dataset.Dataset) (*Analysis, error)
	Summarize(ds *dataset.Dataset, a *Analysis) []string
	Fallback() []string
}

// basePlugin carries the name and source shared by every plugin.
type basePlugin struct {
	name   string
	source string
	loader Loader
}

func (b basePlugin) Name() string { return b.name }

func (b basePlugin) Load(ctx context.Context) (*dataset.Dataset, error) {
	return b.loader.Load(ctx, b.name, b.source)
}

// setOutcome stores o under key when it holds a value.  A missing_columns
// outcome is returned as an error; other reasons are recorded and skipped.
func setOutcome[T any](a *Analysis, key string, o analytics.Outcome[T]) error {
	if o.OK() {
		a.Fields[key] = o.Value
		return nil
	}
	a.Unavailable[key] = o.Reason
	if o.Reason == analytics.ReasonMissingColumns {
		return o.Err()
	}
	return nil
}

// firstSchemaError keeps the first schema mismatch among errs.
func firstSchemaError(errs ...error) error {
	for _, err := range errs {
		if err != nil && errors.IsCode(err, errors.CodeSchemaMismatch) {
			return err
		}
	}
	return nil
}

//Personal.AI order the ending
