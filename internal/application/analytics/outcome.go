// Package analytics holds the pure computations run over a dataset: grouped
// aggregates, top-N rankings, growth rates between the first and last year,
// and k-means clustering of states by production profile.
//
// Every operation returns an Outcome.  An unavailable outcome carries a
// reason code instead of an error so callers can report partial results.
package analytics

import (
	"strings"

	"github.com/turtacn/EnviroLens/pkg/errors"
)

// Reason explains why an Outcome has no value.
type Reason string

const (
	// ReasonMissingColumns means a required column role is absent.
	ReasonMissingColumns Reason = "missing_columns"
	// ReasonTooFewStates means clustering needs at least MinClusterStates.
	ReasonTooFewStates Reason = "too_few_states"
	// ReasonNoBaseYear means no record carries a resolved year.
	ReasonNoBaseYear Reason = "no_base_year"
)

// Outcome is either a value or a tagged reason for its absence.
type Outcome[T any] struct {
	Value  T
	Reason Reason
	Detail string
}

// Available wraps a computed value.
func Available[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Unavailable returns an outcome without a value.
func Unavailable[T any](reason Reason, detail string) Outcome[T] {
	return Outcome[T]{Reason: reason, Detail: detail}
}

// OK reports whether the outcome carries a value.
func (o Outcome[T]) OK() bool { return o.Reason == "" }

// Err converts an unavailable outcome into an AppError, or nil when OK.
func (o Outcome[T]) Err() error {
	switch o.Reason {
	case "":
		return nil
	case ReasonMissingColumns:
		return errors.SchemaMismatch("required columns missing").WithDetail(o.Detail)
	default:
		return errors.New(errors.CodeComputationFailed, string(o.Reason)).WithDetail(o.Detail)
	}
}

func missingColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

//Personal.AI order the ending
