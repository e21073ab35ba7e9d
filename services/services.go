// Package services defines the external collaborator contracts the workflow
// core consumes — text completion, structured completion, web search,
// document extraction, and literature search — together with the typed
// failure kinds stages pattern-match to pick their degraded defaults.
//
// Every collaborator is fallible and latency-bearing. Stage functions treat
// completion and schema-validation failures identically ("stage produced
// nothing usable") and substitute documented defaults; they never let a
// collaborator error cross the stage boundary.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies collaborator failures for stage-side handling.
type FailureKind string

const (
	// FailureCompletion covers transport and model failures on completion calls.
	FailureCompletion FailureKind = "completion"

	// FailureSchemaValidation means the model answered but its output did not
	// match the requested structure. Callers treat it like FailureCompletion.
	FailureSchemaValidation FailureKind = "schema_validation"

	// FailureRateLimit is a rate-limit rejection; callers may retry with backoff.
	FailureRateLimit FailureKind = "rate_limit"

	// FailureIO covers unexpected I/O errors from search and document reads.
	FailureIO FailureKind = "io"

	// FailureUnknown is returned by KindOf for errors not produced here.
	FailureUnknown FailureKind = "unknown"
)

// Error is a collaborator failure tagged with its kind.
type Error struct {
	Kind FailureKind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap enables error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err as a collaborator failure of the given kind.
func NewError(kind FailureKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) FailureKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return FailureUnknown
}

// TextCompletion renders the named template with the given variables and
// returns the model's free-text reply.
type TextCompletion interface {
	Complete(ctx context.Context, templateID string, vars map[string]string) (string, error)
}

// StructuredCompletion is TextCompletion with a decoding step: the reply is
// parsed into out, and a reply that does not match out's shape fails with
// FailureSchemaValidation.
type StructuredCompletion interface {
	CompleteInto(ctx context.Context, templateID string, vars map[string]string, out any) error
}

// WebSearch returns a best-effort text blob for a query. Empty string means
// no results; a FailureRateLimit error may be retried with backoff.
type WebSearch interface {
	Search(ctx context.Context, query string) (string, error)
}

// DocumentTextExtractor reads a local document. A missing or unreadable
// file yields ("", nil) — absence is an expected outcome, not an error;
// only unexpected I/O failures return an error.
type DocumentTextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Paper is one literature-search hit.
type Paper struct {
	Title     string
	Abstract  string
	Published time.Time
}

// LiteratureSearch finds papers for a query. Recency filtering is the
// calling stage's job, not the collaborator's.
type LiteratureSearch interface {
	Search(ctx context.Context, query string, maxDocs int) ([]Paper, error)
}
