package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the prediction pipeline.
var (
	// ErrSchema wraps every rejected input record.
	ErrSchema = errors.New("schema error")
	// ErrArtifactLoad wraps every bundle that is missing, partially
	// written, or internally inconsistent. Always fatal: serving must
	// refuse to start rather than predict against mismatched artifacts.
	ErrArtifactLoad = errors.New("artifact load error")
	// ErrScorerInference wraps scorer failures on well-formed vectors.
	ErrScorerInference = errors.New("scorer inference error")
)

// SchemaError reports a required field that is missing or fails its
// declared constraint. Category drift is never a SchemaError; the encoder
// absorbs it.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: field %q: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrSchema) hold.
func (e *SchemaError) Unwrap() error { return ErrSchema }

// NewSchemaError builds a SchemaError for one offending field.
func NewSchemaError(field, reason string) error {
	return &SchemaError{Field: field, Reason: reason}
}

// ArtifactLoadError reports an unloadable or inconsistent bundle.
type ArtifactLoadError struct {
	RunID  string
	Reason string
}

func (e *ArtifactLoadError) Error() string {
	if e.RunID == "" {
		return fmt.Sprintf("artifact load error: %s", e.Reason)
	}
	return fmt.Sprintf("artifact load error: bundle %s: %s", e.RunID, e.Reason)
}

// Unwrap makes errors.Is(err, ErrArtifactLoad) hold.
func (e *ArtifactLoadError) Unwrap() error { return ErrArtifactLoad }

// NewArtifactLoadError builds an ArtifactLoadError for one bundle.
func NewArtifactLoadError(runID, reason string) error {
	return &ArtifactLoadError{RunID: runID, Reason: reason}
}
