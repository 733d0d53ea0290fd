// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/mindsage/mindsage/internal/model"
)

// ArtifactStore defines the contract for the artifact persistence layer. A
// bundle is written atomically: it is either fully persisted or absent, and
// a partially written bundle must never be loadable.
type ArtifactStore interface {
	// SaveBundle persists a complete fitting-run bundle in one transaction.
	SaveBundle(ctx context.Context, bundle *model.Bundle) error
	// LoadBundle fetches one bundle by run ID. An empty runID loads the
	// most recent run. Missing or inconsistent bundles return an
	// ArtifactLoadError.
	LoadBundle(ctx context.Context, runID string) (*model.Bundle, error)
	// ListBundles returns summaries of all persisted runs, newest first.
	ListBundles(ctx context.Context) ([]model.BundleInfo, error)

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error
	Close() error
}

// Scorer is the opaque fitted classifier contract. Implementations must be
// deterministic and safe for concurrent use after fitting.
type Scorer interface {
	// PredictProba returns (p_no, p_yes), summing to 1.
	PredictProba(vector []float64) (float64, float64, error)
	// Predict returns the class with the higher probability: 0 or 1.
	Predict(vector []float64) (int, error)
	// GlobalImportances returns one non-negative weight per feature,
	// constant for the scorer's lifetime.
	GlobalImportances() []float64
	// NumFeatures is the vector length the scorer was fitted on.
	NumFeatures() int
}

// Predictor is the serving-side contract composed from a loaded bundle.
type Predictor interface {
	Predict(ctx context.Context, record model.Record) (*model.PredictionResult, error)
}
