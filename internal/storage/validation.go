package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mindsage/mindsage/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateBundle checks that a bundle is internally consistent before it is
// written. A bundle that fails here must never reach the database.
func validateBundle(b *model.Bundle) error {
	if b == nil {
		return fmt.Errorf("%w: bundle", ErrNilParameter)
	}
	if err := validateString(b.RunID, "bundle.RunID"); err != nil {
		return err
	}
	if b.Manifest == nil {
		return fmt.Errorf("%w: bundle.Manifest", ErrNilParameter)
	}
	if b.Explainer == nil {
		return fmt.Errorf("%w: bundle.Explainer", ErrNilParameter)
	}
	if len(b.ScorerData) == 0 {
		return fmt.Errorf("bundle scorer data is empty")
	}

	n := b.Manifest.NumFeatures()
	if n == 0 {
		return fmt.Errorf("bundle manifest has no features")
	}
	if len(b.Manifest.Scaler.Means) != n || len(b.Manifest.Scaler.Stds) != n {
		return fmt.Errorf("bundle scaler has %d/%d parameters for %d features",
			len(b.Manifest.Scaler.Means), len(b.Manifest.Scaler.Stds), n)
	}
	if len(b.Explainer.FeatureNames) != n || len(b.Explainer.Ranking) != n {
		return fmt.Errorf("bundle explainer covers %d features, manifest has %d",
			len(b.Explainer.FeatureNames), n)
	}
	return nil
}
