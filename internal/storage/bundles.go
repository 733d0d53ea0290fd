package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mindsage/mindsage/internal/model"
)

// SaveBundle persists a complete fitting-run bundle in one transaction.
// Either every blob lands or none does, so a partially written bundle can
// never be loaded.
func (s *SQLiteStore) SaveBundle(ctx context.Context, bundle *model.Bundle) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBundle(bundle); err != nil {
		return err
	}

	manifestJSON, err := json.Marshal(bundle.Manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	explainerJSON, err := json.Marshal(bundle.Explainer)
	if err != nil {
		return fmt.Errorf("failed to encode explainer data: %w", err)
	}
	metricsJSON, err := json.Marshal(bundle.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	datasetJSON, err := json.Marshal(bundle.DatasetInfo)
	if err != nil {
		return fmt.Errorf("failed to encode dataset info: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := bundle.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bundles (run_id, created_at, feature_count, manifest, scorer, explainer, metrics, dataset_info)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, bundle.RunID, createdAt, bundle.Manifest.NumFeatures(),
		string(manifestJSON), bundle.ScorerData, string(explainerJSON),
		string(metricsJSON), string(datasetJSON))
	if err != nil {
		return fmt.Errorf("failed to insert bundle %s: %w", bundle.RunID, err)
	}

	return tx.Commit()
}

// LoadBundle fetches one bundle by run ID, or the most recent one when
// runID is empty. Any missing or internally inconsistent artifact surfaces
// as an ArtifactLoadError; serving must treat that as fatal.
func (s *SQLiteStore) LoadBundle(ctx context.Context, runID string) (*model.Bundle, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT run_id, created_at, feature_count, manifest, scorer, explainer, metrics, dataset_info
		FROM bundles`
	var row *sql.Row
	if runID == "" {
		row = s.db.QueryRowContext(ctx, query+` ORDER BY created_at DESC, run_id DESC LIMIT 1`)
	} else {
		row = s.db.QueryRowContext(ctx, query+` WHERE run_id = ?`, runID)
	}

	var (
		bundle        model.Bundle
		featureCount  int
		manifestJSON  string
		explainerJSON string
		metricsJSON   string
		datasetJSON   string
	)
	err := row.Scan(&bundle.RunID, &bundle.CreatedAt, &featureCount,
		&manifestJSON, &bundle.ScorerData, &explainerJSON, &metricsJSON, &datasetJSON)
	if errors.Is(err, sql.ErrNoRows) {
		if runID == "" {
			return nil, model.NewArtifactLoadError("", "no bundles found; run a fitting pass first")
		}
		return nil, model.NewArtifactLoadError(runID, "bundle not found")
	}
	if err != nil {
		return nil, model.NewArtifactLoadError(runID, fmt.Sprintf("failed to read bundle row: %v", err))
	}

	bundle.Manifest = &model.FeatureManifest{}
	if err := json.Unmarshal([]byte(manifestJSON), bundle.Manifest); err != nil {
		return nil, model.NewArtifactLoadError(bundle.RunID, fmt.Sprintf("corrupt manifest: %v", err))
	}
	bundle.Explainer = &model.ExplainerData{}
	if err := json.Unmarshal([]byte(explainerJSON), bundle.Explainer); err != nil {
		return nil, model.NewArtifactLoadError(bundle.RunID, fmt.Sprintf("corrupt explainer data: %v", err))
	}
	if err := json.Unmarshal([]byte(metricsJSON), &bundle.Metrics); err != nil {
		return nil, model.NewArtifactLoadError(bundle.RunID, fmt.Sprintf("corrupt metrics: %v", err))
	}
	if err := json.Unmarshal([]byte(datasetJSON), &bundle.DatasetInfo); err != nil {
		return nil, model.NewArtifactLoadError(bundle.RunID, fmt.Sprintf("corrupt dataset info: %v", err))
	}

	if err := checkConsistency(&bundle, featureCount); err != nil {
		return nil, err
	}

	return &bundle, nil
}

// checkConsistency verifies that every artifact in a loaded bundle agrees
// on the feature contract. Mismatches indicate a corrupted train/serve
// contract and are never absorbed.
func checkConsistency(b *model.Bundle, featureCount int) error {
	n := b.Manifest.NumFeatures()
	if n == 0 {
		return model.NewArtifactLoadError(b.RunID, "manifest has no features")
	}
	if featureCount != n {
		return model.NewArtifactLoadError(b.RunID,
			fmt.Sprintf("recorded feature count %d does not match manifest's %d", featureCount, n))
	}
	if len(b.Manifest.Scaler.Means) != n || len(b.Manifest.Scaler.Stds) != n {
		return model.NewArtifactLoadError(b.RunID,
			fmt.Sprintf("scaler has %d/%d parameters for %d features",
				len(b.Manifest.Scaler.Means), len(b.Manifest.Scaler.Stds), n))
	}
	if len(b.Explainer.FeatureNames) != n {
		return model.NewArtifactLoadError(b.RunID,
			fmt.Sprintf("explainer covers %d features, manifest has %d", len(b.Explainer.FeatureNames), n))
	}
	for i, name := range b.Explainer.FeatureNames {
		if name != b.Manifest.FeatureNames[i] {
			return model.NewArtifactLoadError(b.RunID,
				fmt.Sprintf("explainer feature order diverges from manifest at position %d (%q vs %q)",
					i, name, b.Manifest.FeatureNames[i]))
		}
	}
	if len(b.ScorerData) == 0 {
		return model.NewArtifactLoadError(b.RunID, "scorer data is empty")
	}
	return nil
}

// ListBundles returns summaries of all persisted runs, newest first.
func (s *SQLiteStore) ListBundles(ctx context.Context) ([]model.BundleInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at, feature_count, metrics
		FROM bundles
		ORDER BY created_at DESC, run_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bundles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []model.BundleInfo
	for rows.Next() {
		var (
			info        model.BundleInfo
			metricsJSON string
		)
		if err := rows.Scan(&info.RunID, &info.CreatedAt, &info.FeatureCount, &metricsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan bundle row: %w", err)
		}
		var metrics model.Metrics
		if err := json.Unmarshal([]byte(metricsJSON), &metrics); err == nil {
			info.TestROCAUC = metrics.TestROCAUC
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bundles: %w", err)
	}

	return infos, nil
}
