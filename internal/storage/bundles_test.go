package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindsage/mindsage/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testBundle(t *testing.T, createdAt time.Time) *model.Bundle {
	t.Helper()

	names := []string{"Age", "family_history", "benefits_Yes"}
	return &model.Bundle{
		RunID:     uuid.NewString(),
		CreatedAt: createdAt,
		Manifest: &model.FeatureManifest{
			Version:      model.ManifestVersion,
			FeatureNames: names,
			Scaler: model.ScalerParams{
				Means: []float64{35, 0.5, 0.4},
				Stds:  []float64{10, 0.5, 0.49},
			},
		},
		Explainer: &model.ExplainerData{
			FeatureNames: names,
			Ranking: []model.FeatureImportance{
				{Rank: 1, Feature: "family_history", Importance: 0.5},
				{Rank: 2, Feature: "benefits_Yes", Importance: 0.3},
				{Rank: 3, Feature: "Age", Importance: 0.2},
			},
		},
		ScorerData: []byte(`{"num_features":3,"importances":[0.2,0.5,0.3],"trees":[]}`),
		Metrics: model.Metrics{
			TestROCAUC:   0.87,
			TestF1:       0.84,
			CVROCAUCMean: 0.86,
			CVROCAUCStd:  0.02,
		},
		DatasetInfo: model.DatasetInfo{TotalSamples: 100, PositiveCount: 50, NegativeCount: 50, PositiveRate: 0.5, FeaturesUsed: 3},
	}
}

func TestSaveAndLoadBundle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bundle := testBundle(t, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.SaveBundle(ctx, bundle))

	loaded, err := store.LoadBundle(ctx, bundle.RunID)
	require.NoError(t, err)

	assert.Equal(t, bundle.RunID, loaded.RunID)
	assert.Equal(t, bundle.Manifest.FeatureNames, loaded.Manifest.FeatureNames)
	assert.Equal(t, bundle.Manifest.Scaler, loaded.Manifest.Scaler)
	assert.Equal(t, bundle.Explainer.Ranking, loaded.Explainer.Ranking)
	assert.Equal(t, bundle.ScorerData, loaded.ScorerData)
	assert.Equal(t, bundle.Metrics, loaded.Metrics)
	assert.Equal(t, bundle.DatasetInfo, loaded.DatasetInfo)
}

func TestLoadLatestBundle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := testBundle(t, time.Now().UTC().Add(-time.Hour))
	newer := testBundle(t, time.Now().UTC())
	require.NoError(t, store.SaveBundle(ctx, older))
	require.NoError(t, store.SaveBundle(ctx, newer))

	loaded, err := store.LoadBundle(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, newer.RunID, loaded.RunID)

	// Older bundles stay loadable for rollback.
	rolled, err := store.LoadBundle(ctx, older.RunID)
	require.NoError(t, err)
	assert.Equal(t, older.RunID, rolled.RunID)
}

func TestLoadBundleMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.LoadBundle(ctx, "no-such-run")
	assert.ErrorIs(t, err, model.ErrArtifactLoad)

	_, err = store.LoadBundle(ctx, "")
	assert.ErrorIs(t, err, model.ErrArtifactLoad)
}

func TestLoadBundleScalerMismatchIsFatal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bundle := testBundle(t, time.Now().UTC())
	require.NoError(t, store.SaveBundle(ctx, bundle))

	// Corrupt the stored manifest so the scaler parameter count no longer
	// matches the feature-name count.
	_, err := store.db.ExecContext(ctx, `
		UPDATE bundles
		SET manifest = ?
		WHERE run_id = ?
	`, `{"version":1,"feature_names":["Age","family_history","benefits_Yes"],"scaler":{"means":[35],"stds":[10]}}`,
		bundle.RunID)
	require.NoError(t, err)

	_, err = store.LoadBundle(ctx, bundle.RunID)
	assert.ErrorIs(t, err, model.ErrArtifactLoad)
}

func TestLoadBundleCorruptManifest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bundle := testBundle(t, time.Now().UTC())
	require.NoError(t, store.SaveBundle(ctx, bundle))

	_, err := store.db.ExecContext(ctx,
		`UPDATE bundles SET manifest = 'not json' WHERE run_id = ?`, bundle.RunID)
	require.NoError(t, err)

	_, err = store.LoadBundle(ctx, bundle.RunID)
	assert.ErrorIs(t, err, model.ErrArtifactLoad)
}

func TestLoadBundleExplainerDrift(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bundle := testBundle(t, time.Now().UTC())
	require.NoError(t, store.SaveBundle(ctx, bundle))

	// An explainer whose feature order diverges from the manifest must not
	// serve predictions.
	_, err := store.db.ExecContext(ctx, `
		UPDATE bundles SET explainer = ? WHERE run_id = ?
	`, `{"feature_names":["family_history","Age","benefits_Yes"],"feature_importance":[{"rank":1,"feature":"family_history","importance":0.5},{"rank":2,"feature":"benefits_Yes","importance":0.3},{"rank":3,"feature":"Age","importance":0.2}]}`,
		bundle.RunID)
	require.NoError(t, err)

	_, err = store.LoadBundle(ctx, bundle.RunID)
	assert.ErrorIs(t, err, model.ErrArtifactLoad)
}

func TestSaveBundleValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		mutate func(*model.Bundle)
		name   string
	}{
		{name: "missing run id", mutate: func(b *model.Bundle) { b.RunID = "" }},
		{name: "nil manifest", mutate: func(b *model.Bundle) { b.Manifest = nil }},
		{name: "nil explainer", mutate: func(b *model.Bundle) { b.Explainer = nil }},
		{name: "empty scorer", mutate: func(b *model.Bundle) { b.ScorerData = nil }},
		{name: "scaler mismatch", mutate: func(b *model.Bundle) {
			b.Manifest.Scaler.Means = []float64{1}
		}},
		{name: "explainer mismatch", mutate: func(b *model.Bundle) {
			b.Explainer.Ranking = b.Explainer.Ranking[:1]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := testBundle(t, time.Now().UTC())
			tt.mutate(bundle)
			assert.Error(t, store.SaveBundle(ctx, bundle))
		})
	}

	assert.Error(t, store.SaveBundle(ctx, nil))
}

func TestSaveBundleDuplicateRunID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bundle := testBundle(t, time.Now().UTC())
	require.NoError(t, store.SaveBundle(ctx, bundle))
	assert.Error(t, store.SaveBundle(ctx, bundle), "run IDs are immutable once written")
}

func TestListBundles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	infos, err := store.ListBundles(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	older := testBundle(t, time.Now().UTC().Add(-time.Hour))
	newer := testBundle(t, time.Now().UTC())
	require.NoError(t, store.SaveBundle(ctx, older))
	require.NoError(t, store.SaveBundle(ctx, newer))

	infos, err = store.ListBundles(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, newer.RunID, infos[0].RunID)
	assert.Equal(t, older.RunID, infos[1].RunID)
	assert.Equal(t, 3, infos[0].FeatureCount)
	assert.InDelta(t, 0.87, infos[0].TestROCAUC, 1e-12)
}

func TestNewSQLiteStoreValidation(t *testing.T) {
	_, err := NewSQLiteStore("")
	assert.Error(t, err)

	_, err = NewSQLiteStore("   ")
	assert.Error(t, err)
}
