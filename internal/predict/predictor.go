// Package predict implements the serving pipeline: it loads one immutable
// artifact bundle and serves validated records against it.
package predict

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mindsage/mindsage/internal/boost"
	"github.com/mindsage/mindsage/internal/common"
	"github.com/mindsage/mindsage/internal/explain"
	"github.com/mindsage/mindsage/internal/feature"
	"github.com/mindsage/mindsage/internal/model"
	"github.com/mindsage/mindsage/internal/service"
)

// Insights is the aggregate view over the loaded bundle: evaluation metrics,
// the global importance ranking, and the fitting corpus summary.
type Insights struct {
	CreatedAt   time.Time                 `json:"created_at"`
	RunID       string                    `json:"run_id"`
	Metrics     model.Metrics             `json:"metrics"`
	TopFeatures []model.FeatureImportance `json:"top_features"`
	DatasetInfo model.DatasetInfo         `json:"dataset_info"`
}

// ModelContext serves predictions from one bundle. The bundle is loaded
// lazily on first use and then frozen for the context's lifetime; load
// failures are sticky and returned on every subsequent call.
type ModelContext struct {
	store service.ArtifactStore
	runID string

	once      sync.Once
	bundle    *model.Bundle
	scorer    service.Scorer
	explainer *explain.Explainer
	loadErr   error
}

// NewModelContext creates a serving context for the given run. An empty
// runID serves the most recent run.
func NewModelContext(store service.ArtifactStore, runID string) *ModelContext {
	return &ModelContext{store: store, runID: runID}
}

// load fetches and validates the bundle exactly once.
func (m *ModelContext) load(ctx context.Context) error {
	m.once.Do(func() {
		bundle, err := m.store.LoadBundle(ctx, m.runID)
		if err != nil {
			m.loadErr = err
			return
		}

		scorer, err := boost.Load(bundle.ScorerData)
		if err != nil {
			m.loadErr = model.NewArtifactLoadError(bundle.RunID,
				fmt.Sprintf("scorer artifact is corrupt: %v", err))
			return
		}
		if scorer.NumFeatures() != bundle.Manifest.NumFeatures() {
			m.loadErr = model.NewArtifactLoadError(bundle.RunID,
				fmt.Sprintf("scorer expects %d features but manifest declares %d",
					scorer.NumFeatures(), bundle.Manifest.NumFeatures()))
			return
		}

		explainer, err := explain.FromData(bundle.Explainer)
		if err != nil {
			m.loadErr = model.NewArtifactLoadError(bundle.RunID,
				fmt.Sprintf("explainer artifact is invalid: %v", err))
			return
		}

		m.bundle = bundle
		m.scorer = scorer
		m.explainer = explainer
	})
	return m.loadErr
}

// Bundle returns the loaded bundle, loading it if needed.
func (m *ModelContext) Bundle(ctx context.Context) (*model.Bundle, error) {
	if err := m.load(ctx); err != nil {
		return nil, err
	}
	return m.bundle, nil
}

// Predict serves one record with the default number of explanation factors.
func (m *ModelContext) Predict(ctx context.Context, rec model.Record) (*model.PredictionResult, error) {
	return m.PredictTopK(ctx, rec, explain.DefaultTopK)
}

// PredictTopK serves one record, returning up to topK contributing factors.
// Invalid records fail with a SchemaError before any scoring happens;
// unknown category values never fail, they fall back and are logged.
func (m *ModelContext) PredictTopK(ctx context.Context, rec model.Record, topK int) (*model.PredictionResult, error) {
	if err := m.load(ctx); err != nil {
		return nil, err
	}
	if err := ValidateRecord(rec); err != nil {
		return nil, err
	}

	prepared := m.applyDefaults(rec)

	encoded, fallbacks := feature.Encode(prepared, m.bundle.Manifest)
	for _, fb := range fallbacks {
		common.LogWarn("Unknown category value, using fallback encoding", common.Fields{
			"field": fb.Field,
			"value": fb.Value,
			"kind":  string(fb.Kind),
		})
	}

	scaled, err := feature.Scale(encoded, m.bundle.Manifest.Scaler)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrScorerInference, err)
	}

	pNo, pYes, err := m.scorer.PredictProba(scaled)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrScorerInference, err)
	}

	label := model.LabelNo
	maxProb := pNo
	if pYes >= pNo {
		label = model.LabelYes
		maxProb = pYes
	}

	factors, err := m.explainer.Explain(encoded, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to explain prediction: %w", err)
	}

	return &model.PredictionResult{
		Label:          label,
		Confidence:     model.ConfidenceFor(maxProb),
		ProbabilityNo:  pNo,
		ProbabilityYes: pYes,
		TopFactors:     factors,
	}, nil
}

// Insights reports the loaded bundle's metrics and top-n global features.
// n <= 0 returns the full ranking.
func (m *ModelContext) Insights(ctx context.Context, n int) (*Insights, error) {
	if err := m.load(ctx); err != nil {
		return nil, err
	}

	return &Insights{
		CreatedAt:   m.bundle.CreatedAt,
		RunID:       m.bundle.RunID,
		Metrics:     m.bundle.Metrics,
		TopFeatures: m.explainer.GlobalRanking(n),
		DatasetInfo: m.bundle.DatasetInfo,
	}, nil
}

// applyDefaults fills absent optional fields from the manifest's fit-time
// defaults. The caller's record is never mutated.
func (m *ModelContext) applyDefaults(rec model.Record) model.Record {
	prepared := rec.Clone()
	for field, value := range m.bundle.Manifest.Defaults {
		if _, ok := prepared[field]; !ok {
			prepared[field] = value
		}
	}
	return prepared
}
