// Package engine implements the fitting pipeline: it turns a labeled,
// cleaned corpus into an immutable artifact bundle ready for serving.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/mindsage/mindsage/internal/boost"
	"github.com/mindsage/mindsage/internal/eval"
	"github.com/mindsage/mindsage/internal/explain"
	"github.com/mindsage/mindsage/internal/feature"
	"github.com/mindsage/mindsage/internal/model"
	"github.com/mindsage/mindsage/internal/service"
)

// Config holds configuration options for the fitting pipeline.
type Config struct {
	// ProgressWriter receives the training progress bar; nil disables it.
	ProgressWriter io.Writer
	Boost          boost.Params
	TestSize       float64
	CVFolds        int
	Seed           int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Boost:    boost.DefaultParams(),
		TestSize: 0.2,
		CVFolds:  5,
		Seed:     42,
	}
}

// FittingPipeline orchestrates manifest derivation, scaling, scorer
// training, cross-validation, evaluation, and atomic bundle persistence.
type FittingPipeline struct {
	store  service.ArtifactStore
	config Config
}

// New creates a fitting pipeline writing bundles to the given store.
func New(store service.ArtifactStore, config Config) *FittingPipeline {
	return &FittingPipeline{store: store, config: config}
}

// Fit runs the complete pipeline over a cleaned, labeled corpus and
// persists the resulting bundle. The bundle is written in one transaction:
// it is either fully present or absent.
func (p *FittingPipeline) Fit(ctx context.Context, records []model.Record, labels []int) (*model.Bundle, error) {
	if len(records) != len(labels) {
		return nil, fmt.Errorf("have %d records but %d labels", len(records), len(labels))
	}

	slog.Info("Starting fitting pipeline", "samples", len(records))

	manifest, err := feature.Derive(records)
	if err != nil {
		return nil, fmt.Errorf("failed to derive manifest: %w", err)
	}
	slog.Info("Derived feature manifest", "features", manifest.NumFeatures())

	matrix, fallbackCount := encodeCorpus(records, manifest)
	if fallbackCount > 0 {
		slog.Warn("Corpus rows needed category fallbacks during encoding", "count", fallbackCount)
	}

	scaler, err := feature.FitScaler(matrix)
	if err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}
	manifest.Scaler = scaler

	scaled, err := feature.ScaleMatrix(matrix, scaler)
	if err != nil {
		return nil, fmt.Errorf("failed to scale corpus: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trainIdx, testIdx, err := eval.StratifiedSplit(labels, p.config.TestSize, p.config.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split corpus: %w", err)
	}
	trainX := eval.Gather(scaled, trainIdx)
	trainY := eval.GatherLabels(labels, trainIdx)
	testX := eval.Gather(scaled, testIdx)
	testY := eval.GatherLabels(labels, testIdx)
	slog.Info("Split corpus", "train", len(trainIdx), "test", len(testIdx))

	clf, err := p.trainScorer(trainX, trainY)
	if err != nil {
		return nil, fmt.Errorf("failed to train scorer: %w", err)
	}
	slog.Info("Trained scorer",
		"rounds", p.config.Boost.Rounds,
		"scale_pos_weight", clf.Params().ScalePosWeight)

	cv, err := p.crossValidate(ctx, trainX, trainY)
	if err != nil {
		return nil, fmt.Errorf("cross-validation failed: %w", err)
	}
	slog.Info("Cross-validation complete", "cv_roc_auc_mean", cv.Mean, "cv_roc_auc_std", cv.Std)

	metrics, err := evaluate(clf, testX, testY)
	if err != nil {
		return nil, fmt.Errorf("held-out evaluation failed: %w", err)
	}
	metrics.CVROCAUCMean = cv.Mean
	metrics.CVROCAUCStd = cv.Std
	slog.Info("Held-out evaluation complete",
		"test_roc_auc", metrics.TestROCAUC,
		"test_f1", metrics.TestF1)

	explainer, err := explain.New(manifest.FeatureNames, clf.GlobalImportances())
	if err != nil {
		return nil, fmt.Errorf("failed to build explainer: %w", err)
	}

	scorerData, err := clf.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize scorer: %w", err)
	}

	var positive int
	for _, label := range labels {
		if label == 1 {
			positive++
		}
	}

	bundle := &model.Bundle{
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Manifest:   manifest,
		Explainer:  explainer.Data(),
		ScorerData: scorerData,
		Metrics:    metrics,
		DatasetInfo: model.DatasetInfo{
			TotalSamples:  len(records),
			PositiveCount: positive,
			NegativeCount: len(records) - positive,
			PositiveRate:  float64(positive) / float64(len(records)),
			FeaturesUsed:  manifest.NumFeatures(),
		},
	}

	if err := p.store.SaveBundle(ctx, bundle); err != nil {
		return nil, fmt.Errorf("failed to persist bundle: %w", err)
	}
	slog.Info("Persisted artifact bundle", "run_id", bundle.RunID)

	return bundle, nil
}

// encodeCorpus encodes every record against the manifest and counts the
// category fallbacks seen along the way.
func encodeCorpus(records []model.Record, manifest *model.FeatureManifest) ([][]float64, int) {
	matrix := make([][]float64, len(records))
	fallbackCount := 0
	for i, rec := range records {
		vec, fallbacks := feature.Encode(rec, manifest)
		matrix[i] = vec
		fallbackCount += len(fallbacks)
	}
	return matrix, fallbackCount
}

// trainScorer fits the boosted-tree classifier, driving a progress bar
// over the boosting rounds when a writer is configured.
func (p *FittingPipeline) trainScorer(trainX [][]float64, trainY []int) (*boost.Classifier, error) {
	params := p.config.Boost
	params.Seed = p.config.Seed

	if p.config.ProgressWriter == nil {
		return boost.Fit(trainX, trainY, params)
	}

	bar := progressbar.NewOptions(params.Rounds,
		progressbar.OptionSetWriter(p.config.ProgressWriter),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Training scorer..."),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(p.config.ProgressWriter)
		}),
	)

	return boost.FitWithProgress(trainX, trainY, params, func(int) {
		_ = bar.Add(1)
	})
}

// crossValidate runs stratified k-fold CV on the training partition,
// scoring each fold on ROC-AUC.
func (p *FittingPipeline) crossValidate(ctx context.Context, trainX [][]float64, trainY []int) (eval.CVResult, error) {
	params := p.config.Boost
	params.Seed = p.config.Seed

	return eval.CrossValidate(ctx, trainX, trainY, p.config.CVFolds, p.config.Seed,
		func(foldTrainX [][]float64, foldTrainY []int, foldTestX [][]float64, foldTestY []int) (float64, error) {
			foldParams := params
			// Each fold recomputes its own class balance.
			foldParams.ScalePosWeight = 0
			clf, err := boost.Fit(foldTrainX, foldTrainY, foldParams)
			if err != nil {
				return 0, err
			}

			scores := make([]float64, len(foldTestX))
			for i, row := range foldTestX {
				_, pYes, probaErr := clf.PredictProba(row)
				if probaErr != nil {
					return 0, probaErr
				}
				scores[i] = pYes
			}
			return eval.ROCAUC(foldTestY, scores)
		})
}

// evaluate computes held-out metrics for a fitted scorer.
func evaluate(clf *boost.Classifier, testX [][]float64, testY []int) (model.Metrics, error) {
	scores := make([]float64, len(testX))
	preds := make([]int, len(testX))
	for i, row := range testX {
		_, pYes, err := clf.PredictProba(row)
		if err != nil {
			return model.Metrics{}, err
		}
		scores[i] = pYes
		if pYes >= 0.5 {
			preds[i] = 1
		}
	}

	auc, err := eval.ROCAUC(testY, scores)
	if err != nil {
		return model.Metrics{}, err
	}
	f1, err := eval.WeightedF1(testY, preds)
	if err != nil {
		return model.Metrics{}, err
	}
	confusion, err := eval.ConfusionCounts(testY, preds)
	if err != nil {
		return model.Metrics{}, err
	}

	return model.Metrics{
		TestROCAUC: auc,
		TestF1:     f1,
		Confusion:  confusion,
	}, nil
}
