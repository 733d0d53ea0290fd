package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mindsage/mindsage/internal/cli"
	"github.com/mindsage/mindsage/internal/config"
	"github.com/mindsage/mindsage/internal/dataset"
	"github.com/mindsage/mindsage/internal/engine"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit a predictor bundle from a survey corpus",
		Long: `Load a raw survey CSV, clean it, fit the boosted-tree predictor,
and persist the resulting artifact bundle.

Each run produces a new immutable bundle; 'predict' and 'insights'
serve the most recent one unless told otherwise.`,
		RunE: runTrain,
	}

	// Flags
	cmd.Flags().StringP("corpus", "c", "", "path to the raw survey CSV (required)")
	_ = cmd.MarkFlagRequired("corpus")

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	corpusPath := config.ExpandPath(cmd.Flag("corpus").Value.String())

	slog.Info("Loading survey corpus", "path", corpusPath)
	records, labels, err := dataset.Load(corpusPath)
	if err != nil {
		return err
	}
	slog.Info("Cleaned corpus", "rows", len(records))

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	cfg := engine.DefaultConfig()
	cfg.Seed = viper.GetInt64("training.seed")
	cfg.TestSize = viper.GetFloat64("training.test_size")
	cfg.CVFolds = viper.GetInt("training.cv_folds")
	cfg.Boost.Rounds = viper.GetInt("training.rounds")
	cfg.Boost.MaxDepth = viper.GetInt("training.max_depth")
	cfg.Boost.LearningRate = viper.GetFloat64("training.learning_rate")
	cfg.Boost.Subsample = viper.GetFloat64("training.subsample")
	cfg.Boost.ColSample = viper.GetFloat64("training.colsample")
	cfg.Boost.MinChildWeight = viper.GetFloat64("training.min_child_weight")
	cfg.Boost.Gamma = viper.GetFloat64("training.gamma")
	cfg.Boost.RegAlpha = viper.GetFloat64("training.reg_alpha")
	cfg.Boost.RegLambda = viper.GetFloat64("training.reg_lambda")
	cfg.ProgressWriter = os.Stderr

	bundle, err := engine.New(store, cfg).Fit(ctx, records, labels)
	if err != nil {
		return fmt.Errorf("fitting failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Fitted bundle %s", bundle.RunID)))
	fmt.Printf("  Test ROC-AUC: %.4f\n", bundle.Metrics.TestROCAUC)
	fmt.Printf("  Test F1:      %.4f\n", bundle.Metrics.TestF1)
	fmt.Printf("  CV ROC-AUC:   %.4f ± %.4f\n", bundle.Metrics.CVROCAUCMean, bundle.Metrics.CVROCAUCStd)
	fmt.Println(cli.RenderConfusion(bundle.Metrics.Confusion))

	return nil
}
