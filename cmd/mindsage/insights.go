package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindsage/mindsage/internal/cli"
	"github.com/mindsage/mindsage/internal/predict"
)

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show a fitted bundle's metrics and top features",
		RunE:  runInsights,
	}

	// Flags
	cmd.Flags().String("bundle", "", "run ID of the bundle to inspect (default: most recent)")
	cmd.Flags().IntP("top", "n", 10, "number of features to rank (0 for all)")
	cmd.Flags().Bool("json", false, "emit raw JSON instead of the report")

	return cmd
}

func runInsights(cmd *cobra.Command, _ []string) error {
	runID, _ := cmd.Flags().GetString("bundle")
	top, _ := cmd.Flags().GetInt("top")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	insights, err := predict.NewModelContext(store, runID).Insights(ctx, top)
	if err != nil {
		return err
	}

	if asJSON {
		out, marshalErr := json.MarshalIndent(insights, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to encode insights: %w", marshalErr)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(cli.RenderInsights(insights))
	return nil
}
