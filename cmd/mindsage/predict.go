package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindsage/mindsage/internal/cli"
	"github.com/mindsage/mindsage/internal/config"
	"github.com/mindsage/mindsage/internal/predict"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Serve one survey record against a fitted bundle",
		Long: `Read a JSON survey record and predict whether the respondent is
likely to seek mental health treatment, with the top contributing
factors.

The record is read from --input, or from stdin when --input is "-"
or omitted.`,
		RunE: runPredict,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "-", "path to the JSON record, or - for stdin")
	cmd.Flags().String("bundle", "", "run ID of the bundle to serve (default: most recent)")
	cmd.Flags().IntP("top-k", "k", 5, "number of contributing factors to report")
	cmd.Flags().Bool("json", false, "emit the raw JSON result instead of the report")

	return cmd
}

func runPredict(cmd *cobra.Command, _ []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	runID, _ := cmd.Flags().GetString("bundle")
	topK, _ := cmd.Flags().GetInt("top-k")
	asJSON, _ := cmd.Flags().GetBool("json")

	request, err := readRequest(inputPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	mc := predict.NewModelContext(store, runID)
	result, err := mc.PredictTopK(ctx, request.Record(), topK)
	if err != nil {
		return err
	}

	if asJSON {
		out, marshalErr := json.MarshalIndent(result, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to encode result: %w", marshalErr)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(cli.RenderPrediction(result))
	return nil
}

// readRequest decodes a typed request from a file or stdin.
func readRequest(path string) (*predict.Request, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(config.ExpandPath(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open record: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var request predict.Request
	if err := dec.Decode(&request); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	return &request, nil
}
