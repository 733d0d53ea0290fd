package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindsage/mindsage/internal/cli"
)

func bundlesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bundles",
		Short: "List persisted fitting runs, newest first",
		RunE:  runBundles,
	}
}

func runBundles(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	infos, err := store.ListBundles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list bundles: %w", err)
	}

	fmt.Println(cli.RenderBundleList(infos))
	return nil
}
