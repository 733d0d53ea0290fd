package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mindsage/mindsage/internal/config"
	"github.com/mindsage/mindsage/internal/service"
	"github.com/mindsage/mindsage/internal/storage"
)

// initStorage initializes the artifact store with proper path expansion.
func initStorage(ctx context.Context) (service.ArtifactStore, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/mindsage/mindsage.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
