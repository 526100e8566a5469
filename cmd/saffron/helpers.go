// Package main contains the saffron CLI commands.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/saffron-ledger/saffron/internal/config"
	"github.com/saffron-ledger/saffron/internal/engine"
	"github.com/saffron-ledger/saffron/internal/rules"
	"github.com/saffron-ledger/saffron/internal/service"
	"github.com/saffron-ledger/saffron/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/saffron/saffron.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initScorer builds the keyword scorer, loading a custom rule table when one
// is configured.
func initScorer() (*rules.Scorer, error) {
	table := rules.DefaultTable()

	if rulesFile := viper.GetString("rules.file"); rulesFile != "" {
		loaded, err := rules.LoadTable(config.ExpandPath(rulesFile))
		if err != nil {
			return nil, err
		}
		table = loaded
	}

	return rules.NewScorer(table)
}

// initCategorizer wires the engine to a storage-backed override store.
func initCategorizer(store service.Storage) (*engine.Categorizer, error) {
	scorer, err := initScorer()
	if err != nil {
		return nil, err
	}
	return engine.New(store, scorer), nil
}

// currentUser returns the user whose overrides apply to this invocation.
func currentUser() string {
	user := viper.GetString("user")
	if user == "" {
		user = "default"
	}
	return user
}
