package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ledgersage/ledgersage/internal/llm"
	"github.com/ledgersage/ledgersage/internal/storage"
	"github.com/ledgersage/ledgersage/internal/task"
)

// databasePath resolves the database location from config, falling back to
// the XDG data directory.
func databasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "sage", "sage.db"), nil
}

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// initCompleter builds the completion stack from config.
func initCompleter() (*llm.Completer, error) {
	cfg := llm.Config{
		Provider:   viper.GetString("llm.provider"),
		APIKey:     viper.GetString("llm.api_key"),
		Model:      viper.GetString("llm.model"),
		MaxRetries: viper.GetInt("llm.max_retries"),
		RetryDelay: viper.GetDuration("llm.retry_delay"),
		RateLimit:  viper.GetInt("llm.rate_limit"),
	}
	if cfg.Provider == "" {
		cfg.Provider = "anthropic"
	}
	return llm.NewCompleter(cfg)
}

// pipeline bundles the storage, completion stack, and task runner that most
// commands need, with a single Close.
type pipeline struct {
	store     *storage.SQLiteStorage
	completer *llm.Completer
	runner    *task.Runner
}

func initPipeline(ctx context.Context) (*pipeline, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	completer, err := initCompleter()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &pipeline{
		store:     store,
		completer: completer,
		runner:    task.NewRunner(store, completer, nil),
	}, nil
}

func (p *pipeline) Close() {
	p.completer.Close()
	_ = p.store.Close()
}
