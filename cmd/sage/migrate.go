package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgersage/ledgersage/internal/storage"
)

func migrateCmd() *cobra.Command {
	var showStatus bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			path, err := databasePath()
			if err != nil {
				return err
			}
			store, err := storage.NewSQLiteStorage(path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if showStatus {
				version, err := store.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				slog.Info("Schema status",
					"path", path,
					"current_version", version,
					"expected_version", storage.ExpectedSchemaVersion)
				return nil
			}

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			slog.Info("Database migrated",
				"path", path,
				"version", storage.ExpectedSchemaVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStatus, "status", false, "show the schema version without migrating")
	return cmd
}
