package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					hash TEXT UNIQUE NOT NULL,
					date DATETIME NOT NULL,
					name TEXT NOT NULL,
					merchant_name TEXT,
					category TEXT,
					amount REAL NOT NULL,
					account_id TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_user_date ON transactions(user_id, date)`,
				`CREATE INDEX idx_transactions_merchant ON transactions(user_id, merchant_name)`,

				`CREATE TABLE IF NOT EXISTS account_owners (
					account_id TEXT NOT NULL,
					user_id TEXT NOT NULL,
					PRIMARY KEY (account_id, user_id)
				)`,

				`CREATE TABLE IF NOT EXISTS personality_profiles (
					user_id TEXT PRIMARY KEY,
					personality_type TEXT NOT NULL,
					risk_tolerance INTEGER NOT NULL,
					discipline_level INTEGER NOT NULL,
					spending_triggers TEXT NOT NULL DEFAULT '[]',
					financial_traumas TEXT NOT NULL DEFAULT '[]',
					lifestyle_preferences TEXT NOT NULL DEFAULT '{}',
					confidence_score INTEGER NOT NULL DEFAULT 0,
					summary TEXT,
					last_analyzed_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS budget_recommendations (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					recommendation_type TEXT NOT NULL,
					mandatory_allocation REAL NOT NULL,
					desires_allocation REAL NOT NULL,
					investment_allocation REAL NOT NULL,
					confidence_score REAL NOT NULL DEFAULT 0,
					rationale TEXT,
					category_breakdown TEXT NOT NULL DEFAULT '{}',
					active INTEGER NOT NULL DEFAULT 0,
					adopted_at DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_recommendations_user ON budget_recommendations(user_id)`,

				`CREATE TABLE IF NOT EXISTS spending_insights (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					transaction_id TEXT REFERENCES transactions(id),
					pattern_type TEXT NOT NULL,
					emotional_context TEXT,
					triggers TEXT NOT NULL DEFAULT '[]',
					recommendation TEXT,
					confidence_score INTEGER NOT NULL DEFAULT 0,
					acknowledged INTEGER NOT NULL DEFAULT 0,
					acknowledged_at DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_insights_user_created ON spending_insights(user_id, created_at)`,

				`CREATE TABLE IF NOT EXISTS spending_habits (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					habit_type TEXT NOT NULL,
					category TEXT NOT NULL,
					average_amount REAL NOT NULL,
					frequency_per_week REAL NOT NULL DEFAULT 0,
					current_streak INTEGER NOT NULL DEFAULT 0,
					longest_streak INTEGER NOT NULL DEFAULT 0,
					positive INTEGER NOT NULL DEFAULT 0,
					last_occurrence_at DATETIME,
					suggestions TEXT NOT NULL DEFAULT '[]'
				)`,
				`CREATE INDEX idx_habits_user ON spending_habits(user_id)`,

				`CREATE TABLE IF NOT EXISTS coaching_sessions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					session_type TEXT NOT NULL,
					context TEXT NOT NULL DEFAULT '{}',
					response TEXT NOT NULL,
					satisfaction_rating INTEGER,
					user_feedback TEXT,
					action_taken INTEGER NOT NULL DEFAULT 0,
					action_details TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_sessions_user_type ON coaching_sessions(user_id, session_type, created_at)`,

				`CREATE TABLE IF NOT EXISTS notifications (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					notification_type TEXT NOT NULL,
					title TEXT NOT NULL,
					message TEXT NOT NULL,
					priority TEXT NOT NULL DEFAULT 'medium',
					action_data TEXT NOT NULL DEFAULT '{}',
					read INTEGER NOT NULL DEFAULT 0,
					read_at DATETIME,
					scheduled_for DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_notifications_user_read ON notifications(user_id, read)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index insights by transaction for backfill idempotency",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_insights_transaction ON spending_insights(transaction_id)`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Partial index for the single active recommendation lookup",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_recommendations_active ON budget_recommendations(user_id) WHERE active = 1`)
			return err
		},
	},
}

// SchemaVersion reports the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
