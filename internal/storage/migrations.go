package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 5

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
				`CREATE TABLE IF NOT EXISTS purchases (
					id TEXT PRIMARY KEY,
					date DATETIME NOT NULL,
					product_name TEXT NOT NULL,
					original_amount REAL NOT NULL,
					original_currency TEXT NOT NULL,
					converted_amount REAL NOT NULL,
					converted_currency TEXT NOT NULL,
					image_path TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_purchases_date ON purchases(date)`,

				`CREATE TABLE IF NOT EXISTS purchase_labels (
					purchase_id TEXT NOT NULL,
					label TEXT NOT NULL COLLATE NOCASE,
					PRIMARY KEY (purchase_id, label),
					FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_purchase_labels_label ON purchase_labels(label)`,
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
		Description: "Add location and trip metadata",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE purchases ADD COLUMN location TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE purchases ADD COLUMN trip_name TEXT NOT NULL DEFAULT ''`,
				`CREATE INDEX idx_purchases_trip ON purchases(trip_name)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add document type for receipt and menu scans",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE purchases ADD COLUMN doc_type TEXT NOT NULL DEFAULT 'tag'`)
			return err
		},
	},
	{
		Version:     4,
		Description: "Add line items for receipt scans",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS purchase_items (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					purchase_id TEXT NOT NULL,
					name TEXT NOT NULL,
					price REAL NOT NULL,
					quantity INTEGER NOT NULL DEFAULT 1,
					FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_purchase_items_purchase ON purchase_items(purchase_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     5,
		Description: "Add currency and category to line items",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE purchase_items ADD COLUMN currency TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE purchase_items ADD COLUMN category TEXT NOT NULL DEFAULT ''`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
