package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

// versionedTables are the tables whose changes bump data_version.
var versionedTables = []string{"properties", "units", "tenants", "transactions"}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial property schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS properties (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					property_type TEXT NOT NULL DEFAULT '',
					payload TEXT NOT NULL DEFAULT '{}',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS units (
					id TEXT PRIMARY KEY,
					property_id TEXT NOT NULL,
					name TEXT NOT NULL DEFAULT '',
					payload TEXT NOT NULL DEFAULT '{}',
					FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_units_property ON units(property_id)`,
				`CREATE TABLE IF NOT EXISTS tenants (
					id TEXT PRIMARY KEY,
					property_id TEXT NOT NULL,
					unit_id TEXT,
					name TEXT NOT NULL DEFAULT '',
					payload TEXT NOT NULL DEFAULT '{}',
					FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE,
					FOREIGN KEY (unit_id) REFERENCES units(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_tenants_property ON tenants(property_id)`,
				`CREATE INDEX idx_tenants_unit ON tenants(unit_id)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Add transactions",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					date DATETIME NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					amount REAL NOT NULL,
					category_l0 TEXT NOT NULL DEFAULT '',
					category_l1 TEXT NOT NULL DEFAULT '',
					category_l2 TEXT NOT NULL DEFAULT '',
					category_l3 TEXT NOT NULL DEFAULT '',
					cost_center TEXT NOT NULL DEFAULT '',
					bank_account_id TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_cost_center_date ON transactions(cost_center, date)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Track data version for report caching",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS data_version (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					version INTEGER NOT NULL
				)`,
				`INSERT OR IGNORE INTO data_version (id, version) VALUES (1, 0)`,
			}
			for _, table := range versionedTables {
				for _, event := range []string{"INSERT", "UPDATE", "DELETE"} {
					queries = append(queries, fmt.Sprintf(
						`CREATE TRIGGER IF NOT EXISTS trg_%s_%s AFTER %s ON %s
						BEGIN
							UPDATE data_version SET version = version + 1 WHERE id = 1;
						END`,
						table, event, event, table))
				}
			}
			return execAll(tx, queries...)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

// Migrate runs all pending migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
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

		// Update version
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

	// Verify we're at the expected schema version
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

// SchemaVersion returns the schema version recorded in the database.
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
