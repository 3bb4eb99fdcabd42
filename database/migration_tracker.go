package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

const migrationsTable = "schema_migrations"

// ensureMigrationsTable creates the schema_migrations table if needed.
func ensureMigrationsTable(db *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, migrationsTable)

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}
	return nil
}

// migrationApplied reports whether a named migration already ran.
func migrationApplied(db *sql.DB, name string) (bool, error) {
	if err := ensureMigrationsTable(db); err != nil {
		return false, err
	}

	var appliedAt sql.NullTime
	query := fmt.Sprintf(`SELECT applied_at FROM %s WHERE name = ?`, migrationsTable)
	err := db.QueryRow(query, name).Scan(&appliedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check migration %s: %w", name, err)
	}

	return appliedAt.Valid, nil
}

// markMigrationApplied records a migration as applied.
func markMigrationApplied(db *sql.DB, name string) error {
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s(name, applied_at) VALUES(?, ?)`, migrationsTable)
	_, err := db.Exec(query, name, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark migration %s as applied: %w", name, err)
	}
	return nil
}

// runMigrationOnce applies a migration exactly once per database file.
func runMigrationOnce(db *sql.DB, name string, migration func(*sql.DB) error) error {
	applied, err := migrationApplied(db, name)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	if err := migration(db); err != nil {
		return err
	}

	if err := markMigrationApplied(db, name); err != nil {
		return err
	}

	log.Printf("[Migrations] %s applied successfully", name)
	return nil
}
