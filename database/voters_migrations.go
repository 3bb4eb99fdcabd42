package database

import (
	"database/sql"
	"fmt"
)

// InitVotersSchema brings the voter roll schema up to date, recording each
// migration in schema_migrations so it runs once per database file. Safe on
// every startup.
func InitVotersSchema(db *sql.DB) error {
	return runMigrationOnce(db, "voters_schema_v1", createVotersSchema)
}

// createVotersSchema creates the voter roll tables.
//
// The UNIQUE index over the normalized identity quadruple enforces roll
// uniqueness at ingestion: two raw spellings that normalize identically are
// one voter.
func createVotersSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS voter_records (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			street_number TEXT NOT NULL DEFAULT '',
			street_name TEXT NOT NULL DEFAULT '',
			street_type TEXT NOT NULL DEFAULT '',
			street_dir_suffix TEXT NOT NULL DEFAULT '',
			first_name_norm TEXT NOT NULL DEFAULT '',
			last_name_norm TEXT NOT NULL DEFAULT '',
			street_number_norm TEXT NOT NULL DEFAULT '',
			street_name_norm TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_voter_identity
			ON voter_records(first_name_norm, last_name_norm, street_number_norm, street_name_norm)`,
		`CREATE INDEX IF NOT EXISTS idx_voter_block
			ON voter_records(last_name_norm, street_number_norm)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create voters schema: %w", err)
		}
	}

	return nil
}
