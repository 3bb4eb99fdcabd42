package database

import (
	"database/sql"
	"errors"
	"testing"
)

func TestVotersSchemaRecordedAsMigration(t *testing.T) {
	db := testVotersDB(t)

	applied, err := migrationApplied(db.GetConnection(), "voters_schema_v1")
	if err != nil {
		t.Fatalf("Failed to check migration: %v", err)
	}
	if !applied {
		t.Error("voters_schema_v1 not recorded in schema_migrations")
	}
}

func TestServiceSchemaRecordedAsMigration(t *testing.T) {
	db := testServiceDB(t)

	applied, err := migrationApplied(db.conn, "service_schema_v1")
	if err != nil {
		t.Fatalf("Failed to check migration: %v", err)
	}
	if !applied {
		t.Error("service_schema_v1 not recorded in schema_migrations")
	}
}

func TestRunMigrationOnceSkipsAppliedMigration(t *testing.T) {
	db := testVotersDB(t)

	runs := 0
	migration := func(*sql.DB) error {
		runs++
		return nil
	}

	for i := 0; i < 2; i++ {
		if err := runMigrationOnce(db.GetConnection(), "counting_migration", migration); err != nil {
			t.Fatalf("Failed to run migration: %v", err)
		}
	}
	if runs != 1 {
		t.Errorf("Migration ran %d times, want 1", runs)
	}
}

func TestRunMigrationOnceFailureNotRecorded(t *testing.T) {
	db := testVotersDB(t)

	boom := errors.New("boom")
	err := runMigrationOnce(db.GetConnection(), "failing_migration", func(*sql.DB) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected migration error, got %v", err)
	}

	applied, err := migrationApplied(db.GetConnection(), "failing_migration")
	if err != nil {
		t.Fatalf("Failed to check migration: %v", err)
	}
	if applied {
		t.Error("Failed migration must not be recorded as applied")
	}
}
