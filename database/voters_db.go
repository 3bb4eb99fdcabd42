package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"petitionserver/matching"
)

// VotersDB wraps the voter roll database
type VotersDB struct {
	conn       *sql.DB
	normalizer *matching.Normalizer
}

// VoterRow a stored voter record with timestamps
type VoterRow struct {
	matching.VoterRecord
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImportStats counts from one bulk roll import
type ImportStats struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// NewVotersDB opens (or creates) the voter roll database at dbPath
func NewVotersDB(dbPath string) (*VotersDB, error) {
	return NewVotersDBWithConfig(dbPath, DBConfig{})
}

// NewVotersDBWithConfig opens the voter roll database with explicit
// connection pool settings
func NewVotersDBWithConfig(dbPath string, config DBConfig) (*VotersDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open voters database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(25)
	}
	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(5)
	}
	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping voters database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := InitVotersSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize voters schema: %w", err)
	}

	return &VotersDB{conn: conn, normalizer: matching.NewNormalizer()}, nil
}

// Close closes the voter roll database
func (db *VotersDB) Close() error {
	return db.conn.Close()
}

// GetConnection returns the underlying sql.DB for direct access
func (db *VotersDB) GetConnection() *sql.DB {
	return db.conn
}

// CreateVoterRecord inserts one voter record. Assigns a fresh uuid when the
// record carries none. Returns ErrDuplicateVoter when another record already
// occupies the same normalized identity.
func (db *VotersDB) CreateVoterRecord(rec matching.IdentityRecord, id string) (*VoterRow, error) {
	if id == "" {
		id = uuid.New().String()
	}
	norm := db.normalizer.Normalize(rec)

	query := `
		INSERT INTO voter_records (
			id, first_name, last_name, street_number, street_name,
			street_type, street_dir_suffix,
			first_name_norm, last_name_norm, street_number_norm, street_name_norm
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.conn.Exec(query,
		id,
		rec.FirstName, rec.LastName, rec.StreetNumber,
		rec.StreetName, rec.StreetType, rec.StreetDirSuffix,
		norm.FirstName, norm.LastName, norm.StreetNumber, norm.StreetName,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateVoter
		}
		return nil, fmt.Errorf("failed to insert voter record: %w", err)
	}

	return db.GetVoterRecord(id)
}

// ImportVoterRecords bulk-inserts a roll upload, counting duplicates and
// malformed rows instead of failing the whole batch
func (db *VotersDB) ImportVoterRecords(records []matching.IdentityRecord) (ImportStats, error) {
	var stats ImportStats
	for _, rec := range records {
		if rec.LastName == "" && rec.FirstName == "" {
			stats.Errors++
			continue
		}
		_, err := db.CreateVoterRecord(rec, "")
		switch {
		case err == ErrDuplicateVoter:
			stats.Duplicates++
		case err != nil:
			stats.Errors++
		default:
			stats.Inserted++
		}
	}
	return stats, nil
}

// GetVoterRecord loads one voter record by id
func (db *VotersDB) GetVoterRecord(id string) (*VoterRow, error) {
	query := `
		SELECT id, first_name, last_name, street_number, street_name,
		       street_type, street_dir_suffix, created_at, updated_at
		FROM voter_records WHERE id = ?
	`
	row := db.conn.QueryRow(query, id)

	var rec VoterRow
	err := row.Scan(
		&rec.ID,
		&rec.FirstName, &rec.LastName, &rec.StreetNumber,
		&rec.StreetName, &rec.StreetType, &rec.StreetDirSuffix,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrVoterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load voter record %s: %w", id, err)
	}
	return &rec, nil
}

// UpdateVoterRecord replaces the identity fields of an existing record,
// recomputing its normalized identity
func (db *VotersDB) UpdateVoterRecord(id string, rec matching.IdentityRecord) (*VoterRow, error) {
	norm := db.normalizer.Normalize(rec)

	query := `
		UPDATE voter_records SET
			first_name = ?, last_name = ?, street_number = ?,
			street_name = ?, street_type = ?, street_dir_suffix = ?,
			first_name_norm = ?, last_name_norm = ?,
			street_number_norm = ?, street_name_norm = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	res, err := db.conn.Exec(query,
		rec.FirstName, rec.LastName, rec.StreetNumber,
		rec.StreetName, rec.StreetType, rec.StreetDirSuffix,
		norm.FirstName, norm.LastName, norm.StreetNumber, norm.StreetName,
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateVoter
		}
		return nil, fmt.Errorf("failed to update voter record %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update of voter record %s: %w", id, err)
	}
	if affected == 0 {
		return nil, ErrVoterNotFound
	}

	return db.GetVoterRecord(id)
}

// DeleteVoterRecord removes one voter record by id
func (db *VotersDB) DeleteVoterRecord(id string) error {
	res, err := db.conn.Exec(`DELETE FROM voter_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete voter record %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of voter record %s: %w", id, err)
	}
	if affected == 0 {
		return ErrVoterNotFound
	}
	return nil
}

// ListVoterRecords materializes the full roll as a snapshot slice for one
// matching run
func (db *VotersDB) ListVoterRecords() ([]matching.VoterRecord, error) {
	query := `
		SELECT id, first_name, last_name, street_number, street_name,
		       street_type, street_dir_suffix
		FROM voter_records ORDER BY id
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list voter records: %w", err)
	}
	defer rows.Close()

	var roll []matching.VoterRecord
	for rows.Next() {
		var rec matching.VoterRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.FirstName, &rec.LastName, &rec.StreetNumber,
			&rec.StreetName, &rec.StreetType, &rec.StreetDirSuffix,
		); err != nil {
			return nil, fmt.Errorf("failed to scan voter record: %w", err)
		}
		roll = append(roll, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voter records: %w", err)
	}
	return roll, nil
}

// ListVoterRows returns stored rows with timestamps, paged
func (db *VotersDB) ListVoterRows(limit, offset int) ([]VoterRow, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, first_name, last_name, street_number, street_name,
		       street_type, street_dir_suffix, created_at, updated_at
		FROM voter_records ORDER BY last_name, first_name LIMIT ? OFFSET ?
	`
	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list voter rows: %w", err)
	}
	defer rows.Close()

	var out []VoterRow
	for rows.Next() {
		var rec VoterRow
		if err := rows.Scan(
			&rec.ID,
			&rec.FirstName, &rec.LastName, &rec.StreetNumber,
			&rec.StreetName, &rec.StreetType, &rec.StreetDirSuffix,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan voter row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountVoterRecords returns the roll size
func (db *VotersDB) CountVoterRecords() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM voter_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count voter records: %w", err)
	}
	return count, nil
}

// ClearVoterRecords drops the entire roll
func (db *VotersDB) ClearVoterRecords() error {
	if _, err := db.conn.Exec(`DELETE FROM voter_records`); err != nil {
		return fmt.Errorf("failed to clear voter records: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
