package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ServiceDB wraps the service database: ballots, match run audit and
// persisted application configuration
type ServiceDB struct {
	conn *sql.DB
}

// Ballot one uploaded petition document
type Ballot struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// MatchRun audit row for one pipeline invocation
type MatchRun struct {
	ID         string     `json:"id"`
	Ballot     string     `json:"ballot"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     string     `json:"status"`
	StatsJSON  string     `json:"stats_json,omitempty"`
}

// Match run status values
const (
	RunStatusRunning = "running"
	RunStatusDone    = "done"
	RunStatusFailed  = "failed"
)

// NewServiceDB opens (or creates) the service database at dbPath
func NewServiceDB(dbPath string) (*ServiceDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open service database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping service database: %w", err)
	}

	if err := initServiceSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize service schema: %w", err)
	}

	return &ServiceDB{conn: conn}, nil
}

// Close closes the service database
func (db *ServiceDB) Close() error {
	return db.conn.Close()
}

// initServiceSchema brings the service schema up to date through the
// migration tracker
func initServiceSchema(db *sql.DB) error {
	return runMigrationOnce(db, "service_schema_v1", createServiceSchema)
}

func createServiceSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS ballots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS match_runs (
			id TEXT PRIMARY KEY,
			ballot TEXT NOT NULL,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			finished_at TIMESTAMP,
			status TEXT NOT NULL,
			stats_json TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS app_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			config_json TEXT NOT NULL,
			version INTEGER DEFAULT 1,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS app_config_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version INTEGER NOT NULL,
			config_json TEXT NOT NULL,
			changed_by TEXT,
			change_reason TEXT,
			changed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create service schema: %w", err)
		}
	}
	return nil
}

// RecordBallot stores the name of an uploaded petition document
func (db *ServiceDB) RecordBallot(name string) (*Ballot, error) {
	res, err := db.conn.Exec(`INSERT INTO ballots (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to record ballot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read ballot id: %w", err)
	}

	var ballot Ballot
	err = db.conn.QueryRow(`SELECT id, name, uploaded_at FROM ballots WHERE id = ?`, id).
		Scan(&ballot.ID, &ballot.Name, &ballot.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load ballot %d: %w", id, err)
	}
	return &ballot, nil
}

// ListBallots returns uploaded ballots, newest first
func (db *ServiceDB) ListBallots() ([]Ballot, error) {
	rows, err := db.conn.Query(`SELECT id, name, uploaded_at FROM ballots ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ballots: %w", err)
	}
	defer rows.Close()

	var ballots []Ballot
	for rows.Next() {
		var b Ballot
		if err := rows.Scan(&b.ID, &b.Name, &b.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}

// CountBallots returns the number of uploaded ballots
func (db *ServiceDB) CountBallots() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM ballots`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return count, nil
}

// StartMatchRun opens a new run audit row and returns its id
func (db *ServiceDB) StartMatchRun(ballot string) (string, error) {
	id := uuid.New().String()
	_, err := db.conn.Exec(
		`INSERT INTO match_runs (id, ballot, status) VALUES (?, ?, ?)`,
		id, ballot, RunStatusRunning,
	)
	if err != nil {
		return "", fmt.Errorf("failed to start match run: %w", err)
	}
	return id, nil
}

// FinishMatchRun closes a run audit row with its final status and stats
func (db *ServiceDB) FinishMatchRun(id, status, statsJSON string) error {
	res, err := db.conn.Exec(
		`UPDATE match_runs SET status = ?, stats_json = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, statsJSON, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish match run %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check match run %s: %w", id, err)
	}
	if affected == 0 {
		return ErrRunNotFound
	}
	return nil
}

// GetLastMatchRun returns the most recently started run, or nil when no run
// exists yet
func (db *ServiceDB) GetLastMatchRun() (*MatchRun, error) {
	row := db.conn.QueryRow(`
		SELECT id, ballot, started_at, finished_at, status, COALESCE(stats_json, '')
		FROM match_runs ORDER BY started_at DESC LIMIT 1
	`)

	var run MatchRun
	var finished sql.NullTime
	err := row.Scan(&run.ID, &run.Ballot, &run.StartedAt, &finished, &run.Status, &run.StatsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load last match run: %w", err)
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return &run, nil
}

// SaveAppConfig persists the configuration snapshot, pushing the previous
// version into app_config_history
func (db *ServiceDB) SaveAppConfig(configJSON, changedBy, reason string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin config save: %w", err)
	}
	defer tx.Rollback()

	var currentVersion int
	var currentJSON string
	err = tx.QueryRow(`SELECT COALESCE(version, 1), config_json FROM app_config WHERE id = 1`).
		Scan(&currentVersion, &currentJSON)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read current config: %w", err)
	}

	if err == nil {
		_, err = tx.Exec(
			`INSERT INTO app_config_history (version, config_json, changed_by, change_reason) VALUES (?, ?, ?, ?)`,
			currentVersion, currentJSON, changedBy, reason,
		)
		if err != nil {
			return fmt.Errorf("failed to archive config version %d: %w", currentVersion, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO app_config (id, config_json, version, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			config_json = excluded.config_json,
			version = excluded.version,
			updated_at = CURRENT_TIMESTAMP
	`, configJSON, currentVersion+1)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return tx.Commit()
}

// GetAppConfig returns the persisted configuration snapshot, or empty when
// none was saved yet
func (db *ServiceDB) GetAppConfig() (string, error) {
	var configJSON string
	err := db.conn.QueryRow(`SELECT config_json FROM app_config WHERE id = 1`).Scan(&configJSON)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return configJSON, nil
}

// GetAppConfigHistory returns archived configuration versions, newest first
func (db *ServiceDB) GetAppConfigHistory(limit int) ([]map[string]interface{}, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT version, config_json, COALESCE(changed_by, ''), COALESCE(change_reason, ''), changed_at
		FROM app_config_history ORDER BY changed_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load config history: %w", err)
	}
	defer rows.Close()

	var history []map[string]interface{}
	for rows.Next() {
		var version int
		var configJSON, changedBy, reason string
		var changedAt time.Time
		if err := rows.Scan(&version, &configJSON, &changedBy, &reason, &changedAt); err != nil {
			return nil, fmt.Errorf("failed to scan config history: %w", err)
		}
		history = append(history, map[string]interface{}{
			"version":       version,
			"config_json":   configJSON,
			"changed_by":    changedBy,
			"change_reason": reason,
			"changed_at":    changedAt,
		})
	}
	return history, rows.Err()
}
