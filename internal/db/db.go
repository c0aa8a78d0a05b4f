package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultPath returns the default database location under the user's home.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "adbdump-history.db"
	}
	return filepath.Join(home, ".local", "share", "adbdump", "history.db")
}

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
	path string
}

// New opens or creates the SQLite database at the given path
func New(path string) (*DB, error) {
	if path == "" {
		path = DefaultPath()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	db := &DB{conn: conn, path: path}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

// migrate runs the database schema migrations
func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var version int
	err = d.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return err
	}

	migrations := []string{
		migrationV1,
	}

	for i, migration := range migrations {
		v := i + 1
		if v <= version {
			continue
		}

		tx, err := d.conn.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(migration); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration v%d failed: %w", v, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", v); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// migrationV1 creates the initial schema
const migrationV1 = `
-- One row per dump invocation
CREATE TABLE IF NOT EXISTS dump_sessions (
    id TEXT PRIMARY KEY,
    device_serial TEXT,
    device_model TEXT,
    output_dir TEXT NOT NULL,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    done INTEGER DEFAULT 0,
    failed INTEGER DEFAULT 0,
    invalid INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sessions_started ON dump_sessions(started_at);
CREATE INDEX IF NOT EXISTS idx_sessions_device ON dump_sessions(device_serial);

-- One row per attempted partition within a session
CREATE TABLE IF NOT EXISTS dumps (
    id INTEGER PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES dump_sessions(id),
    label TEXT NOT NULL,
    node TEXT,
    size_bytes INTEGER,
    dest_path TEXT,
    outcome TEXT NOT NULL,
    duration_ms INTEGER,
    error TEXT,
    timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_dumps_session ON dumps(session_id);
CREATE INDEX IF NOT EXISTS idx_dumps_label ON dumps(label);
CREATE INDEX IF NOT EXISTS idx_dumps_outcome ON dumps(outcome);
`

// Session represents one dump invocation
type Session struct {
	ID           string
	DeviceSerial string
	DeviceModel  string
	OutputDir    string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Done         int
	Failed       int
	Invalid      int
}

// Dump represents one attempted partition dump within a session
type Dump struct {
	ID         int64
	SessionID  string
	Label      string
	Node       string
	SizeBytes  int64
	DestPath   string
	Outcome    string
	DurationMS int64
	Error      string
	Timestamp  time.Time
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
