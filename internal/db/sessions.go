package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateSession inserts a new dump session record
func (d *DB) CreateSession(s *Session) error {
	_, err := d.conn.Exec(`
		INSERT INTO dump_sessions (id, device_serial, device_model, output_dir, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, nullString(s.DeviceSerial), nullString(s.DeviceModel), s.OutputDir, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FinishSession stamps the end time and outcome counts on a session
func (d *DB) FinishSession(id string, done, failed, invalid int) error {
	_, err := d.conn.Exec(`
		UPDATE dump_sessions
		SET finished_at = ?, done = ?, failed = ?, invalid = ?
		WHERE id = ?
	`, time.Now(), done, failed, invalid, id)
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	return nil
}

// RecordDump logs one attempted partition dump
func (d *DB) RecordDump(dump *Dump) error {
	_, err := d.conn.Exec(`
		INSERT INTO dumps (session_id, label, node, size_bytes, dest_path, outcome, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, dump.SessionID, dump.Label, nullString(dump.Node), dump.SizeBytes,
		nullString(dump.DestPath), dump.Outcome, dump.DurationMS, nullString(dump.Error))
	if err != nil {
		return fmt.Errorf("failed to record dump: %w", err)
	}
	return nil
}

// GetSession returns one session by id, or nil if not found
func (d *DB) GetSession(id string) (*Session, error) {
	row := d.conn.QueryRow(`
		SELECT id, device_serial, device_model, output_dir, started_at, finished_at, done, failed, invalid
		FROM dump_sessions WHERE id = ?
	`, id)
	return scanSessionRow(row)
}

// GetRecentSessions returns the most recent sessions, newest first
func (d *DB) GetRecentSessions(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.conn.Query(`
		SELECT id, device_serial, device_model, output_dir, started_at, finished_at, done, failed, invalid
		FROM dump_sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// GetSessionDumps returns all dumps in a session, in insertion order
func (d *DB) GetSessionDumps(sessionID string) ([]*Dump, error) {
	rows, err := d.conn.Query(`
		SELECT id, session_id, label, node, size_bytes, dest_path, outcome, duration_ms, error, timestamp
		FROM dumps
		WHERE session_id = ?
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dumps: %w", err)
	}
	defer rows.Close()

	var dumps []*Dump
	for rows.Next() {
		var dump Dump
		var node, destPath, errMsg sql.NullString
		var sizeBytes, durationMS sql.NullInt64

		err := rows.Scan(&dump.ID, &dump.SessionID, &dump.Label, &node,
			&sizeBytes, &destPath, &dump.Outcome, &durationMS, &errMsg, &dump.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dump: %w", err)
		}

		dump.Node = node.String
		dump.DestPath = destPath.String
		dump.Error = errMsg.String
		dump.SizeBytes = sizeBytes.Int64
		dump.DurationMS = durationMS.Int64
		dumps = append(dumps, &dump)
	}
	return dumps, rows.Err()
}

// GetDumpsByLabel returns the dump history of one partition across sessions
func (d *DB) GetDumpsByLabel(label string, limit int) ([]*Dump, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.conn.Query(`
		SELECT id, session_id, label, node, size_bytes, dest_path, outcome, duration_ms, error, timestamp
		FROM dumps
		WHERE label = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, label, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dumps by label: %w", err)
	}
	defer rows.Close()

	var dumps []*Dump
	for rows.Next() {
		var dump Dump
		var node, destPath, errMsg sql.NullString
		var sizeBytes, durationMS sql.NullInt64

		err := rows.Scan(&dump.ID, &dump.SessionID, &dump.Label, &node,
			&sizeBytes, &destPath, &dump.Outcome, &durationMS, &errMsg, &dump.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dump: %w", err)
		}

		dump.Node = node.String
		dump.DestPath = destPath.String
		dump.Error = errMsg.String
		dump.SizeBytes = sizeBytes.Int64
		dump.DurationMS = durationMS.Int64
		dumps = append(dumps, &dump)
	}
	return dumps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(r rowScanner) (*Session, error) {
	var s Session
	var serial, model sql.NullString
	var finished sql.NullTime

	err := r.Scan(&s.ID, &serial, &model, &s.OutputDir, &s.StartedAt,
		&finished, &s.Done, &s.Failed, &s.Invalid)
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	s.DeviceSerial = serial.String
	s.DeviceModel = model.String
	if finished.Valid {
		t := finished.Time
		s.FinishedAt = &t
	}
	return &s, nil
}

func scanSessionRow(row *sql.Row) (*Session, error) {
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}
