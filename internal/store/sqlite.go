// Package store persists settings and undo history in a local SQLite file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrClosed is returned by operations on a closed database.
var ErrClosed = errors.New("store: database closed")

// DB is the SQLite-backed store.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db, path: dbPath}, nil
}

// Path returns the database file location.
func (s *DB) Path() string {
	return s.path
}

// Close closes the database.
func (s *DB) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// LoadSettings returns every stored key/value pair.
func (s *DB) LoadSettings() (map[string]string, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		result[k] = v
	}
	return result, rows.Err()
}

// SaveSettings upserts kv in a single transaction.
func (s *DB) SaveSettings(kv map[string]string) error {
	if s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin settings tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("preparing settings upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range kv {
		if _, err := stmt.Exec(k, v, now); err != nil {
			return fmt.Errorf("saving setting %q: %w", k, err)
		}
	}
	return tx.Commit()
}

// LoadUndo returns the stored undo history, oldest first.
func (s *DB) LoadUndo() ([]int, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.Query("SELECT remaining_minutes FROM undo_log ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("loading undo log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning undo entry: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SaveUndo replaces the stored undo history with values.
func (s *DB) SaveUndo(values []int) error {
	if s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin undo tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM undo_log"); err != nil {
		return fmt.Errorf("clearing undo log: %w", err)
	}
	for i, v := range values {
		if _, err := tx.Exec("INSERT INTO undo_log (seq, remaining_minutes) VALUES (?, ?)", i, v); err != nil {
			return fmt.Errorf("saving undo entry: %w", err)
		}
	}
	return tx.Commit()
}

// Clear removes all settings and undo history.
func (s *DB) Clear() error {
	if s.db == nil {
		return ErrClosed
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{"DELETE FROM settings", "DELETE FROM undo_log"} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("clearing store: %w", err)
		}
	}
	return tx.Commit()
}
