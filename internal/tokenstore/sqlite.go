// ABOUTME: SQLite token backend using the pure Go modernc driver
// ABOUTME: One row per (origin, key) in the token_slots table

package tokenstore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps tokens in a local SQLite database
type SQLiteStore struct {
	db     *sql.DB
	origin string
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(path, origin string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS token_slots (
			origin TEXT NOT NULL,
			key TEXT NOT NULL,
			token TEXT NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (origin, key)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create token_slots: %w", err)
	}

	return &SQLiteStore{db: db, origin: origin}, nil
}

// Get returns the token for this origin
func (s *SQLiteStore) Get() (string, bool) {
	var tok string
	err := s.db.QueryRow(
		`SELECT token FROM token_slots WHERE origin = ? AND key = ?`,
		s.origin, Key,
	).Scan(&tok)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		slog.Warn("Failed to read token", "origin", s.origin, "error", err)
		return "", false
	}
	return tok, tok != ""
}

// Set upserts the token for this origin
func (s *SQLiteStore) Set(token string) {
	if token == "" {
		s.Clear()
		return
	}
	_, err := s.db.Exec(`
		INSERT INTO token_slots (origin, key, token, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(origin, key) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`, s.origin, Key, token, time.Now().UTC())
	if err != nil {
		slog.Warn("Failed to write token", "origin", s.origin, "error", err)
	}
}

// Clear deletes the token for this origin
func (s *SQLiteStore) Clear() {
	_, err := s.db.Exec(`DELETE FROM token_slots WHERE origin = ? AND key = ?`, s.origin, Key)
	if err != nil {
		slog.Warn("Failed to clear token", "origin", s.origin, "error", err)
	}
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
