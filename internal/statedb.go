package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// State DB keys.
const (
	StateKeyChatID = "chat_id"
	StateKeyTheme  = "theme"
)

// StateDB is the durable local key/value store. It plays the role the
// browser's localStorage played for the web client: a single key holds
// the active session id, read at startup and rewritten on every
// session change.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the state database under dir.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StateError{Op: "open", Err: err}
	}
	path := filepath.Join(dir, "state.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StateError{Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StateError{Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, &StateError{Op: "open", Err: err}
	}

	return &StateDB{db: db}, nil
}

// Close closes the underlying database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// Get returns the value for key. A missing key returns an empty string
// and no error: absence of the chat id key means "no active session".
func (s *StateDB) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", &StateError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *StateDB) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO app_state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StateError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *StateDB) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM app_state WHERE key = ?", key); err != nil {
		return &StateError{Op: "delete", Key: key, Err: err}
	}
	return nil
}
