package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	command TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps commands in a SQLite table ordered by insertion id.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// One connection keeps ":memory:" databases alive between calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns every command ordered by id.
func (s *SQLiteStore) Load() ([]string, error) {
	rows, err := s.db.Query("SELECT command FROM history ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var cmds []string
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

// Append inserts one command.
func (s *SQLiteStore) Append(cmd string) error {
	if _, err := s.db.Exec("INSERT INTO history (command) VALUES (?)", cmd); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// Truncate deletes every row.
func (s *SQLiteStore) Truncate() error {
	if _, err := s.db.Exec("DELETE FROM history"); err != nil {
		return fmt.Errorf("failed to truncate history: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
