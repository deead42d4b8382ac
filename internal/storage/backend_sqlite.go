package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	record TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);`

// SQLiteBackend persists the settings record as a single-row document in
// an embedded SQLite database.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (sb *SQLiteBackend) Load() ([]byte, bool, error) {
	var record string
	err := sb.db.QueryRow(`SELECT record FROM settings WHERE id = 1`).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings record: %w", err)
	}
	return []byte(record), true, nil
}

func (sb *SQLiteBackend) Save(data []byte) error {
	_, err := sb.db.Exec(`
		INSERT INTO settings (id, record, updated_at) VALUES (1, ?, datetime('now'))
		ON CONFLICT (id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		string(data))
	if err != nil {
		return fmt.Errorf("failed to write settings record: %w", err)
	}
	return nil
}

func (sb *SQLiteBackend) Close() error {
	return sb.db.Close()
}
