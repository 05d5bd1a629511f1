package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the structured cache backend: one table, looked up by exact
// key equality only.
type SQLiteStore struct {
	sqlDB *sql.DB
}

const imagesSchema = `
CREATE TABLE IF NOT EXISTS images (
    key        TEXT PRIMARY KEY,
    file_name  TEXT NOT NULL,
    style      INTEGER NOT NULL,
    data       BLOB NOT NULL,
    timestamp  INTEGER NOT NULL
);`

// OpenSQLite opens (or creates) the structured store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(imagesSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure images table: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Read retrieves the entry for key.
func (s *SQLiteStore) Read(ctx context.Context, key string) (*Entry, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT key, file_name, style, data, timestamp FROM images WHERE key = ?`, key)

	var e Entry
	var data []byte
	if err := row.Scan(&e.Key, &e.FileName, &e.Style, &data, &e.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read entry: %w", err)
	}
	e.Data = string(data)
	return &e, nil
}

// Write stores an entry, replacing any previous row with the same key.
func (s *SQLiteStore) Write(ctx context.Context, e Entry) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO images (key, file_name, style, data, timestamp)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   file_name = excluded.file_name,
		   style     = excluded.style,
		   data      = excluded.data,
		   timestamp = excluded.timestamp`,
		e.Key, e.FileName, e.Style, []byte(e.Data), e.Timestamp)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
