package adapters

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

const spoolSchema = `CREATE TABLE IF NOT EXISTS ama_spool (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	payload BLOB NOT NULL
)`

// SQLiteStorageAdapter spools batches in a SQLite table, one row per batch.
type SQLiteStorageAdapter struct {
	db *sql.DB
}

// Ensure SQLiteStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*SQLiteStorageAdapter)(nil)

// NewSQLiteStorageAdapter opens (or creates) the database at path.
// Use ":memory:" for an in-process spool.
func NewSQLiteStorageAdapter(path string) (*SQLiteStorageAdapter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spool database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(spoolSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create spool table: %w", err)
	}
	return &SQLiteStorageAdapter{db: db}, nil
}

// Save replaces the spooled rows with batches inside one transaction.
func (s *SQLiteStorageAdapter) Save(batches []Batch) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ama_spool`); err != nil {
		return err
	}
	for i := range batches {
		payload, err := json.Marshal(batches[i])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO ama_spool (payload) VALUES (?)`, payload); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load returns spooled batches in insertion order.
func (s *SQLiteStorageAdapter) Load() ([]Batch, error) {
	rows, err := s.db.Query(`SELECT payload FROM ama_spool ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := []Batch{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var b Batch
		if err := json.Unmarshal(payload, &b); err != nil {
			return nil, fmt.Errorf("corrupt spool row: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Clear deletes every spooled batch.
func (s *SQLiteStorageAdapter) Clear() error {
	_, err := s.db.Exec(`DELETE FROM ama_spool`)
	return err
}

// Close closes the database.
func (s *SQLiteStorageAdapter) Close() error {
	return s.db.Close()
}
