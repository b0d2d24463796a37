package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"dconn.dev/portfolio-api/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS catalog (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

const sqliteUpsert = `
INSERT INTO catalog (id, document, updated_at) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`

// SQLiteStore keeps the catalog document in a single-row SQLite table
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens the database at path and seeds an empty catalog on first use
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create catalog table: %w", err)
	}

	seed, err := Encode(EmptyCatalog())
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO catalog (id, document, updated_at) VALUES (1, ?, ?)`,
		string(seed), now())
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}

// Load reads and parses the stored document
func (s *SQLiteStore) Load(ctx context.Context) (*models.Catalog, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM catalog WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &StorageError{Op: OpLoad, Location: s.path, Err: errNoDocument}
	}
	if err != nil {
		return nil, &StorageError{Op: OpLoad, Location: s.path, Err: err}
	}

	catalog, err := Decode([]byte(document))
	if err != nil {
		return nil, &StorageError{Op: OpLoad, Location: s.path, Err: err}
	}
	return catalog, nil
}

// Save replaces the stored document
func (s *SQLiteStore) Save(ctx context.Context, catalog *models.Catalog) error {
	data, err := Encode(catalog)
	if err != nil {
		return &StorageError{Op: OpSave, Location: s.path, Err: err}
	}
	if _, err := s.db.ExecContext(ctx, sqliteUpsert, string(data), now()); err != nil {
		return &StorageError{Op: OpSave, Location: s.path, Err: err}
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
