package store

import (
	"context"
	"os"

	"dconn.dev/portfolio-api/internal/models"
)

// FileStore keeps the catalog in a single JSON file.
// Save overwrites the file in place, so a crash mid-write can leave it truncated.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and parses the catalog file
func (s *FileStore) Load(ctx context.Context) (*models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.fail(OpLoad, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, s.fail(OpLoad, err)
	}

	catalog, err := Decode(data)
	if err != nil {
		return nil, s.fail(OpLoad, err)
	}
	return catalog, nil
}

// Save serialises the catalog and overwrites the file
func (s *FileStore) Save(ctx context.Context, catalog *models.Catalog) error {
	if err := ctx.Err(); err != nil {
		return s.fail(OpSave, err)
	}

	data, err := Encode(catalog)
	if err != nil {
		return s.fail(OpSave, err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return s.fail(OpSave, err)
	}
	return nil
}

// Close is a no-op for files
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) fail(op string, err error) error {
	return &StorageError{Op: op, Location: s.path, Err: err}
}
