// Package store persists the project catalog document.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dconn.dev/portfolio-api/internal/models"
)

// Storage operations reported in StorageError
const (
	OpLoad = "load"
	OpSave = "save"
)

// Supported storage drivers
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Store loads and saves the whole catalog document.
// Every Load returns a fresh copy; callers may mutate it freely before Save.
type Store interface {
	Load(ctx context.Context) (*models.Catalog, error)
	Save(ctx context.Context, catalog *models.Catalog) error
	Close() error
}

// StorageError reports a failure reading, parsing or writing the catalog
type StorageError struct {
	Op       string
	Location string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Location, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Open returns the store for the given driver
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverFile, "":
		return NewFileStore(path), nil
	case DriverSQLite:
		return NewSQLiteStore(ctx, path)
	case DriverMemory:
		return NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// FindIndex returns the position of the first project with the given id, or -1
func FindIndex(catalog *models.Catalog, id models.ID) int {
	if catalog == nil {
		return -1
	}
	return catalog.FindIndex(id)
}

// EmptyCatalog returns a catalog with an empty projects array
func EmptyCatalog() *models.Catalog {
	return &models.Catalog{Projects: []models.Project{}}
}

// Encode serialises the catalog with 2-space indentation
func Encode(catalog *models.Catalog) ([]byte, error) {
	if catalog == nil {
		catalog = EmptyCatalog()
	}
	compact, err := models.Marshal(catalog)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Decode parses a catalog document
func Decode(data []byte) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	if catalog.Projects == nil {
		catalog.Projects = []models.Project{}
	}
	return &catalog, nil
}
