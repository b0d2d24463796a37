package store

import (
	"context"
	"errors"
	"sync"

	"dconn.dev/portfolio-api/internal/models"
)

const memoryLocation = "memory"

var errNoDocument = errors.New("no catalog document")

// MemoryStore keeps the encoded catalog in memory.
// It stores bytes rather than the catalog itself so Load never aliases saved state.
type MemoryStore struct {
	mu       sync.Mutex
	document []byte
}

// NewMemoryStore creates a MemoryStore seeded with catalog.
// A nil catalog seeds an empty projects array.
func NewMemoryStore(catalog *models.Catalog) *MemoryStore {
	s := &MemoryStore{}
	data, err := Encode(catalog)
	if err == nil {
		s.document = data
	}
	return s
}

// NewMemoryStoreFromDocument creates a MemoryStore holding raw document bytes.
// Passing nil simulates a missing document.
func NewMemoryStoreFromDocument(document []byte) *MemoryStore {
	return &MemoryStore{document: append([]byte(nil), document...)}
}

// Load decodes the stored document
func (s *MemoryStore) Load(ctx context.Context) (*models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: OpLoad, Location: memoryLocation, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.document) == 0 {
		return nil, &StorageError{Op: OpLoad, Location: memoryLocation, Err: errNoDocument}
	}
	catalog, err := Decode(s.document)
	if err != nil {
		return nil, &StorageError{Op: OpLoad, Location: memoryLocation, Err: err}
	}
	return catalog, nil
}

// Save replaces the stored document
func (s *MemoryStore) Save(ctx context.Context, catalog *models.Catalog) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Op: OpSave, Location: memoryLocation, Err: err}
	}

	data, err := Encode(catalog)
	if err != nil {
		return &StorageError{Op: OpSave, Location: memoryLocation, Err: err}
	}

	s.mu.Lock()
	s.document = data
	s.mu.Unlock()
	return nil
}

// Document returns a copy of the stored bytes
func (s *MemoryStore) Document() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.document...)
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
