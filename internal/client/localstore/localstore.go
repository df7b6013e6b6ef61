// Package localstore is the submission sink for the client's
// local-only mode: an ever-growing ordered collection of records kept
// under a single named key, read and rewritten wholesale on each
// append. Implementations may be in-memory or file-backed; the
// submitter never depends on which.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/stjtech/admissions/internal/app/models/dto"
)

// CollectionKey names the collection the records live under.
const CollectionKey = "applications"

// Record is one locally stored submission: the flat form payload plus
// the locally allocated reference number.
type Record struct {
	dto.SubmissionRequest
	ReferenceNumber string    `json:"referenceNumber"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// Store is the local persistence sink.
type Store interface {
	List() ([]Record, error)
	Append(Record) error
}

// MemoryStore keeps records in memory.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// List returns a copy of all stored records in insertion order.
func (s *MemoryStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Append adds a record to the collection.
func (s *MemoryStore) Append(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

// FileStore persists the collection as a single JSON document keyed by
// CollectionKey. Every append reads the whole collection, appends and
// rewrites it; there are no partial writes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the file at path. The file is
// created on first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type collection struct {
	Applications []Record `json:"applications"`
}

func (s *FileStore) load() (*collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &collection{}, nil
		}
		return nil, fmt.Errorf("failed to read local store: %w", err)
	}

	col := &collection{}
	if err := json.Unmarshal(data, col); err != nil {
		return nil, fmt.Errorf("local store is corrupt: %w", err)
	}
	return col, nil
}

// List returns all stored records in insertion order.
func (s *FileStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.load()
	if err != nil {
		return nil, err
	}
	return col.Applications, nil
}

// Append reads the collection, appends the record and writes the whole
// collection back. A corrupt prior file fails the append; the caller's
// form state is untouched.
func (s *FileStore) Append(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.load()
	if err != nil {
		return err
	}

	col.Applications = append(col.Applications, r)

	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("failed to encode local store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write local store: %w", err)
	}
	return nil
}
