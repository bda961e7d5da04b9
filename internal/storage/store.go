// Package storage holds uploaded CSV bytes (raw and categorized) for the
// lifetime of the service. It is working state for the advice pipeline, not a
// persistence layer: nothing here outlives what its backend naturally keeps.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Kind distinguishes the two artifacts stored per upload.
type Kind string

const (
	// KindRaw is the export exactly as uploaded.
	KindRaw Kind = "raw"
	// KindCategorized is the export with the model-assigned category column.
	KindCategorized Kind = "categorized"
)

// ErrNotFound is returned when no object exists for the requested key, or
// when Latest finds nothing of the requested kind.
var ErrNotFound = errors.New("upload not found")

// UploadStore stores and retrieves upload artifacts by upload ID. Latest
// resolves the "latest" pseudo-ID the chat endpoint accepts: the most
// recently stored object of that kind.
type UploadStore interface {
	Put(ctx context.Context, kind Kind, uploadID string, data []byte) error
	Get(ctx context.Context, kind Kind, uploadID string) ([]byte, error)
	Latest(ctx context.Context, kind Kind) (uploadID string, data []byte, err error)
}

type memoryEntry struct {
	data     []byte
	storedAt time.Time
}

// MemoryStore is the default UploadStore: everything lives in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[Kind]map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory upload store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[Kind]map[string]memoryEntry)}
}

// Put stores a copy of data under (kind, uploadID).
func (s *MemoryStore) Put(ctx context.Context, kind Kind, uploadID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.objects[kind] == nil {
		s.objects[kind] = make(map[string]memoryEntry)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[kind][uploadID] = memoryEntry{data: cp, storedAt: time.Now()}
	return nil
}

// Get returns a copy of the stored bytes.
func (s *MemoryStore) Get(ctx context.Context, kind Kind, uploadID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.objects[kind][uploadID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(entry.data))
	copy(cp, entry.data)
	return cp, nil
}

// Latest returns the most recently stored object of the given kind.
func (s *MemoryStore) Latest(ctx context.Context, kind Kind) (string, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		newestID string
		newestAt time.Time
	)
	for id, entry := range s.objects[kind] {
		if newestID == "" || entry.storedAt.After(newestAt) {
			newestID = id
			newestAt = entry.storedAt
		}
	}
	if newestID == "" {
		return "", nil, ErrNotFound
	}

	entry := s.objects[kind][newestID]
	cp := make([]byte, len(entry.data))
	copy(cp, entry.data)
	return newestID, cp, nil
}

var _ UploadStore = (*MemoryStore)(nil)
