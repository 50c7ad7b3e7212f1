// Package resource holds executable resources in memory and hands out locators for them
package resource

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Scheme prefixes every locator issued by a Store
const Scheme = "blob:offthread/"

// Blob is an immutable in-memory resource
type Blob struct {
	// Type is the media type of Data
	Type string

	// Data is the resource body
	Data []byte
}

// Size returns the size of the blob in bytes
func (b Blob) Size() int {
	return len(b.Data)
}

// Store maps locators to blobs. The zero value is not usable; use NewStore.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		blobs: make(map[string]Blob),
	}
}

var defaultStore = NewStore()

// Default returns the process-wide store
func Default() *Store {
	return defaultStore
}

// CreateObjectURL stores a copy of blob and returns a locator for it
func (s *Store) CreateObjectURL(blob Blob) string {
	locator := Scheme + uuid.NewString()
	stored := Blob{
		Type: blob.Type,
		Data: append([]byte(nil), blob.Data...),
	}

	s.mu.Lock()
	s.blobs[locator] = stored
	s.mu.Unlock()

	return locator
}

// Resolve returns a copy of the blob behind locator
func (s *Store) Resolve(locator string) (Blob, error) {
	if !strings.HasPrefix(locator, Scheme) {
		return Blob{}, fmt.Errorf("%w: unsupported locator %q", ErrNotFound, locator)
	}

	s.mu.RLock()
	blob, ok := s.blobs[locator]
	s.mu.RUnlock()

	if !ok {
		return Blob{}, fmt.Errorf("%w: %s", ErrNotFound, locator)
	}
	return Blob{
		Type: blob.Type,
		Data: append([]byte(nil), blob.Data...),
	}, nil
}

// RevokeObjectURL releases the blob behind locator. Revoking an unknown locator is a no-op.
func (s *Store) RevokeObjectURL(locator string) {
	s.mu.Lock()
	delete(s.blobs, locator)
	s.mu.Unlock()
}

// Len returns the number of live blobs
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
