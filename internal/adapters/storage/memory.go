// Package storage holds object storage test doubles shared across service
// and handler tests. The real adapter lives in the minio subpackage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage is an in-memory ObjectStorage. Unlike MockObjectStorage it
// drains the reader like a real backend would, which matters for tests that
// assert on streamed byte counts, and it counts calls for cache tests.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	gets    int

	// PutErr and GetErr, when set, fail the corresponding call after the
	// call is counted.
	PutErr error
	GetErr error
}

// NewMemoryStorage creates an empty MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (s *MemoryStorage) Put(_ context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.PutErr != nil {
		return 0, s.PutErr
	}
	s.objects[key] = data
	return int64(len(data)), nil
}

func (s *MemoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Object returns a stored object's bytes
func (s *MemoryStorage) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len returns the number of stored objects
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// PutCalls returns how many times Put has been called
func (s *MemoryStorage) PutCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// GetCalls returns how many times Get has been called
func (s *MemoryStorage) GetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}
