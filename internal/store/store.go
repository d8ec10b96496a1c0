// Package store provides the persistent key-value bucket storage used by
// the course and question repositories.
package store

import (
	"context"
	"errors"
	"sync"
)

// Bucket names used by the application.
const (
	BucketCourses   = "courses"
	BucketQuestions = "course_questions"
	BucketUsers     = "users"
)

// ErrNotFound is returned by Read when a bucket has never been written.
var ErrNotFound = errors.New("bucket not found")

// Store persists raw serialized buckets. There is no transactionality and
// no locking across processes: concurrent writers race and the last writer
// wins.
type Store interface {
	Read(ctx context.Context, bucket string) ([]byte, error)
	Write(ctx context.Context, bucket string, data []byte) error
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	buckets map[string][]byte
	writes  map[string]int
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string][]byte),
		writes:  make(map[string]int),
	}
}

func (s *MemoryStore) Read(_ context.Context, bucket string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.buckets[bucket]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Write(_ context.Context, bucket string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.buckets[bucket] = stored
	s.writes[bucket]++
	return nil
}

// WriteCount returns the number of writes a bucket has received. Test hook.
func (s *MemoryStore) WriteCount(bucket string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes[bucket]
}
