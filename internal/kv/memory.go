package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a map guarded by a mutex. Meant for local development
// and tests: nothing survives a restart. There is no eviction and no size limit,
// so the history blob can grow like it would in redis or postgres.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(val), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = cloneBytes(value)
	return nil
}

func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.values[key]
	next, err := fn(cloneBytes(current), exists)
	if err != nil {
		return err
	}
	s.values[key] = cloneBytes(next)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.values)
	return nil
}

// callers may keep or mutate the slices they pass in or get back
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
