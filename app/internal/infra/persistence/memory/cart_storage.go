package memory

import (
	"context"
	"sync"
)

// CartStorage is a process-local Storage. Carts do not survive a restart.
type CartStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewCartStorage() *CartStorage {
	return &CartStorage{values: make(map[string]string)}
}

func (s *CartStorage) Read(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *CartStorage) Write(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *CartStorage) Ping(ctx context.Context) error {
	return nil
}
