package memory

import (
	"context"
	"fmt"
	"sync"

	databaseerrors "restoapi/internal/database"
)

// Storage is the in-process client storage used in local runs and tests.
// Contents are lost on restart.
type Storage struct {
	mu    sync.RWMutex
	items map[string]map[string][]byte
}

func New() *Storage {
	return &Storage{items: make(map[string]map[string][]byte)}
}

func (s *Storage) GetItem(ctx context.Context, clientId, key string) ([]byte, error) {
	const op = "database.memory.GetItem"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[clientId][key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, databaseerrors.ErrNotFound)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *Storage) SetItem(ctx context.Context, clientId, key string, value []byte) error {
	const op = "database.memory.SetItem"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.items[clientId]
	if !ok {
		bucket = make(map[string][]byte)
		s.items[clientId] = bucket
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	bucket[key] = stored
	return nil
}

func (s *Storage) RemoveItem(ctx context.Context, clientId, key string) error {
	const op = "database.memory.RemoveItem"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items[clientId], key)
	if len(s.items[clientId]) == 0 {
		delete(s.items, clientId)
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}
