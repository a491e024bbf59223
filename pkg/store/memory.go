package store

import (
	"context"
	"sync"

	apperrors "github.com/pagegrid/pagegrid/pkg/errors"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

// MemoryStore is an in-memory document store for development and testing.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]envelope
}

// NewMemoryStore creates a new in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]envelope)}
}

func (s *MemoryStore) Save(ctx context.Context, name, title string, tree *scene.Tree) (Record, error) {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *Record
	if existing, ok := s.docs[name]; ok {
		prev = &existing.Record
	}
	env := seal(name, title, tree, prev)
	s.docs[name] = env
	return env.Record, nil
}

func (s *MemoryStore) Load(ctx context.Context, name string) (*scene.Tree, Record, error) {
	s.mu.RLock()
	env, ok := s.docs[name]
	s.mu.RUnlock()

	if !ok {
		return nil, Record{}, ErrNotFound
	}
	return unseal(env)
}

func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0, len(s.docs))
	for _, env := range s.docs {
		records = append(records, env.Record)
	}
	sortRecords(records)
	return records, nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, name)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
