// Package memstore keeps saved indexes in memory, keyed by path.
package memstore

import (
	"io/fs"
	"sync"

	"docseek/internal/domain"
	"docseek/internal/port"
)

var _ port.IndexStore = (*MemoryStore)(nil)

// MemoryStore holds a private copy of every saved index, so later changes
// to the caller's Index never leak into what Load returns.
type MemoryStore struct {
	mu      sync.RWMutex
	indexes map[string]*domain.Index
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		indexes: make(map[string]*domain.Index),
	}
}

func (s *MemoryStore) Save(path string, idx *domain.Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[path] = clone(idx)
	return nil
}

func (s *MemoryStore) Load(path string) (*domain.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indexes[path]
	if !ok {
		return nil, domain.NewIOError("load", path, fs.ErrNotExist)
	}
	return clone(idx), nil
}

func clone(idx *domain.Index) *domain.Index {
	out := domain.NewIndex()
	if idx == nil {
		return out
	}
	for path, doc := range idx.Docs {
		terms := make(domain.TermFreq, len(doc.Terms))
		for term, count := range doc.Terms {
			terms[term] = count
		}
		out.Docs[path] = &domain.Document{Path: doc.Path, Terms: terms, TotalTokens: doc.TotalTokens}
	}
	return out
}
