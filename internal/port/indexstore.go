package port

import "docseek/internal/domain"

// IndexStore saves and loads a whole Index at a path.
type IndexStore interface {
	Save(path string, idx *domain.Index) error

	Load(path string) (*domain.Index, error)
}
