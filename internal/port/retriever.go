package port

import "docseek/internal/domain"

// Ranker orders the documents of an index by relevance to a query.
type Ranker interface {
	// Rank returns at most limit results, best first. limit <= 0 means all.
	Rank(idx *domain.Index, query string, limit int) []domain.ScoredDoc
}
