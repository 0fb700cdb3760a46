package usecase

import (
	"log/slog"

	"docseek/internal/adapter/cache"
	"docseek/internal/adapter/retriever"
	"docseek/internal/domain"
	"docseek/internal/logging"
	"docseek/internal/port"
)

// SearchUseCase answers one query against an index file.
type SearchUseCase struct {
	store  port.IndexStore
	ranker port.Ranker
}

func NewSearchUseCase(store port.IndexStore, ranker port.Ranker) *SearchUseCase {
	return &SearchUseCase{
		store:  store,
		ranker: ranker,
	}
}

// Search loads the index at indexPath and ranks it against query. Load
// errors are returned unchanged so callers can test them with errors.Is.
func (u *SearchUseCase) Search(indexPath, query string, limit int) ([]domain.ScoredDoc, error) {
	idx, err := u.store.Load(indexPath)
	if err != nil {
		return nil, err
	}
	return u.ranker.Rank(idx, query, limit), nil
}

// SearchExplained ranks like Search and breaks down the score of every
// returned path per query term, from a single load of the index. The
// breakdown is nil for rankers that cannot provide one.
func (u *SearchUseCase) SearchExplained(indexPath, query string, limit int) ([]domain.ScoredDoc, map[string][]retriever.TermScore, error) {
	idx, err := u.store.Load(indexPath)
	if err != nil {
		return nil, nil, err
	}
	results := u.ranker.Rank(idx, query, limit)

	ex, ok := u.ranker.(*retriever.TFIDFRanker)
	if !ok {
		return results, nil, nil
	}
	explained := make(map[string][]retriever.TermScore, len(results))
	for _, r := range results {
		explained[r.Path] = ex.Explain(idx, query, r.Path)
	}
	return results, explained, nil
}

// Searcher serves many queries from one loaded index. The index is never
// modified after construction, so Search is safe for concurrent use.
type Searcher struct {
	index  *domain.Index
	ranker port.Ranker
	cached *cache.CachedRanker
	stats  domain.IndexStats
	logger *slog.Logger
}

// NewSearcher wraps a loaded index. A nil queryCache disables caching.
func NewSearcher(idx *domain.Index, ranker port.Ranker, queryCache *cache.QueryCache) *Searcher {
	s := &Searcher{
		index:  idx,
		ranker: ranker,
		stats:  idx.Stats(),
		logger: logging.WithComponent("searcher"),
	}
	if queryCache != nil {
		s.cached = cache.NewCachedRanker(rankFunc(s.rank), queryCache)
	}
	return s
}

// OpenSearcher loads the index at path.
func OpenSearcher(store port.IndexStore, path string, ranker port.Ranker, queryCache *cache.QueryCache) (*Searcher, error) {
	idx, err := store.Load(path)
	if err != nil {
		return nil, err
	}
	s := NewSearcher(idx, ranker, queryCache)
	s.logger.Info("index loaded", "path", path, "documents", idx.Len())
	return s, nil
}

// Search ranks the loaded index and reports whether the cache answered.
func (s *Searcher) Search(query string, limit int) ([]domain.ScoredDoc, bool) {
	if s.cached != nil {
		return s.cached.Search(query, limit)
	}
	return s.rank(query, limit), false
}

func (s *Searcher) rank(query string, limit int) []domain.ScoredDoc {
	return s.ranker.Rank(s.index, query, limit)
}

// Stats returns the summary computed when the index was loaded.
func (s *Searcher) Stats() domain.IndexStats {
	return s.stats
}

func (s *Searcher) Documents() int {
	return s.index.Len()
}

type rankFunc func(query string, limit int) []domain.ScoredDoc

func (f rankFunc) Search(query string, limit int) []domain.ScoredDoc {
	return f(query, limit)
}
