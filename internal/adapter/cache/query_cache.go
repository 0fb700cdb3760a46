package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"docseek/internal/domain"
)

const (
	DefaultSize = 256
	DefaultTTL  = 5 * time.Minute
)

// QueryCache keeps ranked results per (query, limit). Entries expire after
// the TTL and the least recently used entry is evicted when full.
type QueryCache struct {
	lru    *expirable.LRU[string, []domain.ScoredDoc]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &QueryCache{
		lru: expirable.NewLRU[string, []domain.ScoredDoc](maxSize, nil, ttl),
	}
}

func cacheKey(query string, limit int) string {
	hash := sha256.Sum256([]byte(query + "\x00" + strconv.Itoa(limit)))
	return hex.EncodeToString(hash[:16])
}

// Get returns a copy of the cached results.
func (c *QueryCache) Get(query string, limit int) ([]domain.ScoredDoc, bool) {
	results, ok := c.lru.Get(cacheKey(query, limit))
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return append([]domain.ScoredDoc(nil), results...), true
}

func (c *QueryCache) Put(query string, limit int, results []domain.ScoredDoc) {
	c.lru.Add(cacheKey(query, limit), append([]domain.ScoredDoc(nil), results...))
}

func (c *QueryCache) Size() int {
	return c.lru.Len()
}

// Stats returns hit and miss counts since creation.
func (c *QueryCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Ranker is the search backend a CachedRanker fronts.
type Ranker interface {
	Search(query string, limit int) []domain.ScoredDoc
}

type CachedRanker struct {
	ranker Ranker
	cache  *QueryCache
}

func NewCachedRanker(ranker Ranker, cache *QueryCache) *CachedRanker {
	return &CachedRanker{
		ranker: ranker,
		cache:  cache,
	}
}

// Search reports whether the results came from the cache.
func (r *CachedRanker) Search(query string, limit int) ([]domain.ScoredDoc, bool) {
	if results, hit := r.cache.Get(query, limit); hit {
		return results, true
	}

	results := r.ranker.Search(query, limit)
	r.cache.Put(query, limit, results)
	return results, false
}
