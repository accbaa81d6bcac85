// internal/cache/cache.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/contentdesk/affkit/internal/serpapi"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

// Searcher is the search call being cached.
type Searcher interface {
	Search(ctx context.Context, apiKey string, params serpapi.Params) (*serpapi.Response, error)
}

// SearchCache memoizes successful search responses in an LRU with a TTL.
// Errors are never cached. Cached responses are shared and must be treated
// as read-only.
type SearchCache struct {
	next   Searcher
	lru    *expirable.LRU[string, *serpapi.Response]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats is a snapshot of cache usage.
type Stats struct {
	Entries int     `json:"entries"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// New wraps next with a cache of at most size entries living for ttl.
func New(next Searcher, size int, ttl time.Duration) *SearchCache {
	if size <= 0 {
		size = 256
	}
	return &SearchCache{
		next: next,
		lru:  expirable.NewLRU[string, *serpapi.Response](size, nil, ttl),
	}
}

// Search returns a cached response for identical params and key, or calls
// through and stores the result.
func (c *SearchCache) Search(ctx context.Context, apiKey string, params serpapi.Params) (*serpapi.Response, error) {
	key := Key(apiKey, params)
	if resp, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		log.Debug().Str("engine", params.Engine()).Msg("Search cache hit")
		return resp, nil
	}
	c.misses.Add(1)

	resp, err := c.next.Search(ctx, apiKey, params)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, resp)
	return resp, nil
}

// Purge drops every entry.
func (c *SearchCache) Purge() {
	c.lru.Purge()
}

// Stats returns cache statistics including hit rate
func (c *SearchCache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	s := Stats{Entries: c.lru.Len(), Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total) * 100
	}
	return s
}

// Key identifies a query per account. Only a hash of the API key is kept.
func Key(apiKey string, params serpapi.Params) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:8]) + "|" + params.Canonical()
}
