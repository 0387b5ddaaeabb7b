package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lmoralesc/pausia/core"
)

// Stats are simple counters for cache behavior.
// These are intended for diagnostics and monitoring.
type Stats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// Memory is an in-memory session cache keyed by token hash.
type Memory struct {
	cache   map[string]*cachedRecord
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

type cachedRecord struct {
	session  *core.StoredSession
	cachedAt time.Time
}

var _ core.SessionCache = (*Memory)(nil)

// NewMemory creates an in-memory session cache. Zero values fall back to a
// 5 minute TTL and 500 entries.
func NewMemory(ttl time.Duration, maxSize int) *Memory {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	if maxSize == 0 {
		maxSize = 500
	}

	return &Memory{
		cache:   make(map[string]*cachedRecord),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

func (c *Memory) Get(tokenHash string) (*core.StoredSession, error) {
	c.mu.RLock()
	record, exists := c.cache[tokenHash]
	c.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, core.ErrCacheNotFound
	}

	if time.Since(record.cachedAt) > c.ttl {
		atomic.AddInt64(&c.misses, 1)
		_ = c.Delete(tokenHash)
		return nil, core.ErrCacheNotFound
	}

	atomic.AddInt64(&c.hits, 1)
	return record.session, nil
}

func (c *Memory) Set(tokenHash string, session *core.StoredSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction if full
	if len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			atomic.AddInt64(&c.evictions, 1)
			break
		}
	}

	c.cache[tokenHash] = &cachedRecord{
		session:  session,
		cachedAt: time.Now(),
	}

	atomic.AddInt64(&c.sets, 1)
	return nil
}

func (c *Memory) Delete(tokenHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.cache[tokenHash]; existed {
		delete(c.cache, tokenHash)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

func (c *Memory) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*cachedRecord)
	return nil
}

func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Memory) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}
