package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/use-agent/deckscope/models"
)

// DefaultTTL is how long an average deck stays fresh.
const DefaultTTL = 15 * time.Minute

// Clock supplies the current time. Tests substitute a fake.
type Clock func() time.Time

// entry holds a cached result with its expiry.
type entry struct {
	result    *models.AverageDeckResult
	expiresAt time.Time
}

// Cache is a bounded in-memory TTL cache of average-deck results keyed by
// commander slug and bracket. It is safe for concurrent use; a miss is
// never an error.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	ttl        time.Duration
	maxEntries int
	now        Clock

	cleanupEvery time.Duration
	done         chan struct{}
	stopOnce     sync.Once
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(c *Cache) { c.now = clock }
}

// WithCleanupInterval starts a background goroutine that purges expired
// entries every interval. Call Stop to end it.
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *Cache) { c.cleanupEvery = interval }
}

// New creates a Cache. ttl <= 0 means DefaultTTL; maxEntries <= 0 means
// unbounded.
func New(ttl time.Duration, maxEntries int, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		store:      make(map[string]*entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cleanupEvery > 0 {
		c.done = make(chan struct{})
		go c.cleanupLoop(c.cleanupEvery)
	}
	return c
}

// Key builds the cache key for a commander slug and a normalized bracket.
func Key(slug, bracket string) string {
	return strings.ToLower(slug) + "|" + strings.ToLower(bracket)
}

// Get returns the cached result for key when it has not expired. Expired
// entries are dropped on read.
func (c *Cache) Get(key string) (*models.AverageDeckResult, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.store[key]; ok && cur == e {
			delete(c.store, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.result, true
}

// Set stores result under key. If the cache is at capacity, one arbitrary
// entry is evicted to make room.
func (c *Cache) Set(key string, result *models.AverageDeckResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && c.maxEntries > 0 && len(c.store) >= c.maxEntries {
		// Map iteration order is random in Go.
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}
	c.store[key] = &entry{result: result, expiresAt: c.now().Add(c.ttl)}
}

// Delete drops key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Purge removes every expired entry and returns how many were removed.
func (c *Cache) Purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.store {
		if !now.Before(e.expiresAt) {
			delete(c.store, k)
			removed++
		}
	}
	return removed
}

// Stop terminates the background cleanup goroutine, if any. It is safe to
// call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		if c.done != nil {
			close(c.done)
		}
	})
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}
