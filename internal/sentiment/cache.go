package sentiment

import (
	"context"
	"sync"
	"time"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/types"
)

// purgeEvery sets how many inserts pass between sweeps of expired entries
const purgeEvery = 256

// Cached memoizes classifications by text for a fixed TTL. Errors are not cached.
type Cached struct {
	inner interfaces.SentimentClassifier
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	data    map[string]cacheEntry
	inserts int
}

type cacheEntry struct {
	sentiment types.Sentiment
	timestamp time.Time
}

var _ interfaces.SentimentClassifier = (*Cached)(nil)

func NewCached(inner interfaces.SentimentClassifier, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
		data:  make(map[string]cacheEntry),
	}
}

func (c *Cached) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	if s, ok := c.get(text); ok {
		return s, nil
	}
	s, err := c.inner.Classify(ctx, text)
	if err != nil {
		return types.Sentiment{}, err
	}
	c.set(text, s)
	return s, nil
}

func (c *Cached) get(text string) (types.Sentiment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[text]
	if !exists || c.now().Sub(entry.timestamp) > c.ttl {
		return types.Sentiment{}, false
	}
	return entry.sentiment, true
}

func (c *Cached) set(text string, s types.Sentiment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[text] = cacheEntry{sentiment: s, timestamp: c.now()}
	c.inserts++
	if c.inserts%purgeEvery == 0 {
		c.cleanup()
	}
}

// cleanup removes expired entries; callers hold the write lock
func (c *Cached) cleanup() {
	now := c.now()
	for text, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, text)
		}
	}
}

// Len reports the number of cached entries, expired ones included.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
