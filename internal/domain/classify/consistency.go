package classify

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CanonicalProductName reduces a product name to its canonical identity: the
// sorted join of its distinctive tokens.  Variant attributes (size, color,
// gender/age, quantity) and short ASCII noise are dropped, so
// "沈香香水 M" and "沈香香水 L" canonicalize identically and share one
// classification inside a batch.
func CanonicalProductName(name string) string {
	tokens := FilterDistinctive(Tokenize(name))
	return strings.Join(tokens, " ")
}

// CacheKey builds the consistency-cache key for a maker/product pair.  The
// maker side is normalized, not tokenized: distinct makers must never
// collide, even when their names share all identity tokens.
func CacheKey(maker, productName string) string {
	return Normalize(maker) + "::" + CanonicalProductName(productName)
}

// BatchCache deduplicates classification work inside one batch: items that
// canonicalize to the same maker/product identity compute once and share the
// result, which both saves research calls and guarantees identical verdicts
// for variant rows of the same product.
//
// The cache is scoped to a single batch and discarded afterwards — it is a
// consistency mechanism, not a persistence layer.  All methods are safe for
// concurrent use by the batch workers.
type BatchCache struct {
	mu      sync.Mutex
	results map[string]interface{}
	group   singleflight.Group
}

// NewBatchCache returns an empty cache ready for one batch.
func NewBatchCache() *BatchCache {
	return &BatchCache{results: make(map[string]interface{})}
}

// GetOrCompute returns the cached value for key, computing it at most once
// across all concurrent callers.  A compute error is returned to every
// caller of that flight and nothing is cached, so a transient failure does
// not poison the rest of the batch.
func (c *BatchCache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if v, ok := c.results[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.Lock()
		if cached, ok := c.results[key]; ok {
			c.mu.Unlock()
			return cached, nil
		}
		c.mu.Unlock()

		result, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.results[key] = result
		c.mu.Unlock()
		return result, nil
	})
	return v, err
}

// Len returns the number of distinct identities computed so far.
func (c *BatchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Reset clears the cache for reuse with a new batch.
func (c *BatchCache) Reset() {
	c.mu.Lock()
	c.results = make(map[string]interface{})
	c.mu.Unlock()
}

//Personal.AI order the ending
