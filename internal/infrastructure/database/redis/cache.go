package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classification"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

const defaultResultTTL = 24 * time.Hour

// ResultCache persists classification verdicts across batches, keyed by the
// consistency cache key.  A hit means the same maker/product identity was
// classified recently, so research and scoring are skipped entirely.
//
// The cache is an accelerator, never a source of truth: misses and decode
// failures degrade to a fresh computation.
type ResultCache struct {
	client *Client
	prefix string
	ttl    time.Duration
	logger logging.Logger
}

// NewResultCache constructs a result cache on top of an open client.
func NewResultCache(client *Client, keyPrefix string, ttl time.Duration, log logging.Logger) *ResultCache {
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &ResultCache{
		client: client,
		prefix: keyPrefix + "result:",
		ttl:    ttl,
		logger: log.Named("result_cache"),
	}
}

// Get fetches a cached verdict; (nil, false, nil) on miss.
func (c *ResultCache) Get(ctx context.Context, key string) (*classification.Result, bool, error) {
	data, err := c.client.Raw().Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeCacheError, "result cache read failed")
	}

	var result classification.Result
	if err := json.Unmarshal(data, &result); err != nil {
		// A corrupt entry must not block classification; drop it.
		c.logger.Warn("dropping undecodable cache entry", logging.Err(err))
		_ = c.client.Raw().Del(ctx, c.prefix+key).Err()
		return nil, false, nil
	}
	return &result, true, nil
}

// Set stores a verdict with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, key string, r *classification.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode result for cache")
	}
	if err := c.client.Raw().Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "result cache write failed")
	}
	return nil
}

//Personal.AI order the ending
