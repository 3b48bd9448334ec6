package classify_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
)

func TestCanonicalProductName(t *testing.T) {
	t.Parallel()

	t.Run("size variants collapse", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t,
			classify.CanonicalProductName("沈香香水 M"),
			classify.CanonicalProductName("沈香香水 L"))
	})

	t.Run("color variants collapse", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t,
			classify.CanonicalProductName("財布 ブラック"),
			classify.CanonicalProductName("財布 レッド"))
	})

	t.Run("word order does not matter", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t,
			classify.CanonicalProductName("香水 沈香"),
			classify.CanonicalProductName("沈香 香水"))
	})

	t.Run("different products stay apart", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t,
			classify.CanonicalProductName("沈香香水"),
			classify.CanonicalProductName("白檀香水"))
	})

	t.Run("all variant tokens yields empty canonical", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", classify.CanonicalProductName("メンズ XL ブラック"))
	})
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		classify.CacheKey("山田香料", "沈香香水 M"),
		classify.CacheKey("山田香料", "沈香香水 L"))

	// The maker side is normalized, never canonicalized, so distinct
	// makers with the same product never share a key.
	assert.NotEqual(t,
		classify.CacheKey("山田香料", "沈香香水"),
		classify.CacheKey("佐藤香料", "沈香香水"))

	assert.Equal(t,
		classify.CacheKey("Ｙａｍａｄａ", "沈香香水"),
		classify.CacheKey("yamada", "沈香香水"))
}

func TestBatchCacheComputesOnce(t *testing.T) {
	t.Parallel()

	cache := classify.NewBatchCache()
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.GetOrCompute(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
				calls.Add(1)
				return "verdict", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "verdict", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestBatchCacheErrorNotCached(t *testing.T) {
	t.Parallel()

	cache := classify.NewBatchCache()
	boom := errors.New("research provider unavailable")
	var calls atomic.Int32

	_, err := cache.GetOrCompute(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())

	v, err := cache.GetOrCompute(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestBatchCacheKeysIndependent(t *testing.T) {
	t.Parallel()

	cache := classify.NewBatchCache()
	a, err := cache.GetOrCompute(context.Background(), "a", func(ctx context.Context) (interface{}, error) {
		return "A", nil
	})
	require.NoError(t, err)
	b, err := cache.GetOrCompute(context.Background(), "b", func(ctx context.Context) (interface{}, error) {
		return "B", nil
	})
	require.NoError(t, err)

	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)
	assert.Equal(t, 2, cache.Len())
}

func TestBatchCacheReset(t *testing.T) {
	t.Parallel()

	cache := classify.NewBatchCache()
	var calls atomic.Int32
	compute := func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		return "v", nil
	}

	_, err := cache.GetOrCompute(context.Background(), "k", compute)
	require.NoError(t, err)
	cache.Reset()
	assert.Equal(t, 0, cache.Len())

	_, err = cache.GetOrCompute(context.Background(), "k", compute)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

//Personal.AI order the ending
