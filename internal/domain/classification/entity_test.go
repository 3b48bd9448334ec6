package classification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classification"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

func TestItemValidate(t *testing.T) {
	t.Parallel()

	item := &classification.Item{ProductName: "沈香香水"}
	assert.NoError(t, item.Validate())

	empty := &classification.Item{ProductName: "   "}
	err := empty.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestItemCacheKeySharedAcrossVariants(t *testing.T) {
	t.Parallel()

	m := &classification.Item{ProductName: "沈香香水 M", MakerName: "山田香料"}
	l := &classification.Item{ProductName: "沈香香水 L", MakerName: "山田香料"}
	other := &classification.Item{ProductName: "沈香香水 M", MakerName: "佐藤香料"}

	assert.Equal(t, m.CacheKey(), l.CacheKey())
	assert.NotEqual(t, m.CacheKey(), other.CacheKey())
}

func TestItemQueryText(t *testing.T) {
	t.Parallel()

	bare := &classification.Item{ProductName: "沈香香水"}
	assert.Equal(t, "沈香香水", bare.QueryText())

	described := &classification.Item{ProductName: "沈香香水", Description: "天然沈香使用"}
	assert.Equal(t, "沈香香水 天然沈香使用", described.QueryText())
}

func TestBatchTransitions(t *testing.T) {
	t.Parallel()

	b := classification.NewBatch(10)
	assert.Equal(t, classification.BatchStatusPending, b.Status)
	assert.Nil(t, b.StartedAt)

	require.NoError(t, b.Transition(classification.BatchStatusRunning))
	assert.NotNil(t, b.StartedAt)

	require.NoError(t, b.Transition(classification.BatchStatusCompleted))
	assert.NotNil(t, b.FinishedAt)

	// Terminal: no way out.
	err := b.Transition(classification.BatchStatusRunning)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBatchAlreadyClosed))
}

func TestBatchIllegalSkip(t *testing.T) {
	t.Parallel()

	b := classification.NewBatch(1)
	err := b.Transition(classification.BatchStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, classification.BatchStatusPending, b.Status)
}

func TestBatchProgress(t *testing.T) {
	t.Parallel()

	b := classification.NewBatch(4)
	assert.Equal(t, 0.0, b.Progress())

	b.DoneItems = 2
	b.FailedItems = 1
	assert.InDelta(t, 0.75, b.Progress(), 1e-9)

	empty := classification.NewBatch(0)
	assert.Equal(t, 1.0, empty.Progress())
}

//Personal.AI order the ending
