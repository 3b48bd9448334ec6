package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

type capturingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducerPublishItems(t *testing.T) {
	t.Parallel()

	writer := &capturingWriter{}
	p := newProducerWithWriter(writer, DefaultItemsTopic, DefaultResultsTopic, logging.NewNopLogger())

	batchID := common.NewID()
	msgs := []ItemMessage{
		{BatchID: batchID, ItemID: common.NewID(), ProductName: "沈香 香水", EnqueuedAt: time.Now()},
		{BatchID: batchID, ItemID: common.NewID(), ProductName: "白檀線香", EnqueuedAt: time.Now()},
	}
	require.NoError(t, p.PublishItems(context.Background(), msgs))

	require.Len(t, writer.messages, 2)
	assert.Equal(t, DefaultItemsTopic, writer.messages[0].Topic)
	// Batch-keyed so the whole batch shares one partition.
	assert.Equal(t, []byte(batchID), writer.messages[0].Key)
	assert.Equal(t, writer.messages[0].Key, writer.messages[1].Key)

	var decoded ItemMessage
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, "沈香 香水", decoded.ProductName)
	assert.Equal(t, int64(2), p.Sent())
}

func TestProducerPublishResult(t *testing.T) {
	t.Parallel()

	writer := &capturingWriter{}
	p := newProducerWithWriter(writer, DefaultItemsTopic, DefaultResultsTopic, logging.NewNopLogger())

	score := 85
	msg := ResultMessage{
		BatchID:    common.NewID(),
		ItemID:     common.NewID(),
		Score:      &score,
		RiskLevel:  "low",
		FinishedAt: time.Now(),
	}
	require.NoError(t, p.PublishResult(context.Background(), msg))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, DefaultResultsTopic, writer.messages[0].Topic)
}

func TestProducerClosed(t *testing.T) {
	t.Parallel()

	writer := &capturingWriter{}
	p := newProducerWithWriter(writer, DefaultItemsTopic, DefaultResultsTopic, logging.NewNopLogger())
	require.NoError(t, p.Close())
	assert.True(t, writer.closed)

	err := p.PublishResult(context.Background(), ResultMessage{})
	assert.ErrorIs(t, err, ErrProducerClosed)

	// Closing twice is a no-op.
	assert.NoError(t, p.Close())
}

func TestProducerWriteFailure(t *testing.T) {
	t.Parallel()

	writer := &capturingWriter{err: errors.New(errors.ErrCodeExternalService, "broker unreachable")}
	p := newProducerWithWriter(writer, DefaultItemsTopic, DefaultResultsTopic, logging.NewNopLogger())

	err := p.PublishItems(context.Background(), []ItemMessage{{BatchID: common.NewID()}})
	require.Error(t, err)
	assert.Equal(t, int64(0), p.Sent())
}

//Personal.AI order the ending
