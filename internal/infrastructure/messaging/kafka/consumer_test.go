package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

// scriptedReader feeds a fixed message sequence, then blocks until the
// context is canceled.
type scriptedReader struct {
	messages  []kafka.Message
	committed []kafka.Message
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *scriptedReader) Close() error { return nil }

func encodeItem(t *testing.T, msg ItemMessage) kafka.Message {
	t.Helper()
	value, err := json.Marshal(msg)
	require.NoError(t, err)
	return kafka.Message{Topic: DefaultItemsTopic, Value: value}
}

func TestConsumerDispatchesAndCommits(t *testing.T) {
	t.Parallel()

	reader := &scriptedReader{messages: []kafka.Message{
		encodeItem(t, ItemMessage{ItemID: common.ID("a"), ProductName: "沈香 香水"}),
		encodeItem(t, ItemMessage{ItemID: common.ID("b"), ProductName: "白檀線香"}),
	}}
	c := newConsumerWithReader(reader, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var handled []ItemMessage
	err := c.Run(ctx, func(_ context.Context, msg ItemMessage) error {
		handled = append(handled, msg)
		if len(handled) == 2 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)

	require.Len(t, handled, 2)
	assert.Equal(t, common.ID("a"), handled[0].ItemID)
	assert.Len(t, reader.committed, 2)
	assert.Equal(t, int64(2), c.Processed())
}

func TestConsumerLeavesFailedMessageUncommitted(t *testing.T) {
	t.Parallel()

	reader := &scriptedReader{messages: []kafka.Message{
		encodeItem(t, ItemMessage{ItemID: common.ID("bad"), ProductName: "沈香 香水"}),
		encodeItem(t, ItemMessage{ItemID: common.ID("good"), ProductName: "白檀線香"}),
	}}
	c := newConsumerWithReader(reader, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seen := 0
	err := c.Run(ctx, func(_ context.Context, msg ItemMessage) error {
		seen++
		if seen == 2 {
			cancel()
		}
		if msg.ItemID == "bad" {
			return errors.New(errors.ErrCodeClassificationFailed, "boom")
		}
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, reader.committed, 1)
	assert.Equal(t, int64(1), c.Processed())
	assert.Equal(t, int64(1), c.Failed())
}

func TestConsumerDropsUndecodableMessage(t *testing.T) {
	t.Parallel()

	reader := &scriptedReader{messages: []kafka.Message{
		{Topic: DefaultItemsTopic, Value: []byte("not json")},
		encodeItem(t, ItemMessage{ItemID: common.ID("ok"), ProductName: "沈香 香水"}),
	}}
	c := newConsumerWithReader(reader, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := c.Run(ctx, func(_ context.Context, msg ItemMessage) error {
		cancel()
		return nil
	})
	require.NoError(t, err)

	// Both the poison pill and the good message end up committed.
	assert.Len(t, reader.committed, 2)
	assert.Equal(t, int64(1), c.Failed())
}

// signalingReader reports when the consumer loop has reached its first fetch.
type signalingReader struct {
	scriptedReader
	fetching chan struct{}
	once     sync.Once
}

func (r *signalingReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.once.Do(func() { close(r.fetching) })
	return r.scriptedReader.FetchMessage(ctx)
}

func TestConsumerRejectsDoubleRun(t *testing.T) {
	t.Parallel()

	reader := &signalingReader{fetching: make(chan struct{})}
	c := newConsumerWithReader(reader, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx, func(context.Context, ItemMessage) error { return nil }) }()

	<-reader.fetching
	err := c.Run(ctx, func(context.Context, ItemMessage) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

//Personal.AI order the ending
