package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/HSCode-Intelligence/internal/config"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

// ErrAlreadyRunning is returned by Run when the consumer loop is active.
var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// ItemHandler processes one decoded item message.  A returned error leaves
// the message uncommitted so it is redelivered after a rebalance.
type ItemHandler func(ctx context.Context, msg ItemMessage) error

// readerInterface abstracts kafka.Reader for testing.
type readerInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads the items topic and dispatches each message to the handler
// with manual offset commits, so a crash mid-item never loses work.
type Consumer struct {
	reader  readerInterface
	logger  logging.Logger
	running atomic.Bool
	wg      sync.WaitGroup

	processed atomic.Int64
	failed    atomic.Int64
}

// NewConsumer constructs a consumer from the Kafka configuration section.
func NewConsumer(cfg config.KafkaConfig, log logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       topicOrDefault(cfg.ItemsTopic, DefaultItemsTopic),
		StartOffset: kafka.FirstOffset,
	})
	return &Consumer{reader: reader, logger: log.Named("kafka_consumer")}
}

// newConsumerWithReader injects a reader (for testing).
func newConsumerWithReader(r readerInterface, log logging.Logger) *Consumer {
	return &Consumer{reader: r, logger: log}
}

// Run consumes until the context is canceled.  Undecodable messages are
// committed and dropped (retrying cannot fix them); handler failures leave
// the offset uncommitted.
func (c *Consumer) Run(ctx context.Context, handler ItemHandler) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.wg.Add(1)
	defer c.wg.Done()

	for {
		record, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeExternalService, "failed to fetch message")
		}

		var msg ItemMessage
		if err := json.Unmarshal(record.Value, &msg); err != nil {
			c.failed.Add(1)
			c.logger.Error("dropping undecodable item message",
				logging.String("topic", record.Topic),
				logging.Int64("offset", record.Offset),
				logging.Err(err),
			)
			_ = c.reader.CommitMessages(ctx, record)
			continue
		}

		if err := handler(ctx, msg); err != nil {
			c.failed.Add(1)
			c.logger.Warn("item handler failed; message left uncommitted",
				logging.String("item_id", string(msg.ItemID)),
				logging.Err(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, record); err != nil {
			c.logger.Warn("offset commit failed", logging.Err(err))
			continue
		}
		c.processed.Add(1)
	}
}

// Processed returns the number of successfully handled messages.
func (c *Consumer) Processed() int64 {
	return c.processed.Load()
}

// Failed returns the number of dropped or failed messages.
func (c *Consumer) Failed() int64 {
	return c.failed.Load()
}

// Close stops the reader and waits for the loop to drain.
func (c *Consumer) Close() error {
	err := c.reader.Close()
	c.wg.Wait()
	return err
}

//Personal.AI order the ending
