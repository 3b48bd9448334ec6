package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/HSCode-Intelligence/internal/config"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

// ErrProducerClosed is returned when publishing on a closed producer.
var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "kafka producer is closed")

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes item and result messages.  Messages are hashed by key so
// all items of one batch share a partition.
type Producer struct {
	writer       writerInterface
	itemsTopic   string
	resultsTopic string
	logger       logging.Logger
	closed       atomic.Bool
	sent         atomic.Int64
}

// NewProducer constructs a producer from the Kafka configuration section.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}
	return &Producer{
		writer:       writer,
		itemsTopic:   topicOrDefault(cfg.ItemsTopic, DefaultItemsTopic),
		resultsTopic: topicOrDefault(cfg.ResultsTopic, DefaultResultsTopic),
		logger:       log.Named("kafka_producer"),
	}
}

// newProducerWithWriter injects a writer (for testing).
func newProducerWithWriter(w writerInterface, itemsTopic, resultsTopic string, log logging.Logger) *Producer {
	return &Producer{
		writer:       w,
		itemsTopic:   itemsTopic,
		resultsTopic: resultsTopic,
		logger:       log,
	}
}

// PublishItems enqueues a batch's items for background classification.
func (p *Producer) PublishItems(ctx context.Context, msgs []ItemMessage) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if len(msgs) == 0 {
		return nil
	}

	records := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		value, err := json.Marshal(m)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode item message")
		}
		records = append(records, kafka.Message{
			Topic: p.itemsTopic,
			Key:   []byte(m.BatchID),
			Value: value,
		})
	}

	if err := p.writer.WriteMessages(ctx, records...); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to publish item messages")
	}
	p.sent.Add(int64(len(records)))
	p.logger.Debug("published item messages",
		logging.Int("count", len(records)),
		logging.String("topic", p.itemsTopic),
	)
	return nil
}

// PublishResult announces one finished verdict.
func (p *Producer) PublishResult(ctx context.Context, msg ResultMessage) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode result message")
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.resultsTopic,
		Key:   []byte(msg.BatchID),
		Value: value,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to publish result message")
	}
	p.sent.Add(1)
	return nil
}

// Sent returns the number of messages published so far.
func (p *Producer) Sent() int64 {
	return p.sent.Load()
}

// Close flushes and closes the writer; further publishes fail.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

func topicOrDefault(topic, fallback string) string {
	if topic == "" {
		return fallback
	}
	return topic
}

//Personal.AI order the ending
