package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded event. A returned error leaves the message
// uncommitted.
type Handler func(context.Context, Event) error

type Consumer struct {
	reader  KafkaReader
	logger  *zap.Logger
	handler Handler
	// retry spaces fetch attempts after a failure.
	retry backoff.BackOff
}

func newRetryPolicy() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = 0
	return policy
}

// NewConsumer reads topic as a member of groupID.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			Dialer:  kafka.DefaultDialer,
		}),
		logger: logger.Named("kafka_consumer"),
		retry:  newRetryPolicy(),
	}
}

func (c *Consumer) RegisterHandler(fn Handler) {
	c.handler = fn
}

// Run consumes until ctx is done or the reader is closed. Malformed and
// failed messages are logged and skipped. Fetch failures are retried with
// exponential backoff.
func (c *Consumer) Run(ctx context.Context) error {
	if c.handler == nil {
		return errors.New("no event handler registered")
	}
	if c.retry == nil {
		c.retry = newRetryPolicy()
	}
	c.retry.Reset()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				c.logger.Info("Kafka reader closed")
				return nil
			}
			wait := c.retry.NextBackOff()
			c.logger.Error("Failed to fetch message", zap.Error(err), zap.Duration("retry_in", wait))
			if wait == backoff.Stop {
				return err
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		c.retry.Reset()

		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error("Failed to parse event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := c.handler(ctx, event); err != nil {
			c.logger.Error("Failed to handle event",
				zap.Error(err),
				zap.String("event_type", string(event.Type)),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message",
				zap.Error(err),
				zap.String("event_type", string(event.Type)),
			)
		}
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", zap.Error(err))
	}
}
