package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// DefaultQueueSize bounds the events waiting to be written.
const DefaultQueueSize = 1000

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes events to Kafka from a background loop. Produce never
// blocks: when the queue is full the event is dropped with a warning.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

// ProducerConfig describes where events are written.
type ProducerConfig struct {
	Brokers    []string
	Topic      string
	Partitions int
	QueueSize  int
}

// NewProducer ensures the topic exists and starts the write loop.
func NewProducer(cfg ProducerConfig, logger *zap.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	logger = logger.Named("kafka_producer")

	conn, err := kafka.Dial("tcp", cfg.Brokers[0])
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	partitions := cfg.Partitions
	if partitions <= 0 {
		partitions = 3
	}
	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.String("topic", cfg.Topic), zap.Error(err))
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Balancer: &kafka.Hash{},
		Topic:    cfg.Topic,
	}
	return newProducer(writer, cfg.QueueSize, logger), nil
}

func newProducer(writer KafkaWriter, queueSize int, logger *zap.Logger) *Producer {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	p := &Producer{
		writer:    writer,
		events:    make(chan Event, queueSize),
		logger:    logger,
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

func (p *Producer) Produce(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("resource", string(event.Resource)),
			zap.String("id", event.ID.String()),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			// Flush what was queued before Close.
			for {
				select {
				case event := <-p.events:
					p.sendEvent(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("id", event.ID.String()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("resource", string(event.Resource)),
			zap.String("id", event.ID.String()),
		)
	}
}

// Close drains the queue and closes the writer.
func (p *Producer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
