package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestNewProducerWithoutBrokers(t *testing.T) {
	_, err := NewProducer(ProducerConfig{Topic: "crm.events"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestEventKey(t *testing.T) {
	id := uuid.New()
	event := New(Created, models.CompaniesResource, id, "Acme")

	assert.Equal(t, "companies/"+id.String(), event.Key())
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		producer := &Producer{
			events: make(chan Event, 1),
			logger: zaptest.NewLogger(t),
		}

		producer.Produce(New(Created, models.CompaniesResource, uuid.New(), "Acme"))

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{
			events: make(chan Event, 1),
			logger: zap.New(core),
		}
		event := New(Created, models.EmployeesResource, uuid.New(), "Ann")

		producer.Produce(event)
		producer.Produce(event)

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("resource", "employees")).Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	event := New(Updated, models.ProfessionsResource, uuid.New(), "Engineer")

	producer := &Producer{
		writer: mockWriter,
		logger: zaptest.NewLogger(t),
	}

	t.Run("successful send", func(t *testing.T) {
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte(event.Key()),
				Value: mustMarshal(t, event),
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("id", event.ID.String())).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)
		mockWriter.ExpectedCalls = nil
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_CloseFlushesQueue(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, 10, zaptest.NewLogger(t))
	for i := 0; i < 3; i++ {
		producer.Produce(New(Deleted, models.CompaniesResource, uuid.New(), ""))
	}

	producer.Close()

	mockWriter.AssertNumberOfCalls(t, "WriteMessages", 3)
	mockWriter.AssertCalled(t, "Close")
	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}
}

func TestNopProducer(t *testing.T) {
	var p NopProducer
	assert.NotPanics(t, func() {
		p.Produce(New(Created, models.CompaniesResource, uuid.New(), "Acme"))
		p.Close()
	})
}

func mustMarshal(t *testing.T, event Event) []byte {
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}
