// Package events publishes entity change notifications to Kafka and reads
// them back.
package events

import (
	"time"

	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
)

type EventType string

const (
	Created EventType = "created"
	Updated EventType = "updated"
	Deleted EventType = "deleted"
)

// Event describes one committed write on an entity.
type Event struct {
	Type       EventType       `json:"type"`
	Resource   models.Resource `json:"resource"`
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New returns an event stamped with the current UTC time.
func New(eventType EventType, resource models.Resource, id uuid.UUID, name string) Event {
	return Event{
		Type:       eventType,
		Resource:   resource,
		ID:         id,
		Name:       name,
		OccurredAt: time.Now().UTC(),
	}
}

// Key is the Kafka message key. Events of one entity share a partition.
func (e Event) Key() string {
	return string(e.Resource) + "/" + e.ID.String()
}

// NopProducer discards every event. It is used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Produce(Event) {}

func (NopProducer) Close() {}
