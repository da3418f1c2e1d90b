// Package events defines the domain event contract shared by BIB services.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields every event serializes alongside its payload.
// Concrete events embed it and add their own exported fields.
type BaseEvent struct {
	ID        uuid.UUID `json:"event_id"`
	Type      string    `json:"event_type"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Kind      string    `json:"aggregate_type"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a BaseEvent with a generated ID stamped at occurredAt.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Aggregate: aggregateID,
		Kind:      aggregateType,
		Timestamp: occurredAt.UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseEvent) EventType() string      { return e.Type }
func (e BaseEvent) AggregateID() uuid.UUID { return e.Aggregate }
func (e BaseEvent) AggregateType() string  { return e.Kind }
func (e BaseEvent) OccurredAt() time.Time  { return e.Timestamp }

// Collector is embedded in aggregates to buffer events raised during state changes.
type Collector struct {
	pending []DomainEvent
}

// Record buffers an event.
func (c *Collector) Record(event DomainEvent) {
	c.pending = append(c.pending, event)
}

// Pending reports how many events are buffered.
func (c *Collector) Pending() int {
	return len(c.pending)
}

// Drain returns the buffered events and empties the buffer.
func (c *Collector) Drain() []DomainEvent {
	drained := c.pending
	c.pending = nil
	return drained
}
