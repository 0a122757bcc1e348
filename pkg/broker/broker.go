package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Event is the envelope written to the message bus.
type Event struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent marshals payload into a fresh envelope.
func NewEvent(eventType string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, key string, event Event) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, string, Event) error { return nil }
func (nopPublisher) Close() error                                  { return nil }
