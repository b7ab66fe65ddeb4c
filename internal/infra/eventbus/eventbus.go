package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	// Topic carries every event published in-process.
	Topic = "shortview.events"

	outputBuffer = 256
)

// Event is a message that can travel over the bus.
type Event interface {
	EventID() string
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventBus wraps Watermill pub/sub over Go channels.
type EventBus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewEventBus creates a new event bus using Go channels.
func NewEventBus(logger watermill.LoggerAdapter) *EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: outputBuffer,
			Persistent:          false,
		},
		logger,
	)

	return &EventBus{
		pubsub: pubsub,
		logger: logger,
	}
}

// Publisher returns the Watermill publisher.
func (b *EventBus) Publisher() message.Publisher {
	return b.pubsub
}

// Subscriber returns the Watermill subscriber.
func (b *EventBus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Publish publishes an event to the bus.
func (b *EventBus) Publish(ctx context.Context, e Event) error {
	msg, err := EventToMessage(e)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	return b.pubsub.Publish(Topic, msg)
}

// Close closes the event bus.
func (b *EventBus) Close() error {
	return b.pubsub.Close()
}

// EventEnvelope wraps an event for serialization.
type EventEnvelope struct {
	EventID     string          `json:"event_id"`
	EventName   string          `json:"event_name"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into v.
func (e *EventEnvelope) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// EventToMessage converts an event to a Watermill message.
func EventToMessage(e Event) (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(EventEnvelope{
		EventID:     e.EventID(),
		EventName:   e.EventName(),
		AggregateID: e.AggregateID(),
		OccurredAt:  e.OccurredAt(),
		Payload:     payload,
	})
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(e.EventID(), data)
	msg.Metadata.Set("event_name", e.EventName())
	msg.Metadata.Set("aggregate_id", e.AggregateID())

	return msg, nil
}

// MessageToEnvelope extracts the event envelope from a Watermill message.
func MessageToEnvelope(msg *message.Message) (*EventEnvelope, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}
