// Package messaging carries domain events between modules. The identity
// module publishes, the notification module consumes, and the broker in
// between (NSQ, NATS, Kafka or Google Pub/Sub) is a config choice.
package messaging

import (
	"context"
	"io"
	"time"
)

// Messaging is the broker-agnostic client the modules depend on.
type Messaging interface {
	io.Closer

	// Publish delivers an event to a topic. Delivery is at-least-once;
	// consumers own deduplication.
	Publish(ctx context.Context, topic string, msg OutgoingMessage) error

	// Consume blocks, feeding messages from a topic to the handler until
	// the context is cancelled.
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one received message. With auto-ack enabled the driver
// acks on a nil return and nacks otherwise; a handler that acked or nacked
// itself is left alone.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is an event about to be published.
type OutgoingMessage struct {
	// Body is the serialized event payload.
	Body []byte

	// Key selects the partition on Kafka; other brokers ignore it.
	Key []byte

	// Headers travel with the payload. Brokers without native headers map
	// them onto their closest equivalent or drop them.
	Headers []Header
}

// Header is one key/value pair attached to a message.
type Header struct {
	Key   string
	Value []byte
}

// Message is a received event.
type Message interface {
	// Body returns the event payload.
	Body() []byte
	// Headers returns the headers published with the event, when the
	// broker preserved them.
	Headers() []Header
	// ID returns a broker-assigned identifier, empty when the broker has
	// none.
	ID() string
	// Timestamp returns when the broker accepted or delivered the event.
	Timestamp() time.Time

	// Ack marks the message processed. Acking twice is a no-op.
	Ack(ctx context.Context) error
	// Nack asks the broker to redeliver. Nacking after an ack is a no-op.
	Nack(ctx context.Context) error
}
