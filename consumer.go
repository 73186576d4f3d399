package enroute

import "context"

// ConsumerOptions configures a consumer created by a [Broker].
type ConsumerOptions struct {
	// Channel is the channel events are consumed from.
	Channel string
	// ConsumerTag names the competing-consumer group. Consumers sharing a
	// tag on the same channel split the event stream; distinct tags each
	// receive a full copy.
	ConsumerTag string
}

// Delivery is one element of a consumer's event stream: either an envelope
// or a stream error, never both. Errors do not terminate the stream; the
// caller decides whether to keep consuming.
type Delivery struct {
	Envelope *Envelope
	Err      error
}

// Consumer streams incoming event deliveries.
type Consumer interface {
	// StreamEvents returns an unbounded stream of deliveries. Each call
	// starts a fresh subscription. The returned channel is closed when ctx
	// is canceled; individual transport failures are yielded as [Delivery]
	// errors with the [ErrConsumer] kind rather than closing the stream.
	StreamEvents(ctx context.Context) (<-chan Delivery, error)
}
