package enroute

import "context"

// PublisherOptions configures a publisher created by a [Broker].
type PublisherOptions struct {
	// Channel is the channel events are published to.
	Channel string
}

// Publisher publishes events to a single channel.
type Publisher interface {
	// Publish sends the event to the publisher's channel. Errors are
	// returned per call with no implicit retry; transport failures carry
	// the [ErrPublisher] kind.
	Publish(ctx context.Context, event *Event) error
}
