package memory

import (
	"context"

	"github.com/fxsml/enroute"
)

// Publisher publishes events to one channel of an in-process [Broker].
type Publisher struct {
	channel    string
	dispatcher *dispatcher
}

// Publish implements enroute.Publisher. It fans the event out to every
// consumer group registered on the channel and returns once each group has
// enqueued its copy; with no groups registered the event is dropped
// without error. Dispatch to a dead subscriber slot fails with an
// unknown-kind error.
func (p *Publisher) Publish(ctx context.Context, event *enroute.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.dispatcher.publish(p.channel, event)
}
