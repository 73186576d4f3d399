package memory

import (
	"context"
	"weak"

	"github.com/fxsml/enroute"
)

// Consumer streams events from one (channel, consumer tag) pair of an
// in-process [Broker].
type Consumer struct {
	channel    string
	tag        string
	requeue    bool
	dispatcher *dispatcher
}

// StreamEvents implements enroute.Consumer. Each call registers a fresh
// subscriber in the consumer group, taking the next round-robin slot.
//
// The stream closes when ctx is canceled. The subscriber slot itself is
// never released: the group keeps routing the slot's round-robin share to
// it, and publishers see an unknown-kind error for those dispatches.
func (c *Consumer) StreamEvents(ctx context.Context) (<-chan enroute.Delivery, error) {
	sub := c.dispatcher.register(c.channel, c.tag)
	weakDispatcher := weak.Make(c.dispatcher)
	out := make(chan enroute.Delivery)

	go func() {
		defer close(out)
		defer sub.close()

		for {
			for _, event := range sub.drain() {
				envelope := enroute.NewEnvelope(event, newAcker(
					weakDispatcher,
					c.channel,
					event,
					c.requeue,
				))
				select {
				case out <- enroute.Delivery{Envelope: envelope}:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-sub.wake:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
