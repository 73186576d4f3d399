// Package enroute provides a backend-agnostic messaging abstraction built
// around a CloudEvents-shaped event envelope.
//
// The package defines three small capability contracts — [Publisher],
// [Consumer] and [Broker] — plus the [Event] data model they exchange.
// Concrete transports implement the contracts in subpackages:
//
//   - [memory] — in-process reference broker with consumer-group fanout,
//     round-robin delivery and requeue-on-nack redelivery
//   - [redis] — Redis Streams backend with native acknowledgment
//
// # Quick Start
//
//	broker := memory.NewBroker(memory.Config{RequeueOnNack: true})
//
//	pub, _ := broker.Publisher(ctx, enroute.PublisherOptions{Channel: "orders"})
//	con, _ := broker.Consumer(ctx, enroute.ConsumerOptions{
//		Channel:     "orders",
//		ConsumerTag: "billing",
//	})
//
//	deliveries, _ := con.StreamEvents(ctx)
//
//	event, _ := enroute.NewBuilder().
//		Source("/checkout").
//		Build(OrderPlaced{ID: "o-1"})
//	_ = pub.Publish(ctx, event)
//
//	for d := range deliveries {
//		if d.Err != nil {
//			continue
//		}
//		order, err := enroute.DataAs[OrderPlaced](d.Envelope.Event())
//		if err != nil {
//			d.Envelope.Nack()
//			continue
//		}
//		process(order)
//		d.Envelope.Ack()
//	}
//
// # Delivery Semantics
//
// Every consumer tag registered on a channel receives a copy of every
// published event (multicast across tags); subscribers sharing a tag split
// the stream round-robin (competing consumers). Acknowledgment is
// at-least-once: a negatively acknowledged delivery may be re-published,
// depending on the backend and its configuration. Nothing is persisted
// across process restarts and there is no exactly-once mode.
//
// # Design Notes
//
// Concrete brokers return their own publisher and consumer types. Use
// [AsBroker] to erase a concrete broker behind the uniform [Broker]
// interface when code must hold "some broker" without knowing the backend.
//
// [memory]: https://pkg.go.dev/github.com/fxsml/enroute/memory
// [redis]: https://pkg.go.dev/github.com/fxsml/enroute/redis
package enroute
