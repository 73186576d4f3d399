package enroute

import "context"

// Broker is the uniform, backend-erased broker handle: a factory producing
// publishers and consumers for given options.
//
// Concrete backends expose their own publisher and consumer types and
// therefore do not implement Broker directly; wrap them with [AsBroker].
type Broker interface {
	// Publisher creates a publisher for the given options.
	Publisher(ctx context.Context, options PublisherOptions) (Publisher, error)
	// Consumer creates a consumer for the given options.
	Consumer(ctx context.Context, options ConsumerOptions) (Consumer, error)
}

// BrokerBuilder validates configuration and constructs a broker. Missing
// required configuration fails with the [ErrBuilder] kind.
type BrokerBuilder interface {
	Build(ctx context.Context) (Broker, error)
}

// Pair creates a publisher and consumer pair from one broker.
func Pair(ctx context.Context, broker Broker, po PublisherOptions, co ConsumerOptions) (Publisher, Consumer, error) {
	publisher, err := broker.Publisher(ctx, po)
	if err != nil {
		return nil, nil, err
	}
	consumer, err := broker.Consumer(ctx, co)
	if err != nil {
		return nil, nil, err
	}
	return publisher, consumer, nil
}

// TypedBroker is the contract concrete backends implement: a broker whose
// factory methods return the backend's own publisher and consumer types.
// This keeps backend APIs precise (callers of memory.Broker get
// *memory.Consumer, not an interface) while [AsBroker] provides the erased
// view.
type TypedBroker[P Publisher, C Consumer] interface {
	Publisher(ctx context.Context, options PublisherOptions) (P, error)
	Consumer(ctx context.Context, options ConsumerOptions) (C, error)
}

// AsBroker erases a concrete broker behind the uniform [Broker] interface.
// The adapter forwards every call unchanged and adds no behavior; multiple
// holders may share the returned handle.
func AsBroker[P Publisher, C Consumer](broker TypedBroker[P, C]) Broker {
	return &brokerAdapter[P, C]{inner: broker}
}

// TypedBrokerBuilder is the builder counterpart of [TypedBroker]: a builder
// whose Build returns the backend's own broker type.
type TypedBrokerBuilder[P Publisher, C Consumer, B TypedBroker[P, C]] interface {
	Build(ctx context.Context) (B, error)
}

// AsBrokerBuilder erases a concrete broker builder behind the uniform
// [BrokerBuilder] interface. The built broker is erased with [AsBroker].
func AsBrokerBuilder[P Publisher, C Consumer, B TypedBroker[P, C]](builder TypedBrokerBuilder[P, C, B]) BrokerBuilder {
	return brokerBuilderFunc(func(ctx context.Context) (Broker, error) {
		broker, err := builder.Build(ctx)
		if err != nil {
			return nil, err
		}
		return AsBroker[P, C](broker), nil
	})
}

type brokerBuilderFunc func(ctx context.Context) (Broker, error)

func (f brokerBuilderFunc) Build(ctx context.Context) (Broker, error) {
	return f(ctx)
}

type brokerAdapter[P Publisher, C Consumer] struct {
	inner TypedBroker[P, C]
}

func (a *brokerAdapter[P, C]) Publisher(ctx context.Context, options PublisherOptions) (Publisher, error) {
	return a.inner.Publisher(ctx, options)
}

func (a *brokerAdapter[P, C]) Consumer(ctx context.Context, options ConsumerOptions) (Consumer, error) {
	return a.inner.Consumer(ctx, options)
}
