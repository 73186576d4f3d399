// Package memory provides the in-process reference broker.
//
// The broker dispatches published events to consumer groups keyed by
// (channel, consumer tag): every tag registered on a channel receives a
// copy of every event, and subscribers sharing a tag split the stream
// round-robin in registration order. Negative acknowledgment can
// re-publish the event onto its channel when [Config.RequeueOnNack] is
// enabled.
//
// Known limitations, kept deliberately: delivery queues are unbounded (no
// backpressure), nothing survives the process, and consumer groups never
// shrink — a consumer that stops streaming keeps its round-robin slot.
package memory

import (
	"context"
	"log/slog"

	"github.com/fxsml/enroute"
	"github.com/fxsml/enroute/config"
)

// Config configures the in-process broker.
type Config struct {
	// RequeueOnNack re-publishes negatively acknowledged events onto their
	// channel. The requeued event re-enters the full multicast path, so
	// every consumer tag on the channel sees it again, not only the tag
	// that nacked.
	RequeueOnNack bool

	// Logger for broker events. Default: slog.Default().
	Logger enroute.Logger
}

func (c Config) parse() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Broker is the in-process broker. All publishers and consumers created
// from one Broker share its dispatch registry.
type Broker struct {
	config     Config
	dispatcher *dispatcher
}

// NewBroker creates an in-process broker with the given configuration.
func NewBroker(cfg Config) *Broker {
	cfg = cfg.parse()
	return &Broker{
		config:     cfg,
		dispatcher: newDispatcher(cfg.Logger),
	}
}

// Publisher creates a publisher for the given options.
func (b *Broker) Publisher(ctx context.Context, options enroute.PublisherOptions) (*Publisher, error) {
	return &Publisher{
		channel:    options.Channel,
		dispatcher: b.dispatcher,
	}, nil
}

// Consumer creates a consumer for the given options. The consumer group is
// created lazily on the first stream.
func (b *Broker) Consumer(ctx context.Context, options enroute.ConsumerOptions) (*Consumer, error) {
	return &Consumer{
		channel:    options.Channel,
		tag:        options.ConsumerTag,
		requeue:    b.config.RequeueOnNack,
		dispatcher: b.dispatcher,
	}, nil
}

// BrokerBuilder constructs an in-process broker.
type BrokerBuilder struct {
	config Config
	err    error
}

// NewBrokerBuilder returns a builder with default configuration.
func NewBrokerBuilder() *BrokerBuilder {
	return &BrokerBuilder{}
}

// WithRequeueOnNack toggles requeue-on-nack redelivery.
func (b *BrokerBuilder) WithRequeueOnNack(requeue bool) *BrokerBuilder {
	b.config.RequeueOnNack = requeue
	return b
}

// WithLogger sets the broker logger.
func (b *BrokerBuilder) WithLogger(logger enroute.Logger) *BrokerBuilder {
	b.config.Logger = logger
	return b
}

// FromEnv loads configuration from ENROUTE_MEMORY_* environment variables,
// e.g. ENROUTE_MEMORY_REQUEUE_ON_NACK=true. A load failure is deferred and
// returned by Build with the builder error kind.
func (b *BrokerBuilder) FromEnv() *BrokerBuilder {
	if err := (config.Loader{}).Load("memory", &b.config); err != nil {
		b.err = enroute.BuilderError(err)
	}
	return b
}

// Build constructs the broker.
func (b *BrokerBuilder) Build(ctx context.Context) (*Broker, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewBroker(b.config), nil
}
