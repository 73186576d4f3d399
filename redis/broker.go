// Package redis provides a Redis Streams broker backend.
//
// Channels map to streams and consumer tags map to Redis consumer groups,
// so competing-consumer delivery within a tag and multicast across tags
// are provided by Redis itself. Event attributes travel as stream fields
// ("ce-specversion", "ce-id", "ce-source", "ce-type", "ce-time",
// "ce-dataschema", "ce-datacontenttype", extensions under their own
// names) with the payload bytes in the "data" field, keeping every
// attribute addressable separately from the payload body.
//
// Acknowledgment uses the stream's pending-entries list: Ack issues XACK,
// Nack leaves the entry pending for operational reclaiming (XAUTOCLAIM);
// the broker itself does not re-deliver.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fxsml/enroute"
	"github.com/fxsml/enroute/config"
)

// Config configures the Redis broker.
type Config struct {
	// Addr is the Redis server address ("host:port"). Required.
	Addr string
	// Password authenticates the connection. Optional.
	Password string
	// DB selects the Redis database. Default: 0.
	DB int
	// BlockTimeout bounds each XREADGROUP blocking call.
	// Default: 5 seconds.
	BlockTimeout time.Duration
	// ReadCount is the maximum number of entries fetched per read.
	// Default: 16.
	ReadCount int64
	// Logger for broker events. Default: slog.Default().
	Logger enroute.Logger
}

func (c Config) parse() Config {
	if c.BlockTimeout == 0 {
		c.BlockTimeout = 5 * time.Second
	}
	if c.ReadCount == 0 {
		c.ReadCount = 16
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Broker is a Redis Streams broker. All publishers and consumers created
// from one Broker share its client connection pool.
type Broker struct {
	config Config
	client *redis.Client
}

// NewBroker creates a Redis broker with the given configuration.
func NewBroker(cfg Config) *Broker {
	cfg = cfg.parse()
	return &Broker{
		config: cfg,
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Close releases the underlying client connections.
func (b *Broker) Close() error {
	return b.client.Close()
}

// Publisher creates a publisher appending to the channel's stream.
func (b *Broker) Publisher(ctx context.Context, options enroute.PublisherOptions) (*Publisher, error) {
	return &Publisher{
		client: b.client,
		stream: options.Channel,
	}, nil
}

// Consumer creates a consumer reading through the Redis consumer group
// named by the consumer tag. The group is created if it does not exist,
// starting from the beginning of the stream.
func (b *Broker) Consumer(ctx context.Context, options enroute.ConsumerOptions) (*Consumer, error) {
	err := b.client.XGroupCreateMkStream(ctx, options.Channel, options.ConsumerTag, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return nil, enroute.ConsumerError(err)
	}
	return &Consumer{
		client: b.client,
		stream: options.Channel,
		group:  options.ConsumerTag,
		name:   uuid.NewString(),
		block:  b.config.BlockTimeout,
		count:  b.config.ReadCount,
		logger: b.config.Logger,
	}, nil
}

// BrokerBuilder constructs a Redis broker.
type BrokerBuilder struct {
	config Config
	err    error
}

// NewBrokerBuilder returns a builder with default configuration.
func NewBrokerBuilder() *BrokerBuilder {
	return &BrokerBuilder{}
}

// WithAddr sets the Redis server address.
func (b *BrokerBuilder) WithAddr(addr string) *BrokerBuilder {
	b.config.Addr = addr
	return b
}

// WithPassword sets the connection password.
func (b *BrokerBuilder) WithPassword(password string) *BrokerBuilder {
	b.config.Password = password
	return b
}

// WithDB selects the Redis database.
func (b *BrokerBuilder) WithDB(db int) *BrokerBuilder {
	b.config.DB = db
	return b
}

// WithBlockTimeout bounds each blocking read.
func (b *BrokerBuilder) WithBlockTimeout(d time.Duration) *BrokerBuilder {
	b.config.BlockTimeout = d
	return b
}

// WithLogger sets the broker logger.
func (b *BrokerBuilder) WithLogger(logger enroute.Logger) *BrokerBuilder {
	b.config.Logger = logger
	return b
}

// FromEnv loads configuration from ENROUTE_REDIS_* environment variables,
// e.g. ENROUTE_REDIS_ADDR=localhost:6379. A load failure is deferred and
// returned by Build with the builder error kind.
func (b *BrokerBuilder) FromEnv() *BrokerBuilder {
	if err := (config.Loader{}).Load("redis", &b.config); err != nil {
		b.err = enroute.BuilderError(err)
	}
	return b
}

// Build validates the configuration and constructs the broker. Fails with
// a builder-kind error when the address is missing.
func (b *BrokerBuilder) Build(ctx context.Context) (*Broker, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.config.Addr == "" {
		return nil, enroute.BuilderError(errors.New("missing addr"))
	}
	return NewBroker(b.config), nil
}
