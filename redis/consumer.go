package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fxsml/enroute"
)

// Consumer streams events from one stream through a Redis consumer group.
type Consumer struct {
	client *redis.Client
	stream string
	group  string
	name   string
	block  time.Duration
	count  int64
	logger enroute.Logger
}

// StreamEvents implements enroute.Consumer. Entries are fetched with
// XREADGROUP and yielded with ackers settling through XACK. Read and
// decode failures are yielded as delivery errors without closing the
// stream; the stream closes when ctx is canceled.
func (c *Consumer) StreamEvents(ctx context.Context) (<-chan enroute.Delivery, error) {
	out := make(chan enroute.Delivery)

	go func() {
		defer close(out)

		for ctx.Err() == nil {
			streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    c.group,
				Consumer: c.name,
				Streams:  []string{c.stream, ">"},
				Count:    c.count,
				Block:    c.block,
			}).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					// Block timeout, nothing pending.
					continue
				}
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				c.logger.Warn("Stream read failed",
					"component", "redis.consumer",
					"stream", c.stream,
					"group", c.group,
					"error", err)
				if !c.yield(ctx, out, enroute.Delivery{Err: enroute.ConsumerError(err)}) {
					return
				}
				continue
			}

			for _, stream := range streams {
				for _, msg := range stream.Messages {
					event, err := eventFromMessage(msg)
					if err != nil {
						// Left pending: a malformed entry should not be
						// silently acknowledged away.
						if !c.yield(ctx, out, enroute.Delivery{Err: err}) {
							return
						}
						continue
					}
					envelope := enroute.NewEnvelope(event, newAcker(c.client, c.stream, c.group, msg.ID))
					if !c.yield(ctx, out, enroute.Delivery{Envelope: envelope}) {
						return
					}
				}
			}
		}
	}()

	return out, nil
}

func (c *Consumer) yield(ctx context.Context, out chan<- enroute.Delivery, d enroute.Delivery) bool {
	select {
	case out <- d:
		return true
	case <-ctx.Done():
		return false
	}
}

// eventFromMessage reconstructs an event from stream entry fields. The
// "ce-type" and "ce-source" fields are required; a missing id falls back
// to the entry id, then to a generated UUID.
func eventFromMessage(msg redis.XMessage) (*enroute.Event, error) {
	eventType, ok := stringField(msg, fieldType)
	if !ok {
		return nil, enroute.DeserializationError(fmt.Errorf("missing %s field", fieldType))
	}
	source, ok := stringField(msg, fieldSource)
	if !ok {
		return nil, enroute.DeserializationError(fmt.Errorf("missing %s field", fieldSource))
	}

	id, ok := stringField(msg, fieldID)
	if !ok {
		id = msg.ID
	}
	if id == "" {
		id = uuid.NewString()
	}

	builder := enroute.NewBuilder().
		ID(id).
		Source(source).
		Type(eventType)

	if raw, ok := stringField(msg, fieldTime); ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			builder = builder.Time(t)
		}
	}
	if schema, ok := stringField(msg, fieldDataSchema); ok {
		builder = builder.SchemaURL(schema)
	}
	for key, value := range msg.Values {
		if isReservedField(key) {
			continue
		}
		builder = builder.Extension(key, value)
	}

	var data []byte
	if raw, ok := stringField(msg, fieldData); ok {
		data = []byte(raw)
	}
	return builder.BuildRaw(data)
}

func stringField(msg redis.XMessage, key string) (string, bool) {
	v, ok := msg.Values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
