package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fxsml/enroute"
)

// Stream field names carrying CloudEvents context attributes. Extension
// attributes travel under their own names; fieldData carries the payload.
const (
	fieldSpecVersion     = "ce-specversion"
	fieldID              = "ce-id"
	fieldSource          = "ce-source"
	fieldType            = "ce-type"
	fieldTime            = "ce-time"
	fieldDataSchema      = "ce-dataschema"
	fieldDataContentType = "ce-datacontenttype"
	fieldData            = "data"
)

func isReservedField(key string) bool {
	switch key {
	case fieldSpecVersion, fieldID, fieldSource, fieldType,
		fieldTime, fieldDataSchema, fieldDataContentType, fieldData:
		return true
	}
	return false
}

// Publisher appends events to one stream.
type Publisher struct {
	client *redis.Client
	stream string
}

// Publish implements enroute.Publisher. Every event attribute is written
// as its own stream field and the payload bytes go into the "data" field.
func (p *Publisher) Publish(ctx context.Context, event *enroute.Event) error {
	payload, err := event.DataBytes()
	if err != nil {
		return err
	}

	values := map[string]any{
		fieldSpecVersion: event.SpecVersion(),
		fieldID:          event.ID(),
		fieldSource:      event.Source(),
		fieldType:        event.Type(),
		fieldData:        payload,
	}
	if t := event.Time(); !t.IsZero() {
		values[fieldTime] = t.UTC().Format(time.RFC3339Nano)
	}
	if ds := event.DataSchema(); ds != "" {
		values[fieldDataSchema] = ds
	}
	if dct := event.DataContentType(); dct != "" {
		values[fieldDataContentType] = dct
	}
	for key, value := range event.Extensions() {
		if isReservedField(key) {
			continue
		}
		values[key] = fmt.Sprint(value)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err()
	if err != nil {
		return enroute.PublisherError(err)
	}
	return nil
}
