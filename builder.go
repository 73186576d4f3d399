package enroute

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Builder accumulates event attributes and finalizes an [Event] with either
// a typed payload ([Builder.Build]) or raw bytes ([Builder.BuildRaw]).
//
// Attribute setters skip zero values, so optional attributes can be fed
// straight from possibly-empty inputs. Setter errors (such as an invalid
// schema URL) are deferred and returned from the finalizer, keeping the
// chain fluent.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	e         cloudevents.Event
	schemaURL string
	err       error
}

// NewBuilder returns a Builder for a CloudEvents v1.0 event.
func NewBuilder() *Builder {
	return &Builder{e: cloudevents.NewEvent()}
}

// ID sets the event id. When left unset, [Builder.Build] and
// [Builder.BuildRaw] generate a UUID.
func (b *Builder) ID(id string) *Builder {
	if id != "" {
		b.e.SetID(id)
	}
	return b
}

// Source sets the event source. Required; finalizers fail without it.
func (b *Builder) Source(source string) *Builder {
	if source != "" {
		b.e.SetSource(source)
	}
	return b
}

// Subject sets the optional event subject.
func (b *Builder) Subject(subject string) *Builder {
	if subject != "" {
		b.e.SetSubject(subject)
	}
	return b
}

// Time sets the optional event timestamp. The zero time is skipped.
func (b *Builder) Time(t time.Time) *Builder {
	if !t.IsZero() {
		b.e.SetTime(t)
	}
	return b
}

// Type sets the event type. [Builder.Build] overwrites it with the payload's
// declared type; use with [Builder.BuildRaw].
func (b *Builder) Type(eventType string) *Builder {
	if eventType != "" {
		b.e.SetType(eventType)
	}
	return b
}

// SchemaURL sets the optional data schema. The value must be an absolute
// URL; an invalid value records a deferred error returned by the finalizer.
func (b *Builder) SchemaURL(schemaURL string) *Builder {
	if schemaURL == "" {
		return b
	}
	u, err := url.Parse(schemaURL)
	if err != nil {
		b.err = UnknownError(fmt.Errorf("invalid schema URL %q: %w", schemaURL, err))
		return b
	}
	if !u.IsAbs() {
		b.err = UnknownError(fmt.Errorf("invalid schema URL %q: not absolute", schemaURL))
		return b
	}
	b.schemaURL = u.String()
	return b
}

// Extension sets a single extension attribute.
func (b *Builder) Extension(name string, value any) *Builder {
	b.e.SetExtension(name, value)
	return b
}

// Extensions sets every extension attribute in the map. Nil values are
// skipped.
func (b *Builder) Extensions(extensions map[string]any) *Builder {
	for name, value := range extensions {
		if value == nil {
			continue
		}
		b.e.SetExtension(name, value)
	}
	return b
}

// Build finalizes the event with a typed payload. The payload is JSON
// encoded as "application/json" data and the event type is taken from the
// payload's [EventData.EventType].
//
// Returns a serialization error when the payload cannot be encoded, any
// deferred setter error, and an unknown-kind error when required attributes
// are missing.
func (b *Builder) Build(data EventData) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, SerializationError(err)
	}
	return b.finalize(payload, data.EventType())
}

// BuildRaw finalizes the event with a raw byte payload. The event type is
// left to the caller; set it with [Builder.Type].
func (b *Builder) BuildRaw(data []byte) (*Event, error) {
	return b.finalize(data, "")
}

func (b *Builder) finalize(payload []byte, eventType string) (*Event, error) {
	if b.err != nil {
		return nil, b.err
	}

	e := b.e.Clone()
	if eventType != "" {
		e.SetType(eventType)
	}
	if e.ID() == "" {
		e.SetID(uuid.NewString())
	}
	if b.schemaURL != "" {
		e.SetDataSchema(b.schemaURL)
	}
	if err := e.SetData(cloudevents.ApplicationJSON, payload); err != nil {
		return nil, SerializationError(err)
	}
	if err := e.Validate(); err != nil {
		return nil, UnknownError(err)
	}
	return &Event{ce: e}, nil
}
