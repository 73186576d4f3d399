package enroute

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Event is an immutable, self-describing message envelope. It wraps a
// CloudEvents v1.0 event: the required id/source/type attributes are fixed
// at build time and the payload is carried as encoded bytes alongside the
// context attributes.
//
// Construct events with [NewBuilder]; wrap an existing CloudEvent with
// [NewEvent]. Accessors never mutate the event, so an Event may be shared
// freely between goroutines.
type Event struct {
	ce cloudevents.Event
}

// NewEvent wraps a CloudEvent. The event is copied; later changes to ce are
// not observed.
func NewEvent(ce cloudevents.Event) *Event {
	return &Event{ce: ce.Clone()}
}

// Empty returns the canonical empty event: fixed "_empty" id and source and
// an [EmptyEventData] payload. Intended for tests and placeholders.
func Empty() *Event {
	event, err := NewBuilder().
		ID("_empty").
		Source("_empty").
		Build(EmptyEventData{})
	if err != nil {
		// The empty event is built from constants and cannot fail.
		panic(fmt.Sprintf("enroute: building empty event: %v", err))
	}
	return event
}

// CloudEvent returns a copy of the underlying CloudEvent.
func (e *Event) CloudEvent() cloudevents.Event {
	return e.ce.Clone()
}

// SpecVersion returns the CloudEvents spec version.
func (e *Event) SpecVersion() string {
	return e.ce.SpecVersion()
}

// ID returns the event id.
func (e *Event) ID() string {
	return e.ce.ID()
}

// Source returns the event source.
func (e *Event) Source() string {
	return e.ce.Source()
}

// Type returns the event type.
func (e *Event) Type() string {
	return e.ce.Type()
}

// Time returns the event timestamp, or the zero time when unset.
func (e *Event) Time() time.Time {
	return e.ce.Time()
}

// DataContentType returns the payload content type, or "" when unset.
func (e *Event) DataContentType() string {
	return e.ce.DataContentType()
}

// DataSchema returns the payload schema URI, or "" when unset.
func (e *Event) DataSchema() string {
	return e.ce.DataSchema()
}

// Subject returns the event subject, or "" when unset.
func (e *Event) Subject() string {
	return e.ce.Subject()
}

// Extensions returns a copy of all extension attributes.
func (e *Event) Extensions() map[string]any {
	ext := make(map[string]any, len(e.ce.Extensions()))
	for k, v := range e.ce.Extensions() {
		ext[k] = v
	}
	return ext
}

// DataBytes returns the raw payload bytes.
// Returns [ErrMissingEventData] when the event carries no payload.
func (e *Event) DataBytes() ([]byte, error) {
	data := e.ce.Data()
	if data == nil {
		return nil, ErrMissingEventData
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// DataValue returns the payload parsed as a structured JSON value.
// Returns [ErrMissingEventData] when the event carries no payload and a
// deserialization error when the bytes are not valid JSON.
func (e *Event) DataValue() (any, error) {
	data := e.ce.Data()
	if data == nil {
		return nil, ErrMissingEventData
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, DeserializationError(err)
	}
	return value, nil
}

// DataString returns the payload as text.
// Returns [ErrMissingEventData] when the event carries no payload and a
// deserialization error when the bytes are not valid UTF-8.
func (e *Event) DataString() (string, error) {
	data := e.ce.Data()
	if data == nil {
		return "", ErrMissingEventData
	}
	if !utf8.Valid(data) {
		return "", DeserializationError(fmt.Errorf("payload is not valid UTF-8"))
	}
	return string(data), nil
}

// DataAs returns the event payload deserialized into the payload type E.
// Returns [ErrMissingEventData] when the event carries no payload and a
// deserialization error when the payload does not decode into E.
func DataAs[E EventData](e *Event) (E, error) {
	var out E
	data := e.ce.Data()
	if data == nil {
		return out, ErrMissingEventData
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, DeserializationError(err)
	}
	return out, nil
}
