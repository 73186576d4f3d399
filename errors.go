package enroute

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure this package and its backends
// produce. Match with [errors.Is]; the wrapped cause remains reachable via
// [errors.Unwrap].
var (
	// ErrSerialization indicates a payload could not be encoded.
	ErrSerialization = errors.New("enroute: serialization")
	// ErrDeserialization indicates a payload or attribute could not be decoded.
	ErrDeserialization = errors.New("enroute: deserialization")
	// ErrMissingEventData indicates data access on an event without a payload.
	ErrMissingEventData = errors.New("enroute: missing event data")
	// ErrPublisher indicates a transport-level publish failure.
	ErrPublisher = errors.New("enroute: publisher")
	// ErrConsumer indicates a transport-level stream failure.
	ErrConsumer = errors.New("enroute: consumer")
	// ErrBuilder indicates missing or invalid broker configuration.
	ErrBuilder = errors.New("enroute: builder")
	// ErrUnknown wraps failures that fit no other kind.
	ErrUnknown = errors.New("enroute: unknown")
)

// SerializationError wraps err as a serialization failure.
func SerializationError(err error) error {
	return fmt.Errorf("%w: %w", ErrSerialization, err)
}

// DeserializationError wraps err as a deserialization failure.
func DeserializationError(err error) error {
	return fmt.Errorf("%w: %w", ErrDeserialization, err)
}

// PublisherError wraps err as a transport-level publish failure.
func PublisherError(err error) error {
	return fmt.Errorf("%w: %w", ErrPublisher, err)
}

// ConsumerError wraps err as a transport-level stream failure.
func ConsumerError(err error) error {
	return fmt.Errorf("%w: %w", ErrConsumer, err)
}

// BuilderError wraps err as a broker configuration failure.
func BuilderError(err error) error {
	return fmt.Errorf("%w: %w", ErrBuilder, err)
}

// UnknownError wraps err as an unclassified failure.
func UnknownError(err error) error {
	return fmt.Errorf("%w: %w", ErrUnknown, err)
}
