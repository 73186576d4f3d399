package enroute

// Acker settles one delivery attempt. Implementations hold a single
// monotonic "settled" flag: the first call to Ack or Nack wins and every
// later call is a no-op. Neither call reports failure; settling is
// fire-and-forget by contract, including any redelivery triggered by Nack.
type Acker interface {
	// Ack acknowledges successful processing.
	Ack()
	// Nack signals failed processing. Depending on the backend this may
	// trigger redelivery of the event.
	Nack()
}

// NoopAcker is an Acker without delivery-guarantee semantics. Backends that
// offer no native ack/nack primitive wrap their events with it.
type NoopAcker struct{}

// Ack implements Acker.
func (NoopAcker) Ack() {}

// Nack implements Acker.
func (NoopAcker) Nack() {}

// Envelope pairs one received [Event] with the [Acker] settling its
// delivery. The envelope owns the acker for the span of processing; the
// backend that produced it may share the acker to observe the outcome.
type Envelope struct {
	event *Event
	acker Acker
}

// NewEnvelope pairs an event with an acker. A nil acker degrades to
// [NoopAcker].
func NewEnvelope(event *Event, acker Acker) *Envelope {
	if acker == nil {
		acker = NoopAcker{}
	}
	return &Envelope{event: event, acker: acker}
}

// Noop wraps an event in an envelope with a [NoopAcker].
func Noop(event *Event) *Envelope {
	return &Envelope{event: event, acker: NoopAcker{}}
}

// Event returns the delivered event.
func (e *Envelope) Event() *Event {
	return e.event
}

// Ack acknowledges successful processing of the event.
func (e *Envelope) Ack() {
	e.acker.Ack()
}

// Nack signals failed processing of the event.
func (e *Envelope) Nack() {
	e.acker.Nack()
}
