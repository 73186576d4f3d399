package memory

import (
	"sync/atomic"
	"weak"

	"github.com/fxsml/enroute"
)

// acker settles one in-process delivery. The first Ack or Nack wins; later
// calls are no-ops. On a first Nack with requeue enabled, the event is
// re-published at the channel level, re-entering the full multicast and
// round-robin path.
//
// The dispatcher reference is weak so pending ackers neither keep a
// discarded broker alive nor cycle back into it. A failed requeue (engine
// gone, dead subscriber slot) is discarded: settling never fails.
type acker struct {
	dispatcher weak.Pointer[dispatcher]
	channel    string
	event      *enroute.Event
	requeue    bool
	settled    atomic.Bool
}

func newAcker(d weak.Pointer[dispatcher], channel string, event *enroute.Event, requeue bool) *acker {
	return &acker{
		dispatcher: d,
		channel:    channel,
		event:      event,
		requeue:    requeue,
	}
}

// Ack implements enroute.Acker.
func (a *acker) Ack() {
	a.settled.CompareAndSwap(false, true)
}

// Nack implements enroute.Acker.
func (a *acker) Nack() {
	if !a.settled.CompareAndSwap(false, true) {
		return
	}
	if !a.requeue {
		return
	}
	if d := a.dispatcher.Value(); d != nil {
		_ = d.publish(a.channel, a.event)
	}
}
