package memory

import (
	"errors"
	"sync"

	"github.com/fxsml/enroute"
)

// errSubscriberClosed is returned on enqueue after the subscriber's stream
// goroutine has exited.
var errSubscriberClosed = errors.New("memory: subscriber closed")

// subscriber is one receiving endpoint of a consumer group. Its delivery
// queue is unbounded: a stalled consumer grows the queue without limit
// rather than blocking publishers. wake carries at most one token, enough
// to rouse the draining goroutine.
type subscriber struct {
	mu     sync.Mutex
	queue  []*enroute.Event
	wake   chan struct{}
	closed bool
}

func newSubscriber() *subscriber {
	return &subscriber{wake: make(chan struct{}, 1)}
}

func (s *subscriber) enqueue(event *enroute.Event) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errSubscriberClosed
	}
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

func (s *subscriber) drain() []*enroute.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.queue
	s.queue = nil
	return queue
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.queue = nil
}

// group is the set of subscribers competing under one (channel, tag) pair.
// Registration order fixes round-robin positions; next is the rotating
// cursor. Groups live for the process lifetime: a closed subscriber keeps
// its slot, so its round-robin share is never redistributed.
type group struct {
	mu          sync.Mutex
	subscribers []*subscriber
	next        int
}

func (g *group) add() *subscriber {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := newSubscriber()
	g.subscribers = append(g.subscribers, s)
	return s
}

func (g *group) dispatch(event *enroute.Event) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.subscribers) == 0 {
		return nil
	}

	idx := g.next % len(g.subscribers)
	g.next = (g.next + 1) % len(g.subscribers)

	if err := g.subscribers[idx].enqueue(event); err != nil {
		return enroute.UnknownError(err)
	}
	return nil
}

// dispatcher owns the channel → consumer tag → group registry. Publishes
// take the registry read lock, so publishes to different channels proceed
// concurrently; registration takes the write lock to insert new entries.
// Delivery order within a group follows publish order because dispatch
// happens under the group lock in program order.
type dispatcher struct {
	mu     sync.RWMutex
	groups map[string]map[string]*group
	logger enroute.Logger
}

func newDispatcher(logger enroute.Logger) *dispatcher {
	return &dispatcher{
		groups: make(map[string]map[string]*group),
		logger: logger,
	}
}

// register appends a new subscriber to the (channel, tag) group, creating
// the group on first registration. There is no deregistration: groups and
// their subscriber slots persist for the process lifetime.
func (d *dispatcher) register(channel, tag string) *subscriber {
	d.mu.Lock()
	tags, ok := d.groups[channel]
	if !ok {
		tags = make(map[string]*group)
		d.groups[channel] = tags
	}
	g, ok := tags[tag]
	if !ok {
		g = &group{}
		tags[tag] = g
	}
	d.mu.Unlock()

	d.logger.Debug("Registered consumer",
		"component", "memory.broker",
		"channel", channel,
		"consumer_tag", tag)
	return g.add()
}

// publish fans the event out to every consumer group registered on the
// channel: each tag receives a copy, delivered to that tag's next
// round-robin subscriber. Publishing to a channel with no groups, or to a
// group with no subscribers, succeeds with the event dropped.
func (d *dispatcher) publish(channel string, event *enroute.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, g := range d.groups[channel] {
		if err := g.dispatch(event); err != nil {
			return err
		}
	}
	return nil
}
