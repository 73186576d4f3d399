package redis

import (
	"context"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// acker settles one stream entry. Ack removes the entry from the group's
// pending list with XACK; Nack leaves it pending so it can be reclaimed
// operationally. The first call wins and failures are discarded: settling
// never reports errors.
type acker struct {
	client  *redis.Client
	stream  string
	group   string
	id      string
	settled atomic.Bool
}

func newAcker(client *redis.Client, stream, group, id string) *acker {
	return &acker{
		client: client,
		stream: stream,
		group:  group,
		id:     id,
	}
}

// Ack implements enroute.Acker.
func (a *acker) Ack() {
	if !a.settled.CompareAndSwap(false, true) {
		return
	}
	_ = a.client.XAck(context.Background(), a.stream, a.group, a.id).Err()
}

// Nack implements enroute.Acker.
func (a *acker) Nack() {
	a.settled.CompareAndSwap(false, true)
}
