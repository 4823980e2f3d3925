package table

import "github.com/cardroom/holdemd/internal/engine"

// subscriptionQueueSize bounds each subscriber's outbound queue. Delivery
// is fire-and-forget: a slow subscriber loses the oldest snapshots rather
// than applying backpressure to the actor.
const subscriptionQueueSize = 16

// Subscription is a push channel bound to a table and either a seat or a
// spectator identity (seat -1).
type Subscription struct {
	seat    int
	updates chan *engine.Snapshot
	closed  bool // owned by the actor goroutine
}

func newSubscription(seat int) *Subscription {
	return &Subscription{
		seat:    seat,
		updates: make(chan *engine.Snapshot, subscriptionQueueSize),
	}
}

// Seat returns the subscribed seat index, or -1 for a spectator
func (s *Subscription) Seat() int { return s.seat }

// Updates returns the snapshot stream. The channel closes when the
// subscription is detached or the table is destroyed.
func (s *Subscription) Updates() <-chan *engine.Snapshot { return s.updates }

// deliver enqueues a snapshot, dropping the oldest entry on overflow.
// Called only from the actor goroutine, so there is a single producer.
func (s *Subscription) deliver(snap *engine.Snapshot) {
	if s.closed {
		return
	}
	for {
		select {
		case s.updates <- snap:
			return
		default:
			// Queue full: evict the oldest and retry.
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

// close shuts the queue; later deliveries are silently discarded
func (s *Subscription) close() {
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
}
