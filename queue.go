// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

// QueueMode is the explicit two-variant read of a Queue's sign-encoded
// length, exposed for diagnostics and tests (SPEC_FULL.md §4.3
// expansion). The internal representation stays sign-encoded — that is
// what makes Push's single read-and-increment step work exactly the way
// spec.md §4.3 describes — this is purely an observer.
type QueueMode int

const (
	QueueModeEmpty QueueMode = iota
	QueueModeMessages
	QueueModeSubscribers
)

// Queue is the dual-purpose FIFO at the center of the runtime
// (spec.md §4.3): depending on the sign of length, its ring holds either
// pending messages or parked subscriber actors, never both at once.
//
//	length > 0  -> ring holds length messages
//	length == 0 -> ring empty
//	length < 0  -> ring holds -length parked actors
//
// The queue lock guards length and the ring together; Activation
// (waking a parked subscriber) always happens after the lock is
// released, never while held, to keep the queue-lock -> per-CPU-lock
// ordering spec.md §5 mandates.
type Queue struct {
	lk     spinlock
	r      *ring
	length int
}

// NewQueue creates an empty queue with room for at least capacity
// entries (messages while in message mode, parked actors while in
// subscriber mode — never both at once, so one capacity bound covers
// either role).
func NewQueue(capacity int) *Queue {
	return &Queue{r: newRing(capacity)}
}

// newQueue is the unexported constructor used for a MessagePool's
// free-list. A non-nil port backs the spinlock's critical section;
// MessagePool passes nil. (Per-CPU run queues and timer buckets are bare
// rings, not Queues.)
func newQueue(capacity int, port Port) *Queue {
	q := &Queue{r: newRing(capacity)}
	q.lk.port = port
	return q
}

// Pop removes and returns the head message if one is queued. If none is
// queued and subscriber is non-nil, subscriber is parked on this queue
// (appended to the ring as a waiting actor) and Pop returns nil — the
// caller must treat a nil return together with a non-nil subscriber as
// "now parked", not as an empty no-op. If subscriber is nil and the
// queue is empty, Pop simply returns nil.
func (q *Queue) Pop(subscriber *Actor) *Message {
	q.lk.lock()
	defer q.lk.unlock()

	if q.length > 0 {
		m := q.r.popMessage()
		assert(m != nil, "queue in message mode (length=%d) but ring yielded no message", q.length)
		q.length--
		return m
	}
	if subscriber != nil {
		ok := q.r.pushActor(subscriber)
		assert(ok, "subscriber ring full (capacity=%d) while parking actor", q.r.cap())
		q.length--
	}
	return nil
}

// Push adds msg to the queue. If a subscriber is already parked, Push
// hands msg directly to the longest-waiting subscriber and activates it
// (inserts it on its CPU's run queue and posts an interrupt) — strict
// FIFO hand-off, exactly one subscriber woken per Push. Activation
// happens after the queue lock is released, never while held.
func (q *Queue) Push(msg *Message) {
	q.lk.lock()
	wasNegative := q.length < 0
	q.length++

	if !wasNegative {
		ok := q.r.pushMessage(msg)
		assert(ok, "message ring full (capacity=%d)", q.r.cap())
		q.lk.unlock()
		return
	}

	actor := q.r.popActor()
	assert(actor != nil, "queue in subscriber mode but ring yielded no actor")
	q.lk.unlock()

	actor.mailbox = msg
	actor.activate()
}

// Len reports the queue's current occupancy and which mode it is in.
// n is always non-negative regardless of mode.
func (q *Queue) Len() (n int, mode QueueMode) {
	q.lk.lock()
	defer q.lk.unlock()
	switch {
	case q.length > 0:
		return q.length, QueueModeMessages
	case q.length < 0:
		return -q.length, QueueModeSubscribers
	default:
		return 0, QueueModeEmpty
	}
}
