// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

import "fmt"

// ActorFunc is one actor's callback (spec.md §4.5). It runs to
// completion on every dispatch — no blocking, no stack retained across
// calls — and must return either Suspend or the Queue to wait on next.
// m is the message that triggered this invocation, or nil when no
// message did: the actor's first call when it was started without an
// initial subscription, and every run that follows a Suspend (a timer
// wakeup or a zero-delay yield).
type ActorFunc func(a *Actor, m *Message) *Queue

// Suspend is the sentinel an ActorFunc returns after calling SleepFor,
// or to yield without parking on any queue (spec.md's
// MG_ACTOR_SUSPEND). It is a distinguished *Queue value that is never
// used as a real queue — callers compare by pointer identity only,
// mirroring the original's `(struct mg_queue_t *)1` sentinel without
// resorting to an invalid pointer.
var Suspend = new(Queue)

// Actor pairs a callback with its scheduling bookkeeping: which
// priority run queue it belongs to, which CPU it's pinned to, and its
// pending wakeup reason. Actors never hold a stack across suspension —
// SleepFor and parking on a Queue are both just returns (spec.md §5).
type Actor struct {
	ctx     *Context
	fn      ActorFunc
	vect    uint32
	prio    int
	cpuID   int
	timeout uint32
	mailbox *Message
}

// ActorInit creates and starts an actor on the calling CPU. If
// initialQueue is non-nil, the actor is parked on it immediately without
// running its callback (it must never come up immediately runnable —
// spec.md §4.5's startup invariant). Otherwise the callback runs once,
// synchronously, with a nil mailbox, so the actor can perform any
// startup work and suspend or subscribe itself.
func ActorInit(ctx *Context, fn ActorFunc, vect uint32, initialQueue *Queue) (*Actor, error) {
	prio := ctx.port.VectToPrio(vect)
	if prio < 0 || prio >= ctx.priorities {
		return nil, fmt.Errorf("%w: vect %d maps to priority %d, want [0,%d)", ErrPriorityOutOfRange, vect, prio, ctx.priorities)
	}

	a := &Actor{
		ctx:   ctx,
		fn:    fn,
		vect:  vect,
		prio:  prio,
		cpuID: ctx.port.ThisCPU(),
	}

	if initialQueue != nil {
		m := initialQueue.Pop(a)
		assert(m == nil, "actor initialized with a subscription came up immediately runnable")
	} else {
		a.call()
	}
	return a, nil
}

// Mailbox returns the message that triggered the current invocation, or
// nil on the actor's very first (subscription-less) call and on any run
// that follows a Suspend.
func (a *Actor) Mailbox() *Message { return a.mailbox }

// SleepFor records delay as self's pending timeout and returns Suspend;
// the dispatcher converts it to an absolute deadline and parks self in
// the timer wheel once the callback returns. delay == 0 means "yield to
// equal-priority peers without delay": self is re-appended to its own
// run queue instead of the timer wheel (spec.md §4.5).
func SleepFor(delay uint32, self *Actor) *Queue {
	self.timeout = delay
	return Suspend
}

// call drives one dispatch episode (spec.md §4.5's actor_call): the
// callback runs, and as long as it hands back a queue that already has
// a message ready, the actor keeps draining synchronously — fair
// chaining — until it either suspends or a Pop parks it on an empty
// queue.
func (a *Actor) call() {
	for {
		q := a.fn(a, a.mailbox)
		assert(q != nil, "actor callback returned nil; must return magnesium.Suspend or a queue")

		if q == Suspend {
			a.mailbox = nil
			if a.timeout > 0 {
				a.ctx.scheduleTimeout(a)
			} else {
				a.activate()
			}
			return
		}

		m := q.Pop(a)
		if m == nil {
			return
		}
		a.mailbox = m
	}
}

// activate inserts a onto its assigned CPU's run queue at its priority
// and posts an interrupt for that priority's vector — locally if a's
// CPU is the calling CPU, through the two-stage doorbell otherwise
// (spec.md §4.5).
func (a *Actor) activate() {
	a.ctx.activate(a)
}

// ResumePoint is the explicit-state stand-in for the original's
// AWAIT/protothread macros (spec.md §9's design note): Go has neither a
// preprocessor nor generator functions to fall back on, so an actor
// embeds one of these and switches on At() to resume where Await last
// left off.
type ResumePoint struct{ n int }

// At reports the point last saved by Await, or 0 before the first one.
func (r *ResumePoint) At() int { return r.n }

// Await saves point and returns q unchanged, so a callback can write
// `return r.Await(3, someQueue)` and find At() == 3 on its next
// invocation, resuming immediately after that call site.
func (r *ResumePoint) Await(point int, q *Queue) *Queue {
	r.n = point
	return q
}
