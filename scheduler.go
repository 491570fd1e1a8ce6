// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

import "code.hybscloud.com/atomix"

// cpu is one core's slice of scheduler state (spec.md §3's per-CPU
// context table): a run queue per priority, an optional timer wheel,
// and the lock guarding both together (spec.md §5: "The run queue and
// timer wheel on a CPU are mutated only under that CPU's lock").
type cpu struct {
	lk     spinlock
	runq   []*ring
	timers *timerWheel
	ticks  atomix.Uint32
}

// Context is the runtime's global scheduler state: the Go stand-in for
// the original's single static g_mg_context, explicitly constructed and
// owned by the embedder instead of a package-level singleton
// (SPEC_FULL.md §9). Build one with NewContext.
type Context struct {
	port          Port
	priorities    int
	cpus          []*cpu
	ipi           []ipiBitmap
	doorbellVect  uint32
	vectOfPrio    []uint32
	timersEnabled bool
}

// Schedule drains vect's priority run queue on the calling CPU, running
// each ready actor to completion in FIFO order (spec.md §4.5's
// context_schedule). Call this from the interrupt handler registered
// for vect. Calling Schedule against an empty run queue is a no-op
// (spec.md §8's idempotence law).
func (c *Context) Schedule(vect uint32) {
	cp := c.cpus[c.port.ThisCPU()]
	prio := c.port.VectToPrio(vect)
	assert(prio >= 0 && prio < c.priorities, "Schedule: vect %d maps to out-of-range priority %d", vect, prio)

	cp.lk.lock()
	for {
		actor := cp.runq[prio].popActor()
		if actor == nil {
			break
		}
		cp.lk.unlock()
		actor.call()
		cp.lk.lock()
	}
	cp.lk.unlock()
}

// Doorbell is the entry point the embedder's doorbell interrupt handler
// calls, on the CPU it just woke, once per doorbell interrupt (SMP
// only — spec.md §4.5 stage two). It drains that CPU's IPI bitmap and
// turns every set priority bit into a local pending-interrupt request
// for that priority's reserved vector.
func (c *Context) Doorbell() {
	cpuID := c.port.ThisCPU()
	bits := c.ipi[cpuID].drain()
	for prio := 0; bits != 0 && prio < c.priorities; prio++ {
		if bits&1 != 0 {
			c.port.InterruptRequest(cpuID, c.vectOfPrio[prio])
		}
		bits >>= 1
	}
}

// Tick advances the calling CPU's monotonic tick counter by one and
// processes the single timer bucket whose residents might have become
// due (spec.md §4.4). Each CPU keeps its own counter and wheel, so Tick
// must be called once per tick, independently, on every CPU — typically
// from a periodic interrupt such as SysTick. A no-op if the context was
// built with no timer buckets.
func (c *Context) Tick() {
	if !c.timersEnabled {
		return
	}
	cp := c.cpus[c.port.ThisCPU()]

	cp.lk.lock()
	old := cp.ticks.LoadRelaxed()
	newTicks := old + 1
	cp.ticks.StoreRelease(newTicks)

	i := msbDiff(c.port, old, newTicks, len(cp.timers.buckets))
	bucket := cp.timers.buckets[i]
	remaining := bucket.len()

	for n := 0; n < remaining; n++ {
		actor := bucket.popActor()
		if actor == nil {
			break
		}
		if actor.timeout == newTicks {
			actor.timeout = 0
			cp.lk.unlock() // release around activation, spec.md §4.4
			actor.activate()
			cp.lk.lock()
		} else {
			j := msbDiff(c.port, newTicks, actor.timeout, len(cp.timers.buckets))
			ok := cp.timers.buckets[j].pushActor(actor)
			assert(ok, "timer bucket %d full while demoting actor", j)
		}
	}
	cp.lk.unlock()
}

// scheduleTimeout converts a's pending relative timeout to an absolute
// deadline and parks it in its CPU's timer wheel (the original's
// mg_actor_timeout). Caller must not already hold a's CPU's lock.
func (c *Context) scheduleTimeout(a *Actor) {
	assert(c.timersEnabled, "SleepFor used but context was built with WithTimerBuckets(0)")
	cp := c.cpus[a.cpuID]

	cp.lk.lock()
	now := cp.ticks.LoadRelaxed()
	deadline := now + a.timeout
	a.timeout = deadline
	cp.timers.insert(c.port, now, deadline, a)
	cp.lk.unlock()
}

// activate inserts a onto its assigned CPU's run queue at its priority
// and requests an interrupt for it — locally, if a's CPU is the calling
// CPU, or via the two-stage doorbell otherwise (spec.md §4.5).
func (c *Context) activate(a *Actor) {
	cp := c.cpus[a.cpuID]
	cp.lk.lock()
	ok := cp.runq[a.prio].pushActor(a)
	cp.lk.unlock()
	assert(ok, "run queue full for priority %d on cpu %d (capacity %d)", a.prio, a.cpuID, cp.runq[a.prio].cap())

	if a.cpuID == c.port.ThisCPU() {
		c.port.InterruptRequest(a.cpuID, a.vect)
		return
	}

	// Cross-core: the actor is already reachable from the target's run
	// queue above; fold the priority into its IPI bitmap and ring its
	// doorbell once. Its own doorbell handler (Context.Doorbell) turns
	// the bit back into a local InterruptRequest for a.vect.
	c.ipi[a.cpuID].raise(a.prio)
	c.port.InterruptRequest(a.cpuID, c.doorbellVect)
}
