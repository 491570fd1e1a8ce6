// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

import "testing"

// =============================================================================
// Context - timer-driven scenarios requiring direct tick manipulation
//
// These live in the internal (white-box) test package rather than
// alongside the other end-to-end scenarios in actor_test.go because
// they read or poke unexported state (cpu.ticks, ctx.ipi) or inspect
// the fakePort's recorded interrupts directly; port/simport
// can't be imported here (see internal_port_test.go), so a plain
// fakePort stands in.
// =============================================================================

// TestDelayScenario is spec.md §8 scenario 4 (Delay): after 9 calls to
// Tick, a 10-tick sleeper has not been re-invoked; the 10th Tick posts
// the scheduling interrupt; the callback then runs exactly once.
func TestDelayScenario(t *testing.T) {
	p := &fakePort{}
	ctx, err := NewContext(WithPriorities(1), WithTimerBuckets(8), WithMaxActors(4), WithPort(p))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	invocations := 0
	started := false
	fn := func(a *Actor, m *Message) *Queue {
		if !started {
			started = true
		} else {
			invocations++
		}
		return SleepFor(10, a)
	}
	if _, err := ActorInit(ctx, fn, 0, nil); err != nil {
		t.Fatalf("ActorInit: %v", err)
	}

	for i := 1; i <= 9; i++ {
		ctx.Tick()
		if invocations != 0 {
			t.Fatalf("invocations after %d ticks: got %d, want 0", i, invocations)
		}
		if len(p.pending) != 0 {
			t.Fatalf("pending interrupts after %d ticks: got %d, want 0", i, len(p.pending))
		}
	}

	ctx.Tick() // 10th tick
	if len(p.pending) != 1 {
		t.Fatalf("pending interrupts after 10th tick: got %d, want 1", len(p.pending))
	}
	if invocations != 0 {
		t.Fatalf("invocations before Schedule: got %d, want 0", invocations)
	}

	ctx.Schedule(p.pending[0].vect)
	if invocations != 1 {
		t.Fatalf("invocations after Schedule: got %d, want 1", invocations)
	}
}

// TestWraparoundScenario is spec.md §8 scenario 5 (Wraparound): with
// ticks pre-set to 0xFFFFFFFF, a 2-tick sleeper fires two Tick calls
// later, once ticks has wrapped around to 1.
func TestWraparoundScenario(t *testing.T) {
	p := &fakePort{}
	ctx, err := NewContext(WithPriorities(1), WithTimerBuckets(8), WithMaxActors(4), WithPort(p))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	ctx.cpus[0].ticks.StoreRelease(0xFFFFFFFF)

	fired := false
	started := false
	fn := func(a *Actor, m *Message) *Queue {
		if !started {
			started = true
		} else {
			fired = true
		}
		return SleepFor(2, a)
	}
	if _, err := ActorInit(ctx, fn, 0, nil); err != nil {
		t.Fatalf("ActorInit: %v", err)
	}

	ctx.Tick() // wraps to 0; actor demoted from its original bucket
	if fired {
		t.Fatalf("fired after 1st post-wrap tick: want false")
	}
	if len(p.pending) != 0 {
		t.Fatalf("pending interrupts after 1st post-wrap tick: got %d, want 0", len(p.pending))
	}

	ctx.Tick() // ticks == 1: deadline reached
	if len(p.pending) != 1 {
		t.Fatalf("pending interrupts after 2nd post-wrap tick: got %d, want 1", len(p.pending))
	}

	ctx.Schedule(p.pending[0].vect)
	if !fired {
		t.Fatalf("fired after Schedule: want true")
	}
}

// TestScheduleOnEmptyRunQueueIsNoop is spec.md §8's idempotence law:
// redundant Schedule(v) calls against an empty run queue are no-ops.
func TestScheduleOnEmptyRunQueueIsNoop(t *testing.T) {
	p := &fakePort{}
	ctx, err := NewContext(WithPriorities(1), WithMaxActors(4), WithPort(p))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	ctx.Schedule(0)
	ctx.Schedule(0)
	ctx.Schedule(0)
}

// TestSMPFanOutScenario is spec.md §8 scenario 6: a message pushed from
// a "CPU0" vantage point to a subscriber pinned to CPU1 must cross over
// the two-stage doorbell (IPI bitmap raise, then drain on the target)
// rather than running inline. It lives here rather than in
// actor_test.go because it reads ctx.ipi directly to confirm the
// bitmap returns to zero on both cores, an unexported field port/simport
// has no need to expose.
func TestSMPFanOutScenario(t *testing.T) {
	const actorVect = 0
	const doorbellVect = 5

	p := &fakePort{}
	ctx, err := NewContext(
		WithPriorities(1),
		WithCPUs(2),
		WithMaxActors(8),
		WithPort(p),
		WithDoorbellVector(doorbellVect),
		WithPriorityVectors(actorVect),
	)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	q := NewQueue(2)
	received := 0
	fn := func(a *Actor, m *Message) *Queue {
		if m != nil {
			received++
			m.Free()
		}
		return q
	}

	p.current = 1 // Actor2 is constructed as if running on CPU1
	if _, err := ActorInit(ctx, fn, actorVect, q); err != nil {
		t.Fatalf("ActorInit: %v", err)
	}

	const n = 100
	pool, err := NewMessagePool(make([]byte, n), 1)
	if err != nil {
		t.Fatalf("NewMessagePool: %v", err)
	}

	p.current = 0 // Actor1's vantage point: every push below is cross-core
	for i := 0; i < n; i++ {
		m := pool.Alloc()
		if m == nil {
			t.Fatalf("iteration %d: pool exhausted", i)
		}
		q.Push(m)

		if !takePending(p, 1, doorbellVect) {
			t.Fatalf("iteration %d: no doorbell posted for cpu 1", i)
		}
		p.current = 1
		ctx.Doorbell()

		if !takePending(p, 1, actorVect) {
			t.Fatalf("iteration %d: no scheduling interrupt posted for cpu 1", i)
		}
		ctx.Schedule(actorVect)
		p.current = 0
	}

	if received != n {
		t.Fatalf("messages received: got %d, want %d (no messages lost)", received, n)
	}
	if allocated, free, _ := pool.Stats(); allocated != 0 || free != n {
		t.Fatalf("pool after fan-out: allocated=%d free=%d, want 0,%d", allocated, free, n)
	}
	for cpu := range ctx.ipi {
		if got := ctx.ipi[cpu].bits.LoadAcquire(); got != 0 {
			t.Fatalf("ipi bitmap on cpu %d: got %#x, want 0", cpu, got)
		}
	}
	if len(p.pending) != 0 {
		t.Fatalf("leftover pending interrupts: got %d, want 0", len(p.pending))
	}
}

// takePending removes and reports whether a pending interrupt matching
// cpu and vect was queued.
func takePending(p *fakePort, cpu int, vect uint32) bool {
	for i, pd := range p.pending {
		if pd.cpu == cpu && pd.vect == vect {
			p.pending = append(p.pending[:i], p.pending[i+1:]...)
			return true
		}
	}
	return false
}
