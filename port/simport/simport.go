// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package simport is a software simulation of magnesium.Port for
// host-side tests and development — no real hardware, no real ISR
// table, no board bring-up. It is grounded on the same idea as
// go-ublk's stub-mode Runner: a collaborator that would normally be a
// hardware binding becomes a simple in-memory simulation so the core
// logic is testable without the real thing.
package simport

import (
	"math/bits"
	"sync"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/magnesium"
)

// pending is one posted-but-not-yet-dispatched interrupt.
type pending struct {
	cpu  int
	vect uint32
	prio int
}

// Port simulates an interrupt controller for up to a fixed number of
// cores. It is driven by a single goroutine at a time: SetCurrentCPU
// switches which simulated core's register file is "live", standing in
// for the register read a real ThisCPU() would do. This does not model
// genuine concurrent multi-core execution — Drain/TryNext give
// deterministic, sequential dispatch, which is enough to exercise every
// code path Context takes on a cross-core activation (the IPI bitmap
// still gets OR-set and drained exactly as on real SMP hardware; only
// the "two cores running at literally the same instant" part is
// simulated away).
type Port struct {
	mu      sync.Mutex
	current int
	cs      []int
	pending []pending
	prioOf  func(vect uint32) int
	waiters []chan struct{}
}

// New builds a simulated port for cpus simulated cores. prioOf maps a
// vector to its logical priority, the same monotone mapping an embedder
// would wire to real hardware (spec.md §4.6); tests typically pass
// something as simple as `func(v uint32) int { return int(v) }` when
// vectors and priorities coincide.
func New(cpus int, prioOf func(vect uint32) int) *Port {
	p := &Port{
		cs:      make([]int, cpus),
		prioOf:  prioOf,
		waiters: make([]chan struct{}, cpus),
	}
	for i := range p.waiters {
		p.waiters[i] = make(chan struct{}, 1)
	}
	return p
}

// SetCurrentCPU switches which simulated core ThisCPU() reports next.
// Call this before driving a scheduler operation that should be
// attributed to a particular core (e.g. before ctx.Tick() for CPU 1).
func (p *Port) SetCurrentCPU(id int) {
	p.mu.Lock()
	p.current = id
	p.mu.Unlock()
}

// ThisCPU implements magnesium.Port.
func (p *Port) ThisCPU() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// VectToPrio implements magnesium.Port.
func (p *Port) VectToPrio(vect uint32) int { return p.prioOf(vect) }

// InterruptRequest implements magnesium.Port: it records vect as
// pending for cpu and wakes anything parked in WaitEvent for that cpu.
// There is no real ISR table on a host, so nothing actually runs until
// Drain (or TryNext) is called for that cpu.
func (p *Port) InterruptRequest(cpu int, vect uint32) {
	p.mu.Lock()
	p.pending = append(p.pending, pending{cpu: cpu, vect: vect, prio: p.prioOf(vect)})
	ch := p.waiters[cpu]
	p.mu.Unlock()

	select {
	case ch <- struct{}{}:
	default:
	}
}

// CriticalSectionEnter implements magnesium.Port. The simulation tracks
// nesting depth per core rather than truly disabling anything, since
// there are no real interrupts on a host to mask.
func (p *Port) CriticalSectionEnter() {
	p.mu.Lock()
	p.cs[p.current]++
	p.mu.Unlock()
}

// CriticalSectionLeave implements magnesium.Port.
func (p *Port) CriticalSectionLeave() {
	p.mu.Lock()
	p.cs[p.current]--
	p.mu.Unlock()
}

// CLZ implements magnesium.Port using math/bits — justified stdlib use:
// there is no chip-specific CLZ fallback to emulate on a host, and
// math/bits.LeadingZeros32 is exactly the portable definition the
// original's fallback path computes by hand (see DESIGN.md).
func (p *Port) CLZ(x uint32) int {
	assertNonZero(x)
	return bits.LeadingZeros32(x)
}

func assertNonZero(x uint32) {
	if x == 0 {
		panic("simport: CLZ of zero")
	}
}

// WaitEvent implements magnesium.Port: it blocks the calling goroutine
// until SendEvent targets the current simulated CPU, backed by
// iox.Backoff for the spin phase the way the teacher's own examples use
// it ahead of a blocking wait.
func (p *Port) WaitEvent() {
	p.mu.Lock()
	ch := p.waiters[p.current]
	p.mu.Unlock()

	b := iox.Backoff{}
	for {
		select {
		case <-ch:
			return
		default:
			b.Wait()
		}
	}
}

// SendEvent implements magnesium.Port.
func (p *Port) SendEvent(cpu int) {
	select {
	case p.waiters[cpu] <- struct{}{}:
	default:
	}
}

// TryNext pops the single highest-priority interrupt pending for cpu
// without dispatching it, or reports ErrWouldBlock if none is pending.
// Most callers want Drain instead.
func (p *Port) TryNext(cpu int) (vect uint32, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := -1
	for i, pd := range p.pending {
		if pd.cpu != cpu {
			continue
		}
		if idx == -1 || pd.prio > p.pending[idx].prio {
			idx = i
		}
	}
	if idx == -1 {
		return 0, iox.ErrWouldBlock
	}
	vect = p.pending[idx].vect
	p.pending = append(p.pending[:idx], p.pending[idx+1:]...)
	return vect, nil
}

// Drain dispatches every interrupt pending for the current simulated
// CPU, highest priority first, until none remain — a higher-priority
// vector posted after a lower one is always serviced first, the same
// preemption-ordering guarantee spec.md §8's scenario 2 describes for
// real hardware — Drain itself never waits, it only dispatches what's
// already pending. doorbellVect is routed to ctx.Doorbell; every other
// vector goes to ctx.Schedule.
//
// Actors that perpetually repost themselves (e.g. a zero-delay
// sleep_for(0, self) loop — spec.md §8 scenario 7) never let Drain
// observe an empty queue, and ctx.Schedule itself does not return either
// while its run queue keeps refilling; such actors have to stop
// reposting after a bounded number of rounds.
func (p *Port) Drain(ctx *magnesium.Context, doorbellVect uint32) {
	cpu := p.ThisCPU()
	for {
		vect, err := p.TryNext(cpu)
		if iox.IsWouldBlock(err) {
			return
		}
		if vect == doorbellVect {
			ctx.Doorbell()
		} else {
			ctx.Schedule(vect)
		}
	}
}

var _ magnesium.Port = (*Port)(nil)
