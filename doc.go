// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package magnesium is an interrupt-grade, preemptive multitasking
// actor runtime: actors are run-to-completion callbacks dispatched from
// per-priority, per-CPU run queues, woken either by a message delivered
// to a queue they're parked on or by a timer wheel deadline.
//
// There is no scheduler goroutine and no actor ever blocks — an
// ActorFunc runs synchronously inside whatever calls Context.Schedule,
// and Context.Schedule is meant to be called from an interrupt handler
// (or, on the host, from a simulated one; see port/simport).
//
// # Quick Start
//
// Build a context, wire a port, start an actor, and drive it:
//
//	const blinkVect, doorbellVect = 0, 1
//	prioOf := func(vect uint32) int { return int(vect) }
//	port := simport.New(1, prioOf)
//	ctx, err := magnesium.NewContext(
//		magnesium.WithPriorities(2),
//		magnesium.WithTimerBuckets(8),
//		magnesium.WithMaxActors(16),
//		magnesium.WithPort(port),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	blink := func(a *magnesium.Actor, m *magnesium.Message) *magnesium.Queue {
//		toggleLED()
//		return magnesium.SleepFor(ticksPerBlink, a)
//	}
//	actor, err := magnesium.ActorInit(ctx, blink, blinkVect, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for {
//		port.Drain(ctx, doorbellVect) // dispatches pending vectors in priority order
//		ctx.Tick()
//	}
//
// # Actors
//
// An ActorFunc must run to completion and return either the Queue it
// wants its next message from, or the magnesium.Suspend sentinel after
// calling SleepFor. It never blocks, spawns a goroutine, or retains a
// stack across calls — each invocation is a fresh call with the
// message (or nil) that woke it in Mailbox.
//
// # Queues
//
// A Queue is a dual-purpose FIFO: Push and Pop pass through whichever
// side arrived first. If messages are already queued, Pop hands one
// back immediately; if actors are already parked, Push hands the
// message straight to the oldest one and activates it. A Queue is
// never simultaneously holding both messages and parked actors.
//
// # Timers
//
// SleepFor(delay, self) parks self in a hierarchical timer wheel keyed
// by the highest bit at which the current tick and the deadline differ
// — O(1) insertion and demotion, at the cost of occasionally checking a
// bucket before anything in it is actually due. Call Context.Tick once
// per tick, on every CPU, from a periodic interrupt source.
//
// # Ports
//
// Everything that touches real hardware — which vector maps to which
// priority, how to post a pending interrupt, which core is running,
// how to count leading zeros, how to enter/leave a critical section —
// is behind the Port interface. This package ships no hardware-backed
// Port; port/simport is a software simulation used by this package's
// own tests and suitable for host-side development.
package magnesium
