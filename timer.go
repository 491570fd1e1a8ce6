// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

// timerWheel buckets pending sleepers by the MSB distance between "now"
// and their deadline (spec.md §4.4): bucket 0 holds actors due within
// the next tick or two, the next bucket holds actors due twice as far
// out, and so on, with the last bucket as an unbounded catch-all. This
// needs no heap and inserts/demotes in O(1), at the cost of visiting a
// bucket more than once before an actor in it actually comes due.
type timerWheel struct {
	buckets []*ring
}

// newTimerWheel allocates bucketCount buckets, each able to hold up to
// actorCapacity parked actors (the configured ceiling on simultaneously
// sleeping actors — SPEC_FULL.md's WithMaxActors).
func newTimerWheel(bucketCount, actorCapacity int) *timerWheel {
	w := &timerWheel{buckets: make([]*ring, bucketCount)}
	for i := range w.buckets {
		w.buckets[i] = newRing(actorCapacity)
	}
	return w
}

// msbDiff returns the bit index of the highest bit at which a and b
// differ, clamped to the wheel's top (catch-all) bucket. a and b must
// differ — callers never ask for the bucket of a tick equal to itself.
func msbDiff(port Port, a, b uint32, bucketCount int) int {
	assert(a != b, "msbDiff called with equal ticks (%d)", a)
	msb := 31 - port.CLZ(a^b)
	if msb >= bucketCount {
		return bucketCount - 1
	}
	return msb
}

// insert parks actor in the bucket selected by the distance between now
// and deadline. Caller must hold the owning CPU's lock.
func (w *timerWheel) insert(port Port, now, deadline uint32, actor *Actor) {
	i := msbDiff(port, now, deadline, len(w.buckets))
	ok := w.buckets[i].pushActor(actor)
	assert(ok, "timer bucket %d full (capacity %d)", i, w.buckets[i].cap())
}
