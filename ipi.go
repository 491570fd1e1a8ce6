// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// ipiBitmap is the per-target-CPU summary bitmap spec.md §4.5's
// cross-core activation describes: one bit per priority, OR-set by any
// requesting CPU and drained in a single atomic exchange by the target's
// doorbell ISR. It compresses many concurrent cross-core activation
// requests into one doorbell interrupt while preserving which priority
// run queues need a local pending-interrupt request re-posted.
type ipiBitmap struct {
	_    pad
	bits atomix.Uint32
}

// raise OR-sets the bit for prio. atomix has no confirmed FetchOr in its
// observed API, so this is a CompareAndSwapAcqRel retry loop, the same
// idiom the teacher uses for every other read-modify-write it needs
// (see MPMC.Enqueue's slot claim).
func (b *ipiBitmap) raise(prio int) {
	bit := uint32(1) << uint(prio)
	sw := spin.Wait{}
	for {
		old := b.bits.LoadAcquire()
		if old&bit != 0 {
			return
		}
		if b.bits.CompareAndSwapAcqRel(old, old|bit) {
			return
		}
		sw.Once()
	}
}

// drain atomically exchanges the bitmap with zero and returns the value
// it held — the doorbell ISR's stage-two read, matching spec.md §4.5's
// "acquire on the receiver's exchange" ordering requirement.
func (b *ipiBitmap) drain() uint32 {
	sw := spin.Wait{}
	for {
		old := b.bits.LoadAcquire()
		if old == 0 {
			return 0
		}
		if b.bits.CompareAndSwapAcqRel(old, 0) {
			return old
		}
		sw.Once()
	}
}
