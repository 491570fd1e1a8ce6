// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

import (
	"testing"
)

func TestMsbDiffClampsToTopBucket(t *testing.T) {
	p := &fakePort{}
	if got := msbDiff(p, 0, 1, 8); got != 0 {
		t.Fatalf("msbDiff(0,1,8): got %d, want 0", got)
	}
	if got := msbDiff(p, 0, 0x80000000, 8); got != 7 {
		t.Fatalf("msbDiff(0,1<<31,8): got %d, want 7 (clamped)", got)
	}
	if got := msbDiff(p, 0, 4, 8); got != 2 {
		t.Fatalf("msbDiff(0,4,8): got %d, want 2", got)
	}
}

func TestTimerWheelInsertAndDemote(t *testing.T) {
	p := &fakePort{}
	w := newTimerWheel(4, 4)

	a := &Actor{timeout: 5}
	w.insert(p, 0, 5, a)

	// The actor lands in the bucket msbDiff(0,5,4) selects.
	i := msbDiff(p, 0, 5, 4)
	if w.buckets[i].len() != 1 {
		t.Fatalf("bucket %d len: got %d, want 1", i, w.buckets[i].len())
	}
	if got := w.buckets[i].popActor(); got != a {
		t.Fatalf("popActor: got %p, want %p", got, a)
	}
}
