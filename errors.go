// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

import (
	"errors"
	"fmt"
)

// Configuration errors, returned by NewContext, NewMessagePool and
// ActorInit for mistakes
// that the original's compile-time macros caught at array-declaration
// time (spec.md §7's "Programming invariant" class, surfaced as a
// checkable error at construction rather than a deferred panic at first
// use — see SPEC_FULL.md §7).
var (
	ErrNoPriorities       = errors.New("magnesium: at least one priority level is required")
	ErrNoCPUs             = errors.New("magnesium: at least one CPU is required")
	ErrNoPort             = errors.New("magnesium: a Port implementation is required")
	ErrNoMaxActors        = errors.New("magnesium: a positive max actor count (WithMaxActors) is required to size run queues and timer buckets")
	ErrPriorityVectors    = errors.New("magnesium: WithPriorityVectors must supply exactly one vector per priority when more than one CPU is configured")
	ErrPoolGeometry       = errors.New("magnesium: pool block size must be >= 1 and total length must be >= block size")
	ErrPriorityOutOfRange = errors.New("magnesium: vector maps to a priority outside the configured range")
)

// assert is the Go analogue of the original's assert()-then-halt error
// class (spec.md §7 "Programming invariant"): a violation here means the
// embedder broke a contract the type system can't express, and there is
// no sane recovery — on bare metal this resolves to a halt or LED-panic,
// here it panics.
func assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("magnesium: invariant violated: "+format, args...))
	}
}
