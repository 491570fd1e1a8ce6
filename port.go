// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

// Port is the interrupt-controller abstraction spec.md §4.6 and §9
// describe as an external collaborator: board bring-up, register pokes,
// and chip-specific CLZ fallbacks are out of scope for this module and
// live entirely behind this interface. An embedder supplies one
// implementation per target; this package's own tests use
// code.hybscloud.com/magnesium/port/simport, a software simulation with
// no hardware dependency at all.
type Port interface {
	// VectToPrio maps a hardware vector to a logical priority. Monotone
	// within a platform's priority bits.
	VectToPrio(vect uint32) int

	// InterruptRequest posts vect as pending on cpu. Implementations
	// must self-pend locally when cpu == ThisCPU() and route through
	// the doorbell scheme otherwise (spec.md §4.5).
	InterruptRequest(cpu int, vect uint32)

	// ThisCPU identifies the current core.
	ThisCPU() int

	// CriticalSectionEnter disables interrupts at this core. Nested
	// calls must be safe (refcounted or idempotent).
	CriticalSectionEnter()

	// CriticalSectionLeave re-enables interrupts at this core.
	CriticalSectionLeave()

	// CLZ counts leading zeros of a nonzero 32-bit value.
	CLZ(x uint32) int

	// WaitEvent blocks the calling core until SendEvent targets it.
	// Used only while spinning on a spinlock (SMP only).
	WaitEvent()

	// SendEvent wakes a core parked in WaitEvent.
	SendEvent(cpu int)
}
