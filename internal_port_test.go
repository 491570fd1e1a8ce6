// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

import "math/bits"

// fakePort is a minimal Port shared by the internal (white-box) test
// files in this package. It cannot live in port/simport: that package
// imports magnesium, so an internal test file importing it back would
// be a real import cycle within the compiled test binary. pending
// records every InterruptRequest so tests can assert on what got
// posted without needing a full Drain loop.
type fakePort struct {
	current int
	pending []fakeInterrupt
}

type fakeInterrupt struct {
	cpu  int
	vect uint32
}

func (p *fakePort) VectToPrio(v uint32) int { return int(v) }

func (p *fakePort) InterruptRequest(cpu int, vect uint32) {
	p.pending = append(p.pending, fakeInterrupt{cpu: cpu, vect: vect})
}

func (p *fakePort) ThisCPU() int { return p.current }

func (p *fakePort) CriticalSectionEnter() {}
func (p *fakePort) CriticalSectionLeave() {}

func (p *fakePort) CLZ(x uint32) int { return bits.LeadingZeros32(x) }

func (p *fakePort) WaitEvent()    {}
func (p *fakePort) SendEvent(int) {}

var _ Port = (*fakePort)(nil)
