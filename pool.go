// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

// Message is a fixed-size block handed out by a MessagePool. Its
// lifetime belongs to exactly one of: the pool's free-list queue, a
// user Queue's ring, or an in-flight actor callback's Mailbox — never
// two of those at once (spec.md §3).
type Message struct {
	pool    *MessagePool
	payload []byte
}

// Payload returns the message's fixed-size data block. The slice is
// only valid while the caller holds the message (between Alloc/receipt
// and Free); it is reused by the next Alloc of the same block.
func (m *Message) Payload() []byte {
	return m.payload
}

// MessagePool is a bounded pre-allocated block allocator (spec.md §4.2):
// it carves fixed-size blocks out of a single byte arena by bumping an
// offset, then recycles freed blocks through its own free-list queue —
// which is itself a Queue, always in message mode, giving the
// at-most-one-owner invariant for free.
//
// In the Go re-architecture the block "header" the original stamps into
// the arena (a back-pointer to the owning pool) becomes a pre-allocated
// Message struct; the arena underlies only the payload bytes. This
// keeps the bounded, allocate-once-at-boot property (spec.md §1
// non-goals: no dynamic allocation beyond bounded pre-allocated pools)
// without needing unsafe casts from raw bytes to a Go struct.
type MessagePool struct {
	lk             spinlock
	messages       []Message
	blockSize      int
	totalLength    int
	offset         int
	spaceAvailable bool
	free           *Queue
}

// NewMessagePool creates a pool over mem, a byte arena the embedder owns
// for the lifetime of the pool, divided into fixed blockSize blocks.
// Requires len(mem) >= blockSize.
func NewMessagePool(mem []byte, blockSize int) (*MessagePool, error) {
	if blockSize < 1 || len(mem) < blockSize {
		return nil, ErrPoolGeometry
	}

	blockCount := len(mem) / blockSize
	p := &MessagePool{
		blockSize:      blockSize,
		totalLength:    len(mem),
		spaceAvailable: true,
		messages:       make([]Message, blockCount),
	}
	p.free = newQueue(blockCount, nil)

	for i := range p.messages {
		p.messages[i].pool = p
		p.messages[i].payload = mem[i*blockSize : (i+1)*blockSize : (i+1)*blockSize]
	}
	return p, nil
}

// Alloc returns a fresh block, or nil if the pool is exhausted (spec.md
// §7: pool exhaustion is a caller decision point, not an error).
//
// Policy: while bump space remains, hand out the next never-used block;
// once the arena is exhausted, pop from the free-list instead. The
// bump-termination check is the conservative variant decided in
// SPEC_FULL.md's Open Questions log: a block is bump-allocated only
// while offset+blockSize <= totalLength, checked before taking it, so
// every block in the arena — including the last — is reachable by bump.
func (p *MessagePool) Alloc() *Message {
	p.lk.lock()
	var m *Message
	if p.spaceAvailable {
		idx := p.offset / p.blockSize
		m = &p.messages[idx]
		p.offset += p.blockSize
		if p.offset+p.blockSize > p.totalLength {
			p.spaceAvailable = false
		}
	}
	p.lk.unlock()

	if m == nil {
		m = p.free.Pop(nil)
	}
	return m
}

// Free returns m to its pool's free-list, making it available to a
// future Alloc. m must have come from a pool (never the zero Message).
func (m *Message) Free() {
	assert(m.pool != nil, "Free called on a Message with no owning pool")
	m.pool.free.Push(m)
}

// Stats reports the pool's current occupancy: how many blocks are
// currently allocated (outstanding, not on the free-list and not
// unissued), how many freed blocks sit on the free-list, and the pool's
// total block capacity. Blocks the bump allocator has not issued yet are
// counted in neither allocated nor free.
func (p *MessagePool) Stats() (allocated, free, capacity int) {
	p.lk.lock()
	issued := p.offset / p.blockSize
	p.lk.unlock()

	n, _ := p.free.Len()
	capacity = len(p.messages)
	free = n
	allocated = issued - n
	return allocated, free, capacity
}
