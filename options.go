// © Magnesium Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package magnesium

// Options collects NewContext's configuration (SPEC_FULL.md's
// configuration expansion), using the closure-based functional-option
// style from inprocgrpc's Option/channelOptions (joeycumines-go-utilpkg),
// not the teacher's own fluent *Builder chain (lfq.New(capacity).SingleProducer()...),
// which NewContext's variadic-args-at-construction shape doesn't fit.
type Options struct {
	priorities   int
	timerBuckets int
	cpus         int
	maxActors    int
	port         Port
	doorbellVect uint32
	vectOfPrio   []uint32
}

// Option configures a Context at construction time.
type Option func(*Options)

// WithPriorities sets the number of priority levels (run queues per
// CPU). Defaults to 1 if omitted; must be >= 1.
func WithPriorities(n int) Option {
	return func(o *Options) { o.priorities = n }
}

// WithTimerBuckets sets the timer wheel's bucket count. Zero (the
// default) disables the timer wheel entirely: SleepFor then panics via
// the assert in Context.scheduleTimeout, and Tick is a no-op.
func WithTimerBuckets(n int) Option {
	return func(o *Options) { o.timerBuckets = n }
}

// WithCPUs sets the number of cores this context schedules across.
// Defaults to 1 (uniprocessor) if omitted.
func WithCPUs(n int) Option {
	return func(o *Options) { o.cpus = n }
}

// WithMaxActors sets the ceiling on actors simultaneously parked on any
// one run queue or timer bucket — the static upper bound the original
// takes from a compile-time array declaration. Required; must be >= 1.
func WithMaxActors(n int) Option {
	return func(o *Options) { o.maxActors = n }
}

// WithPort supplies the embedder's interrupt-controller binding.
// Required.
func WithPort(p Port) Option {
	return func(o *Options) { o.port = p }
}

// WithDoorbellVector sets the vector the embedder's doorbell interrupt
// handler is wired to, used only when WithCPUs(n) with n > 1.
func WithDoorbellVector(vect uint32) Option {
	return func(o *Options) { o.doorbellVect = vect }
}

// WithPriorityVectors supplies the reserved vector for each priority
// level, indexed by priority (vects[i] is priority i's vector) — the
// inverse of Port.VectToPrio, needed so Context.Doorbell can turn a
// drained priority bit back into a concrete InterruptRequest. Required
// whenever WithCPUs(n) with n > 1; len(vects) must equal the configured
// priority count.
func WithPriorityVectors(vects ...uint32) Option {
	return func(o *Options) { o.vectOfPrio = append([]uint32(nil), vects...) }
}

// NewContext builds a Context from opts. A max actor count and a Port
// are always mandatory; priorities and CPU count default to 1, and timer
// buckets default to 0 (disabled). When more than one CPU is
// configured, WithPriorityVectors is also mandatory, so Doorbell can
// repost a woken priority's interrupt.
func NewContext(opts ...Option) (*Context, error) {
	o := Options{cpus: 1, priorities: 1}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case o.priorities < 1:
		return nil, ErrNoPriorities
	case o.cpus < 1:
		return nil, ErrNoCPUs
	case o.port == nil:
		return nil, ErrNoPort
	case o.maxActors < 1:
		return nil, ErrNoMaxActors
	case o.cpus > 1 && len(o.vectOfPrio) != o.priorities:
		return nil, ErrPriorityVectors
	}

	ctx := &Context{
		port:          o.port,
		priorities:    o.priorities,
		doorbellVect:  o.doorbellVect,
		vectOfPrio:    o.vectOfPrio,
		timersEnabled: o.timerBuckets > 0,
	}

	ctx.cpus = make([]*cpu, o.cpus)
	ctx.ipi = make([]ipiBitmap, o.cpus)
	for i := range ctx.cpus {
		c := &cpu{runq: make([]*ring, o.priorities)}
		for p := range c.runq {
			c.runq[p] = newRing(o.maxActors)
		}
		c.lk.port = o.port
		if ctx.timersEnabled {
			c.timers = newTimerWheel(o.timerBuckets, o.maxActors)
		}
		ctx.cpus[i] = c
	}
	return ctx, nil
}
