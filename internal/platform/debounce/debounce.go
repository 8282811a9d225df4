// Package debounce delays propagation of a rapidly changing value until it has been stable for a
// fixed interval. Emission is trailing-edge: every Set restarts the wait.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*options)

type options struct {
	clock Clock
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	emit    func(T)
	clock   Clock
	seq     uint64
	timer   Timer
	pending bool
	next    T
	value   T
}

// New returns a debouncer calling emit with the last value once delay has passed without a newer
// Set. emit runs on the timer goroutine, outside the debouncer lock.
func New[T any](delay time.Duration, emit func(T), opts ...Option) *Debouncer[T] {
	o := options{clock: realClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if emit == nil {
		emit = func(T) {}
	}

	return &Debouncer[T]{
		delay: delay,
		emit:  emit,
		clock: o.clock,
	}
}

// Set records v and restarts the delay. A pending emission is superseded.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.seq++
	seq := d.seq
	d.next = v
	d.pending = true
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Value returns the last emitted value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Cancel drops the pending emission, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.seq++
	d.pending = false
}

// Reset cancels the pending emission and sets the emitted value without calling emit.
func (d *Debouncer[T]) Reset(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.seq++
	d.pending = false
	d.value = v
}

// Flush emits the pending value now. It returns false when nothing was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	d.stopLocked()
	d.seq++
	v := d.commitLocked()
	d.mu.Unlock()

	d.emit(v)
	return true
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.pending {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	v := d.commitLocked()
	d.mu.Unlock()

	d.emit(v)
}

func (d *Debouncer[T]) commitLocked() T {
	d.pending = false
	d.value = d.next
	return d.value
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
