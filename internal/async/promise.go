package async

import (
	"context"
	"sync"
)

// State is the settlement state of a Promise.
type State int

const (
	StatePending State = iota
	StateFulfilled
	StateRejected
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFulfilled:
		return "fulfilled"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Promise is a single-resolution asynchronous result.
type Promise[T any] struct {
	sched Scheduler

	mu       sync.Mutex
	state    State
	value    T
	err      error
	handlers []func()
	done     chan struct{}
}

// Deferred is the producer side of a Promise.
type Deferred[T any] struct {
	promise *Promise[T]
}

// NewDeferred creates a pending promise bound to s.
func NewDeferred[T any](s Scheduler) *Deferred[T] {
	return &Deferred[T]{
		promise: &Promise[T]{
			sched: s,
			done:  make(chan struct{}),
		},
	}
}

// Promise returns the consumer side.
func (d *Deferred[T]) Promise() *Promise[T] {
	return d.promise
}

// Resolve fulfills the promise with v on the next scheduler tick.
func (d *Deferred[T]) Resolve(v T) {
	d.promise.sched.Schedule(func() {
		d.promise.settle(v, nil)
	})
}

// Reject rejects the promise with err on the next scheduler tick.
func (d *Deferred[T]) Reject(err error) {
	d.promise.sched.Schedule(func() {
		var zero T
		d.promise.settle(zero, err)
	})
}

// Resolved returns a promise that fulfills with v on the next tick.
func Resolved[T any](s Scheduler, v T) *Promise[T] {
	d := NewDeferred[T](s)
	d.Resolve(v)
	return d.Promise()
}

// Rejected returns a promise that rejects with err on the next tick.
func Rejected[T any](s Scheduler, err error) *Promise[T] {
	d := NewDeferred[T](s)
	d.Reject(err)
	return d.Promise()
}

// Then registers continuations. Either callback may be nil. Continuations
// registered on a settled promise run on the next scheduler tick.
func (p *Promise[T]) Then(onFulfilled func(T), onRejected func(error)) {
	run := func() {
		p.mu.Lock()
		state, value, err := p.state, p.value, p.err
		p.mu.Unlock()

		switch state {
		case StateFulfilled:
			if onFulfilled != nil {
				onFulfilled(value)
			}
		case StateRejected:
			if onRejected != nil {
				onRejected(err)
			}
		}
	}

	p.mu.Lock()
	if p.state == StatePending {
		p.handlers = append(p.handlers, run)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sched.Schedule(run)
}

// Await blocks until the promise settles or ctx is done. It must not be
// called from the scheduler goroutine.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the promise settles.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// State returns the current settlement state.
func (p *Promise[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Promise[T]) settle(v T, err error) {
	p.mu.Lock()
	if p.state != StatePending {
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.state = StateRejected
		p.err = err
	} else {
		p.state = StateFulfilled
		p.value = v
	}
	handlers := p.handlers
	p.handlers = nil
	close(p.done)
	p.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}
