package async

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrLoopStopped is returned by Run when the loop was stopped with Stop.
var ErrLoopStopped = errors.New("scheduler loop stopped")

// Scheduler queues work for later execution on a cooperative task loop.
type Scheduler interface {
	Schedule(fn func())
}

// Loop is a Scheduler that runs every task on a single goroutine, in the
// order the tasks were scheduled.
type Loop struct {
	logger *zap.Logger

	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake chan struct{}
	stop chan struct{}
	once sync.Once
}

// NewLoop creates a loop. Tasks scheduled before Run starts are kept.
func NewLoop(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		logger: logger,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
}

// Schedule enqueues fn. Tasks scheduled after the loop stopped are dropped.
func (l *Loop) Schedule(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		l.logger.Debug("Dropping task scheduled on stopped loop")
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			l.runTask(fn)
		}
		if len(batch) > 0 {
			// A task that keeps rescheduling itself must not starve
			// cancellation.
			select {
			case <-ctx.Done():
				l.halt()
				return ctx.Err()
			case <-l.stop:
				l.halt()
				return ErrLoopStopped
			default:
			}
			continue
		}

		select {
		case <-ctx.Done():
			l.halt()
			return ctx.Err()
		case <-l.stop:
			l.halt()
			return ErrLoopStopped
		case <-l.wake:
		}
	}
}

// Stop makes Run return once the current task finishes.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Loop) halt() {
	l.mu.Lock()
	l.stopped = true
	dropped := len(l.queue)
	l.queue = nil
	l.mu.Unlock()

	if dropped > 0 {
		l.logger.Warn("Scheduler loop stopped with queued tasks", zap.Int("dropped", dropped))
	}
}

// runTask keeps a panicking task from taking the loop down with it.
func (l *Loop) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Scheduled task panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	fn()
}
