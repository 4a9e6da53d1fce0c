package storage

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/persistfs/internal/async"
	"github.com/GriffinCanCode/persistfs/internal/native"
)

// HandleState is the lifecycle state of a Handle.
type HandleState int32

const (
	HandleUninitialized HandleState = iota
	HandlePending
	HandleReady
	HandleFailed
)

// String returns the string representation of the state
func (s HandleState) String() string {
	switch s {
	case HandleUninitialized:
		return "uninitialized"
	case HandlePending:
		return "pending"
	case HandleReady:
		return "ready"
	case HandleFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RootHandle yields the acquired storage root.
type RootHandle interface {
	// FileSystem starts acquisition on first use and returns the shared
	// result on every call.
	FileSystem() *async.Promise[native.FileSystem]
	State() HandleState
}

// Handle acquires the storage root once: quota negotiation, then root
// acquisition. The outcome, success or failure, is kept for good.
type Handle struct {
	provider   native.Provider
	quotaBytes int64
	logger     *zap.Logger
	recorder   Recorder

	once     sync.Once
	state    atomic.Int32
	deferred *async.Deferred[native.FileSystem]
}

var _ RootHandle = (*Handle)(nil)

// HandleOption configures a Handle.
type HandleOption func(*Handle)

// WithHandleLogger sets the handle's logger.
func WithHandleLogger(logger *zap.Logger) HandleOption {
	return func(h *Handle) { h.logger = logger }
}

// WithHandleRecorder reports state transitions to rec.
func WithHandleRecorder(rec Recorder) HandleOption {
	return func(h *Handle) { h.recorder = rec }
}

// NewHandle creates an unacquired handle that will request initialQuotaMB.
func NewHandle(provider native.Provider, sched async.Scheduler, initialQuotaMB float64, opts ...HandleOption) *Handle {
	h := &Handle{
		provider:   provider,
		quotaBytes: quotaBytes(initialQuotaMB),
		logger:     zap.NewNop(),
		recorder:   nopRecorder{},
		deferred:   async.NewDeferred[native.FileSystem](sched),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FileSystem implements RootHandle.
func (h *Handle) FileSystem() *async.Promise[native.FileSystem] {
	h.once.Do(h.acquire)
	return h.deferred.Promise()
}

// State implements RootHandle.
func (h *Handle) State() HandleState {
	return HandleState(h.state.Load())
}

func (h *Handle) acquire() {
	h.setState(HandlePending)

	if !h.provider.Supported() {
		h.fail(newError(KindQuotaRequestFailed, "acquire", "", native.ErrNotSupported))
		return
	}

	h.logger.Debug("Requesting storage quota", zap.Int64("bytes", h.quotaBytes))
	h.provider.RequestQuota(h.quotaBytes, func(granted int64) {
		h.provider.RequestFileSystem(granted, func(fs native.FileSystem) {
			h.setState(HandleReady)
			h.logger.Info("Storage handle ready",
				zap.String("filesystem", fs.Name()),
				zap.Int64("granted", granted),
			)
			h.deferred.Resolve(fs)
		}, func(err error) {
			h.fail(newError(KindFileSystemAccessFailed, "acquire", "", err))
		})
	}, func(err error) {
		h.fail(newError(KindQuotaRequestFailed, "acquire", "", err))
	})
}

func (h *Handle) fail(err *Error) {
	h.setState(HandleFailed)
	h.logger.Error("Storage handle failed", zap.Stringer("kind", err.Kind), zap.Error(err))
	h.deferred.Reject(err)
}

func (h *Handle) setState(s HandleState) {
	h.state.Store(int32(s))
	h.recorder.SetHandleState(s.String())
}
