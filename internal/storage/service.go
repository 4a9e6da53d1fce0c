package storage

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/persistfs/internal/async"
	"github.com/GriffinCanCode/persistfs/internal/native"
	"github.com/GriffinCanCode/persistfs/internal/shared/id"
)

const tracerName = "github.com/GriffinCanCode/persistfs/internal/storage"

// Service runs storage operations against one provider.
type Service struct {
	provider native.Provider
	sched    async.Scheduler
	handle   RootHandle

	logger   *zap.Logger
	recorder Recorder
	tracer   trace.Tracer

	initialQuotaMB float64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithRecorder reports operation metrics to rec.
func WithRecorder(rec Recorder) Option {
	return func(s *Service) { s.recorder = rec }
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

// WithInitialQuotaMB sets the quota requested when the handle is acquired.
func WithInitialQuotaMB(mb float64) Option {
	return func(s *Service) { s.initialQuotaMB = mb }
}

// WithHandle replaces the handle the service would otherwise create.
func WithHandle(h RootHandle) Option {
	return func(s *Service) { s.handle = h }
}

// New creates a service and starts acquiring its handle.
func New(provider native.Provider, sched async.Scheduler, opts ...Option) *Service {
	s := &Service{
		provider:       provider,
		sched:          sched,
		logger:         zap.NewNop(),
		recorder:       nopRecorder{},
		tracer:         otel.Tracer(tracerName),
		initialQuotaMB: DefaultInitialQuotaMB,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.handle == nil {
		s.handle = NewHandle(provider, sched, s.initialQuotaMB,
			WithHandleLogger(s.logger),
			WithHandleRecorder(s.recorder),
		)
	}
	s.handle.FileSystem()

	return s
}

// Handle returns the service's root handle.
func (s *Service) Handle() RootHandle {
	return s.handle
}

// IsSupported reports whether the provider offers persistent storage.
func (s *Service) IsSupported() bool {
	return s.provider.Supported()
}

// op is one in-flight operation. It settles its promise at most once and
// records the outcome when it does.
type op[T any] struct {
	s     *Service
	name  string
	path  string
	id    id.OperationID
	start time.Time
	span  trace.Span
	d     *async.Deferred[T]
	once  sync.Once
}

func begin[T any](ctx context.Context, s *Service, name, path string) *op[T] {
	o := &op[T]{
		s:     s,
		name:  name,
		path:  path,
		id:    id.NewOperationID(),
		start: time.Now(),
		d:     async.NewDeferred[T](s.sched),
	}
	_, o.span = s.tracer.Start(ctx, "storage."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("storage.op_id", o.id.String()),
			attribute.String("storage.path", path),
		),
	)
	return o
}

func (o *op[T]) promise() *async.Promise[T] {
	return o.d.Promise()
}

func (o *op[T]) resolve(v T) {
	o.once.Do(func() {
		o.finish(nil)
		o.d.Resolve(v)
	})
}

// reject settles with err as given. Handle failures go through here so they
// reach callers unchanged.
func (o *op[T]) reject(err error) {
	o.once.Do(func() {
		o.finish(err)
		o.d.Reject(err)
	})
}

func (o *op[T]) fail(kind Kind, cause error) {
	o.reject(newError(kind, o.name, o.path, cause))
}

// withRoot runs fn with the storage root once the handle is ready.
func (o *op[T]) withRoot(fn func(root native.DirectoryEntry)) {
	o.s.handle.FileSystem().Then(func(fs native.FileSystem) {
		fn(fs.Root())
	}, o.reject)
}

func (o *op[T]) finish(err error) {
	elapsed := time.Since(o.start)
	outcome := outcomeOK
	if err != nil {
		outcome = KindOf(err).String()
	}
	o.s.recorder.ObserveOperation(o.name, outcome, elapsed)

	fields := []zap.Field{
		zap.String("op", o.name),
		zap.String("op_id", o.id.String()),
		zap.String("path", o.path),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, outcome)
		o.s.logger.Warn("Storage operation failed", append(fields, zap.Error(err))...)
	} else {
		o.span.SetStatus(codes.Ok, "")
		o.s.logger.Debug("Storage operation completed", fields...)
	}
	o.span.End()
}
