package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/persistfs/internal/async"
	"github.com/GriffinCanCode/persistfs/internal/blob"
	"github.com/GriffinCanCode/persistfs/internal/native"
	"github.com/GriffinCanCode/persistfs/internal/native/memfs"
)

func startLoop(t *testing.T) *async.Loop {
	t.Helper()
	loop := async.NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return loop
}

// newTestService returns a service over a fresh in-memory provider.
func newTestService(t *testing.T, providerOpts []memfs.Option, opts ...Option) (*Service, *memfs.Provider) {
	t.Helper()
	loop := startLoop(t)
	provider := memfs.New(loop, providerOpts...)
	return New(provider, loop, opts...), provider
}

func await[T any](t *testing.T, p *async.Promise[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := p.Await(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "promise never settled")
	return v, err
}

func mustAwait[T any](t *testing.T, p *async.Promise[T]) T {
	t.Helper()
	v, err := await(t, p)
	require.NoError(t, err)
	return v
}

func readText(t *testing.T, s *Service, path string) string {
	t.Helper()
	return mustAwait(t, s.ReadFile(context.Background(), ReadRequest{Path: path})).Text
}

func names(entries []native.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

// manualScheduler queues tasks until Tick drains them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

func (m *manualScheduler) Schedule(fn func()) {
	m.mu.Lock()
	m.tasks = append(m.tasks, fn)
	m.mu.Unlock()
}

func (m *manualScheduler) Tick() {
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			return
		}
		fn := m.tasks[0]
		m.tasks = m.tasks[1:]
		m.mu.Unlock()
		fn()
	}
}

// mockProvider answers native calls synchronously from its expectations.
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Supported() bool {
	return m.Called().Bool(0)
}

func (m *mockProvider) RequestQuota(bytes int64, onSuccess func(int64), onError func(error)) {
	args := m.Called(bytes)
	if err := args.Error(1); err != nil {
		onError(err)
		return
	}
	onSuccess(args.Get(0).(int64))
}

func (m *mockProvider) QueryUsageAndQuota(onSuccess func(used, quota int64), onError func(error)) {
	args := m.Called()
	if err := args.Error(2); err != nil {
		onError(err)
		return
	}
	onSuccess(args.Get(0).(int64), args.Get(1).(int64))
}

func (m *mockProvider) RequestFileSystem(size int64, onSuccess func(native.FileSystem), onError func(error)) {
	args := m.Called(size)
	if err := args.Error(1); err != nil {
		onError(err)
		return
	}
	onSuccess(args.Get(0).(native.FileSystem))
}

func (m *mockProvider) ResolveLocalFileSystemURL(url string, onSuccess func(native.Entry), onError func(error)) {
	args := m.Called(url)
	if err := args.Error(1); err != nil {
		onError(err)
		return
	}
	onSuccess(args.Get(0).(native.Entry))
}

// fakeWriter records what the write session asks of it.
type fakeWriter struct {
	position  int64
	length    int64
	writes    []*blob.Blob
	seeks     []int64
	truncates []int64
	onEnd     func()
	onErr     func(error)
}

func (w *fakeWriter) Position() int64        { return w.position }
func (w *fakeWriter) Length() int64          { return w.length }
func (w *fakeWriter) SeekTo(offset int64)    { w.seeks = append(w.seeks, offset); w.position = offset }
func (w *fakeWriter) Write(b *blob.Blob)     { w.writes = append(w.writes, b); w.position += b.Size() }
func (w *fakeWriter) Truncate(size int64)    { w.truncates = append(w.truncates, size) }
func (w *fakeWriter) OnWriteEnd(fn func())   { w.onEnd = fn }
func (w *fakeWriter) OnError(fn func(error)) { w.onErr = fn }

// stubHandle is a RootHandle with a fixed outcome.
type stubHandle struct {
	p     *async.Promise[native.FileSystem]
	state HandleState
}

func (h *stubHandle) FileSystem() *async.Promise[native.FileSystem] { return h.p }
func (h *stubHandle) State() HandleState                            { return h.state }

// stubFS serves a single scripted root directory.
type stubFS struct {
	root native.DirectoryEntry
}

func (fs stubFS) Name() string                { return "stub" }
func (fs stubFS) Root() native.DirectoryEntry { return fs.root }

// failingReaderDir is a root whose reader always fails. Methods it does not
// override are never called by the tests that use it.
type failingReaderDir struct {
	native.DirectoryEntry
	err error
}

func (d failingReaderDir) CreateReader() native.DirectoryReader { return failingReader{d.err} }

type failingReader struct{ err error }

func (r failingReader) ReadEntries(_ func([]native.Entry), onError func(error)) { onError(r.err) }

// recordingRecorder keeps every observation.
type recordingRecorder struct {
	mu     sync.Mutex
	ops    []string
	states []string
	bytes  map[string]int64
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{bytes: make(map[string]int64)}
}

func (r *recordingRecorder) ObserveOperation(op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op+":"+outcome)
}

func (r *recordingRecorder) SetHandleState(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recordingRecorder) AddBytes(direction string, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bytes[direction] += n
}

func (r *recordingRecorder) snapshot() ([]string, []string, map[string]int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bytes := make(map[string]int64, len(r.bytes))
	for k, v := range r.bytes {
		bytes[k] = v
	}
	return append([]string(nil), r.ops...), append([]string(nil), r.states...), bytes
}
