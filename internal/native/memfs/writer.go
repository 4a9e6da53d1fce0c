package memfs

import (
	"fmt"
	"sync"

	"github.com/GriffinCanCode/persistfs/internal/blob"
	"github.com/GriffinCanCode/persistfs/internal/native"
)

var _ native.FileWriter = (*fileWriter)(nil)

// fileWriter writes into a node. It never truncates on its own.
type fileWriter struct {
	p *Provider
	n *node

	mu         sync.Mutex
	position   int64
	busy       bool
	onWriteEnd func()
	onError    func(error)
}

func (w *fileWriter) Position() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.position
}

func (w *fileWriter) Length() int64 {
	w.p.mu.Lock()
	defer w.p.mu.Unlock()
	return int64(len(w.n.data))
}

// SeekTo moves the position. Negative offsets count back from the end; the
// result is clamped to [0, Length].
func (w *fileWriter) SeekTo(offset int64) {
	length := w.Length()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return
	}
	if offset < 0 {
		offset += length
	}
	w.position = max(0, min(offset, length))
}

func (w *fileWriter) OnWriteEnd(fn func()) {
	w.mu.Lock()
	w.onWriteEnd = fn
	w.mu.Unlock()
}

func (w *fileWriter) OnError(fn func(error)) {
	w.mu.Lock()
	w.onError = fn
	w.mu.Unlock()
}

// Write stores data at the current position, extending the file as needed.
func (w *fileWriter) Write(data *blob.Blob) {
	pos, ok := w.begin()
	if !ok {
		return
	}
	payload := data.Bytes()
	typ := data.Type()

	w.p.sched.Schedule(func() {
		w.p.mu.Lock()
		err := w.p.writeAt(w.n, pos, payload, typ)
		w.p.mu.Unlock()

		w.finish(err, func() { w.position = pos + int64(len(payload)) })
	})
}

// Truncate sets the file length, zero-filling when it grows.
func (w *fileWriter) Truncate(size int64) {
	if _, ok := w.begin(); !ok {
		return
	}

	w.p.sched.Schedule(func() {
		var err error
		if size < 0 {
			err = fmt.Errorf("truncate to %d: %w", size, native.ErrInvalidModification)
		} else {
			w.p.mu.Lock()
			err = w.p.truncate(w.n, size)
			w.p.mu.Unlock()
		}

		w.finish(err, func() { w.position = min(w.position, size) })
	})
}

// begin marks the writer busy; a second operation while one is pending is
// reported as ErrInvalidState.
func (w *fileWriter) begin() (int64, bool) {
	w.mu.Lock()
	if w.busy {
		onError := w.onError
		w.mu.Unlock()
		if onError != nil {
			w.p.sched.Schedule(func() { onError(fmt.Errorf("operation already pending: %w", native.ErrInvalidState)) })
		}
		return 0, false
	}
	w.busy = true
	pos := w.position
	w.mu.Unlock()
	return pos, true
}

func (w *fileWriter) finish(err error, advance func()) {
	w.mu.Lock()
	w.busy = false
	if err == nil {
		advance()
	}
	onWriteEnd, onError := w.onWriteEnd, w.onError
	w.mu.Unlock()

	if err != nil && onError != nil {
		onError(err)
	}
	if onWriteEnd != nil {
		onWriteEnd()
	}
}

// writeAt copies payload into n at pos. Callers must hold p.mu.
func (p *Provider) writeAt(n *node, pos int64, payload []byte, typ string) error {
	if n.removed {
		return fmt.Errorf("%s: %w", n.fullPath(), native.ErrNotFound)
	}

	end := pos + int64(len(payload))
	if grow := end - int64(len(n.data)); grow > 0 {
		if err := p.reserve(grow); err != nil {
			return err
		}
		n.data = append(n.data, make([]byte, grow)...)
	}
	copy(n.data[pos:end], payload)

	if typ != "" {
		n.typ = typ
	}
	n.modified = p.now()
	return nil
}

// truncate resizes n. Callers must hold p.mu.
func (p *Provider) truncate(n *node, size int64) error {
	if n.removed {
		return fmt.Errorf("%s: %w", n.fullPath(), native.ErrNotFound)
	}

	length := int64(len(n.data))
	if err := p.reserve(size - length); err != nil {
		return err
	}
	if size < length {
		n.data = n.data[:size]
	} else {
		n.data = append(n.data, make([]byte, size-length)...)
	}
	n.modified = p.now()
	return nil
}
