package storage

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/persistfs/internal/async"
	"github.com/GriffinCanCode/persistfs/internal/blob"
	"github.com/GriffinCanCode/persistfs/internal/native"
)

// writePhase tracks one write through the native writer's signals.
type writePhase int

const (
	phaseAwaitingWrite writePhase = iota
	phaseAwaitingTruncate
	phaseDone
)

// writeSession drives one native writer. Its handlers run on the scheduler.
type writeSession struct {
	o     *op[struct{}]
	w     native.FileWriter
	size  int64
	phase writePhase
}

func (ws *writeSession) writeEnd() {
	switch ws.phase {
	case phaseAwaitingWrite:
		ws.phase = phaseAwaitingTruncate
		ws.w.Truncate(ws.w.Position())
	case phaseAwaitingTruncate:
		ws.phase = phaseDone
		ws.o.s.recorder.AddBytes(bytesWritten, ws.size)
		ws.o.resolve(struct{}{})
	}
}

func (ws *writeSession) writeError(err error) {
	if ws.phase == phaseDone {
		return
	}
	ws.phase = phaseDone
	ws.o.fail(KindFileWriteFailed, err)
}

// WriteBlob writes req.Payload to req.Path, creating the file if needed.
// Overwrites leave exactly the payload behind; appends add it after the
// current end of file.
func (s *Service) WriteBlob(ctx context.Context, req WriteRequest) *async.Promise[struct{}] {
	o := begin[struct{}](ctx, s, "WriteBlob", req.Path)
	s.write(o, req)
	return o.promise()
}

// WriteText writes text. An empty mimeType means text/plain.
func (s *Service) WriteText(ctx context.Context, path, text, mimeType string, appending bool) *async.Promise[struct{}] {
	return s.WriteBlob(ctx, WriteRequest{Path: path, Payload: blob.FromText(text, mimeType), Append: appending})
}

// WriteArrayBuffer writes raw bytes.
func (s *Service) WriteArrayBuffer(ctx context.Context, path string, buf []byte, mimeType string, appending bool) *async.Promise[struct{}] {
	return s.WriteBlob(ctx, WriteRequest{Path: path, Payload: blob.New(buf, mimeType), Append: appending})
}

// AppendText appends text to the file at path.
func (s *Service) AppendText(ctx context.Context, path, text, mimeType string) *async.Promise[struct{}] {
	return s.WriteText(ctx, path, text, mimeType, true)
}

// AppendBlob appends b to the file at path.
func (s *Service) AppendBlob(ctx context.Context, path string, b *blob.Blob) *async.Promise[struct{}] {
	return s.WriteBlob(ctx, WriteRequest{Path: path, Payload: b, Append: true})
}

// WriteFileInput reads src to the end and writes what it read to path. The
// read happens off the scheduler, so src must stay readable until the
// promise settles. An empty mimeType is sniffed.
func (s *Service) WriteFileInput(ctx context.Context, path string, src io.Reader, mimeType string) *async.Promise[struct{}] {
	o := begin[struct{}](ctx, s, "WriteFileInput", path)

	go func() {
		payload, err := blob.FromReader(src, mimeType)
		s.sched.Schedule(func() {
			if err != nil {
				o.fail(KindFileReadFailed, err)
				return
			}
			s.write(o, WriteRequest{Path: path, Payload: payload})
		})
	}()
	return o.promise()
}

func (s *Service) write(o *op[struct{}], req WriteRequest) {
	path := normalizePath(req.Path)
	payload := req.Payload
	if payload == nil {
		payload = blob.New(nil, "")
	}
	failCreate := func(err error) { o.fail(KindFileCreateFailed, err) }

	o.withRoot(func(root native.DirectoryEntry) {
		root.GetFile(path, native.Flags{Create: true}, func(f native.FileEntry) {
			f.CreateWriter(func(w native.FileWriter) {
				ws := &writeSession{o: o, w: w, size: payload.Size()}
				w.OnWriteEnd(ws.writeEnd)
				w.OnError(ws.writeError)

				if req.Append {
					w.SeekTo(w.Length())
				}
				w.Write(payload)
			}, failCreate)
		}, failCreate)
	})
}

// DeleteFile removes the file at path. A missing file is an error.
func (s *Service) DeleteFile(ctx context.Context, path string) *async.Promise[struct{}] {
	o := begin[struct{}](ctx, s, "DeleteFile", path)

	o.withRoot(func(root native.DirectoryEntry) {
		fail := func(err error) { o.fail(KindFileDeleteFailed, err) }
		root.GetFile(normalizePath(path), native.Flags{}, func(f native.FileEntry) {
			f.Remove(func() { o.resolve(struct{}{}) }, fail)
		}, fail)
	})
	return o.promise()
}

// AppendToFile never writes and never settles once the handle is ready; it
// only reports handle failures. Bound it with a context.
//
// Deprecated: use AppendText or WriteBlob with Append set.
func (s *Service) AppendToFile(ctx context.Context, path, contents, mimeType string) *async.Promise[struct{}] {
	s.logger.Warn("AppendToFile does nothing, use AppendText",
		zap.String("path", path),
		zap.Int("bytes", len(contents)),
		zap.String("type", mimeType),
	)

	d := async.NewDeferred[struct{}](s.sched)
	s.handle.FileSystem().Then(nil, d.Reject)
	return d.Promise()
}
