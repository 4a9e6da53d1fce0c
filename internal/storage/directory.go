package storage

import (
	"context"

	"github.com/GriffinCanCode/persistfs/internal/async"
	"github.com/GriffinCanCode/persistfs/internal/native"
)

// CreateFolder creates every missing directory along path and resolves with
// the deepest one. Directories created before a failing segment are kept.
func (s *Service) CreateFolder(ctx context.Context, path string) *async.Promise[native.DirectoryEntry] {
	o := begin[native.DirectoryEntry](ctx, s, "CreateFolder", path)
	segs := segments(path)

	o.withRoot(func(root native.DirectoryEntry) {
		var step func(dir native.DirectoryEntry, i int)
		step = func(dir native.DirectoryEntry, i int) {
			if i == len(segs) {
				o.resolve(dir)
				return
			}
			dir.GetDirectory(segs[i], native.Flags{Create: true}, func(next native.DirectoryEntry) {
				step(next, i+1)
			}, func(err error) {
				o.fail(KindDirectoryCreateFailed, err)
			})
		}
		step(root, 0)
	})
	return o.promise()
}

// FolderContents lists the immediate children of path in provider order.
func (s *Service) FolderContents(ctx context.Context, path string) *async.Promise[[]native.Entry] {
	o := begin[[]native.Entry](ctx, s, "FolderContents", path)

	o.withRoot(func(root native.DirectoryEntry) {
		resolveDir(root, normalizePath(path), func(dir native.DirectoryEntry) {
			readAll(dir.CreateReader(), nil, o.resolve, func(err error) {
				o.fail(KindDirectoryReadFailed, err)
			})
		}, func(err error) {
			o.fail(KindDirectoryAccessFailed, err)
		})
	})
	return o.promise()
}

// DeleteFolder removes the directory at path. Without recursive a non-empty
// directory is not removed.
func (s *Service) DeleteFolder(ctx context.Context, path string, recursive bool) *async.Promise[struct{}] {
	o := begin[struct{}](ctx, s, "DeleteFolder", path)

	o.withRoot(func(root native.DirectoryEntry) {
		fail := func(err error) { o.fail(KindDirectoryDeleteFailed, err) }
		done := func() { o.resolve(struct{}{}) }

		resolveDir(root, normalizePath(path), func(dir native.DirectoryEntry) {
			if recursive {
				dir.RemoveRecursively(done, fail)
				return
			}
			dir.Remove(done, fail)
		}, fail)
	})
	return o.promise()
}

// resolveDir looks up an existing directory. The empty path is root.
func resolveDir(root native.DirectoryEntry, path string, onSuccess func(native.DirectoryEntry), onError func(error)) {
	if path == "" {
		onSuccess(root)
		return
	}
	root.GetDirectory(path, native.Flags{}, onSuccess, onError)
}

// readAll drains r until it returns an empty batch.
func readAll(r native.DirectoryReader, acc []native.Entry, onSuccess func([]native.Entry), onError func(error)) {
	r.ReadEntries(func(batch []native.Entry) {
		if len(batch) == 0 {
			if acc == nil {
				acc = []native.Entry{}
			}
			onSuccess(acc)
			return
		}
		readAll(r, append(acc, batch...), onSuccess, onError)
	}, onError)
}
