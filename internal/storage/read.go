package storage

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/persistfs/internal/async"
	"github.com/GriffinCanCode/persistfs/internal/native"
)

// ReadFile reads the whole file at req.Path and decodes it.
func (s *Service) ReadFile(ctx context.Context, req ReadRequest) *async.Promise[Content] {
	o := begin[Content](ctx, s, "ReadFile", req.Path)
	decoding := ParseDecoding(string(req.Decoding))

	o.withRoot(func(root native.DirectoryEntry) {
		fail := func(err error) { o.fail(KindFileAccessFailed, err) }
		root.GetFile(normalizePath(req.Path), native.Flags{}, func(f native.FileEntry) {
			f.File(func(file *native.File) {
				content, err := decode(file, decoding)
				if err != nil {
					o.fail(KindFileReadFailed, err)
					return
				}
				s.recorder.AddBytes(bytesRead, content.Size)
				o.resolve(content)
			}, fail)
		}, fail)
	})
	return o.promise()
}

func decode(file *native.File, decoding Decoding) (Content, error) {
	c := Content{Decoding: decoding, Type: file.Type(), Size: file.Size()}

	var err error
	switch decoding {
	case DecodingArrayBuffer:
		c.Data = file.Bytes()
	case DecodingBinaryString:
		c.Text, err = file.BinaryString()
	case DecodingDataURL:
		c.Text = file.DataURL()
	default:
		c.Text, err = file.Text()
	}
	if err != nil {
		return Content{}, fmt.Errorf("decode %s as %s: %w", file.Name, decoding, err)
	}
	return c, nil
}

// GetFile returns a snapshot of the file at path.
func (s *Service) GetFile(ctx context.Context, path string) *async.Promise[*native.File] {
	o := begin[*native.File](ctx, s, "GetFile", path)

	o.withRoot(func(root native.DirectoryEntry) {
		fail := func(err error) { o.fail(KindFileAccessFailed, err) }
		root.GetFile(normalizePath(path), native.Flags{}, func(f native.FileEntry) {
			f.File(o.resolve, fail)
		}, fail)
	})
	return o.promise()
}

// GetFileEntry returns the entry for the file at path.
func (s *Service) GetFileEntry(ctx context.Context, path string) *async.Promise[native.FileEntry] {
	o := begin[native.FileEntry](ctx, s, "GetFileEntry", path)

	o.withRoot(func(root native.DirectoryEntry) {
		root.GetFile(normalizePath(path), native.Flags{}, o.resolve, func(err error) {
			o.fail(KindFileAccessFailed, err)
		})
	})
	return o.promise()
}

// GetFileFromLocalFileSystemURL resolves a storage URL to a file snapshot.
// It does not wait for the handle.
func (s *Service) GetFileFromLocalFileSystemURL(ctx context.Context, url string) *async.Promise[*native.File] {
	o := begin[*native.File](ctx, s, "GetFileFromLocalFileSystemURL", url)

	s.provider.ResolveLocalFileSystemURL(url, func(e native.Entry) {
		f, ok := e.(native.FileEntry)
		if !ok || !e.IsFile() {
			o.fail(KindFileAccessFailed, fmt.Errorf("%s: %w", e.FullPath(), native.ErrTypeMismatch))
			return
		}
		f.File(o.resolve, func(err error) {
			o.fail(KindFileAccessFailed, err)
		})
	}, func(err error) {
		o.fail(KindURLResolutionFailed, err)
	})
	return o.promise()
}
