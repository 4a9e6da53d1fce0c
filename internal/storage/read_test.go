package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/persistfs/internal/native"
)

func TestReadFileDecodings(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()
	mustAwait(t, s.WriteText(ctx, "greeting.txt", "héllo", "", false))

	tests := []struct {
		name     string
		decoding Decoding
		want     Decoding
		text     string
		data     []byte
	}{
		{name: "default", decoding: "", want: DecodingText, text: "héllo"},
		{name: "text", decoding: DecodingText, want: DecodingText, text: "héllo"},
		{name: "arraybuffer", decoding: DecodingArrayBuffer, want: DecodingArrayBuffer, data: []byte("héllo")},
		{name: "binarystring", decoding: DecodingBinaryString, want: DecodingBinaryString, text: "hÃ©llo"},
		{name: "dataurl", decoding: DecodingDataURL, want: DecodingDataURL, text: "data:text/plain;base64,aMOpbGxv"},
		{name: "unknown falls back to text", decoding: "hex", want: DecodingText, text: "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := mustAwait(t, s.ReadFile(ctx, ReadRequest{Path: "greeting.txt", Decoding: tt.decoding}))

			assert.Equal(t, tt.want, content.Decoding)
			assert.Equal(t, tt.text, content.Text)
			assert.Equal(t, tt.data, content.Data)
			assert.Equal(t, "text/plain", content.Type)
			assert.Equal(t, int64(6), content.Size)
		})
	}
}

func TestReadFileDeclaredCharset(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()
	mustAwait(t, s.WriteArrayBuffer(ctx, "latin.txt", []byte{'c', 'a', 'f', 0xe9}, "text/plain; charset=iso-8859-1", false))

	assert.Equal(t, "café", readText(t, s, "latin.txt"))
}

func TestReadFileErrors(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()
	mustAwait(t, s.CreateFolder(ctx, "dir"))
	mustAwait(t, s.WriteArrayBuffer(ctx, "odd.txt", []byte{0xff, 0xfe}, "text/plain; charset=x-unheard-of", false))

	tests := []struct {
		name string
		path string
		kind error
	}{
		{name: "missing", path: "missing.txt", kind: ErrFileAccessFailed},
		{name: "directory", path: "dir", kind: ErrFileAccessFailed},
		{name: "undecodable", path: "odd.txt", kind: ErrFileReadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := await(t, s.ReadFile(ctx, ReadRequest{Path: tt.path}))
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	content := mustAwait(t, s.ReadFile(ctx, ReadRequest{Path: "odd.txt", Decoding: DecodingArrayBuffer}))
	assert.Equal(t, []byte{0xff, 0xfe}, content.Data, "raw reads do not decode")
}

func TestGetFileAndEntry(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()
	mustAwait(t, s.CreateFolder(ctx, "docs"))
	mustAwait(t, s.WriteText(ctx, "docs/a.md", "# hi", "text/markdown", false))

	file := mustAwait(t, s.GetFile(ctx, "/docs/a.md"))
	assert.Equal(t, "a.md", file.Name)
	assert.Equal(t, int64(4), file.Size())
	assert.Equal(t, "text/markdown", file.Type())
	assert.False(t, file.LastModified.IsZero())

	entry := mustAwait(t, s.GetFileEntry(ctx, "docs/a.md"))
	assert.Equal(t, "/docs/a.md", entry.FullPath())
	assert.True(t, entry.IsFile())

	_, err := await(t, s.GetFile(ctx, "docs/missing"))
	assert.ErrorIs(t, err, ErrFileAccessFailed)
	_, err = await(t, s.GetFileEntry(ctx, "docs"))
	assert.ErrorIs(t, err, ErrFileAccessFailed)
	assert.ErrorIs(t, err, native.ErrTypeMismatch)
}

func TestGetFileFromLocalFileSystemURL(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()
	mustAwait(t, s.CreateFolder(ctx, "docs"))
	mustAwait(t, s.WriteText(ctx, "docs/a b.txt", "by url", "", false))

	entry := mustAwait(t, s.GetFileEntry(ctx, "docs/a b.txt"))
	file := mustAwait(t, s.GetFileFromLocalFileSystemURL(ctx, entry.ToURL()))
	assert.Equal(t, "by url", string(file.Bytes()))

	dir := mustAwait(t, s.CreateFolder(ctx, "docs"))

	tests := []struct {
		name string
		url  string
		kind error
	}{
		{name: "malformed", url: "not a url", kind: ErrURLResolutionFailed},
		{name: "foreign origin", url: "filesystem:http://elsewhere.example/persistent/docs", kind: ErrURLResolutionFailed},
		{name: "missing", url: "filesystem:http://localhost/persistent/docs/gone.txt", kind: ErrURLResolutionFailed},
		{name: "directory", url: dir.ToURL(), kind: ErrFileAccessFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := await(t, s.GetFileFromLocalFileSystemURL(ctx, tt.url))
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestGetFileFromURLSkipsHandle(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()
	mustAwait(t, s.WriteText(ctx, "a.txt", "x", "", false))
	url := mustAwait(t, s.GetFileEntry(ctx, "a.txt")).ToURL()

	m := &mockProvider{}
	m.On("Supported").Return(false)
	m.On("ResolveLocalFileSystemURL", url).Return(mustAwait(t, s.GetFileEntry(ctx, "a.txt")), nil)

	loop := startLoop(t)
	broken := New(m, loop)
	file := mustAwait(t, broken.GetFileFromLocalFileSystemURL(ctx, url))
	require.NotNil(t, file)
	assert.Equal(t, "x", string(file.Bytes()))
}
