// Package blob holds immutable byte payloads tagged with a content type, plus
// the pure conversions used to build them from text, byte buffers and
// readers and to decode them back.
package blob

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// TextPlain is the content type given to text payloads with no explicit type.
	TextPlain = "text/plain"
	// OctetStream is the generic binary content type.
	OctetStream = "application/octet-stream"
)

// Blob is an immutable byte payload with a content type.
type Blob struct {
	data []byte
	typ  string
}

// New copies data into a new blob.
func New(data []byte, contentType string) *Blob {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Blob{data: buf, typ: contentType}
}

// FromText builds a blob from a string. An empty contentType becomes text/plain.
func FromText(text, contentType string) *Blob {
	if contentType == "" {
		contentType = TextPlain
	}
	return &Blob{data: []byte(text), typ: contentType}
}

// FromReader reads r to EOF. An empty contentType is sniffed from the content.
func FromReader(r io.Reader, contentType string) (*Blob, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if contentType == "" {
		contentType = Sniff(data)
	}
	return &Blob{data: data, typ: contentType}, nil
}

// Sniff detects the content type of data.
func Sniff(data []byte) string {
	return mimetype.Detect(data).String()
}

// Size returns the payload length in bytes.
func (b *Blob) Size() int64 {
	return int64(len(b.data))
}

// Type returns the content type, possibly empty.
func (b *Blob) Type() string {
	return b.typ
}

// Bytes returns a copy of the payload.
func (b *Blob) Bytes() []byte {
	buf := make([]byte, len(b.data))
	copy(buf, b.data)
	return buf
}

// NewReader returns a reader over the payload.
func (b *Blob) NewReader() io.Reader {
	return bytes.NewReader(b.data)
}
