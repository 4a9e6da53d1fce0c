package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		segs []string
	}{
		{in: "", want: "", segs: []string{}},
		{in: "/", want: "", segs: []string{}},
		{in: "a", want: "a", segs: []string{"a"}},
		{in: "/a/b/", want: "a/b", segs: []string{"a", "b"}},
		{in: "a//b///c", want: "a/b/c", segs: []string{"a", "b", "c"}},
		{in: "//a", want: "a", segs: []string{"a"}},
		{in: "notes/my file.txt", want: "notes/my file.txt", segs: []string{"notes", "my file.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.in))
			assert.Equal(t, tt.segs, segments(tt.in))
		})
	}
}

func TestParseDecoding(t *testing.T) {
	tests := map[string]Decoding{
		"":             DecodingText,
		"text":         DecodingText,
		"arraybuffer":  DecodingArrayBuffer,
		"ArrayBuffer":  DecodingArrayBuffer,
		"binarystring": DecodingBinaryString,
		"dataurl":      DecodingDataURL,
		" dataURL ":    DecodingDataURL,
		"base64":       DecodingText,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseDecoding(in), "input %q", in)
	}
}
