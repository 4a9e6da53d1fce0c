package storage

import (
	"strings"

	"github.com/GriffinCanCode/persistfs/internal/blob"
)

const (
	// MiB is the unit quota targets are expressed in.
	MiB = 1024 * 1024

	// DefaultInitialQuotaMB is requested when the handle is acquired.
	DefaultInitialQuotaMB = 0
	// StandardQuotaMB is the larger initial request some deployments use.
	StandardQuotaMB = 5
)

// UsageInfo is a usage snapshot. Used never exceeds Quota.
type UsageInfo struct {
	Used  int64 `json:"used"`
	Quota int64 `json:"quota"`
}

// Remaining returns the bytes still available.
func (u UsageInfo) Remaining() int64 {
	return max(0, u.Quota-u.Used)
}

// WriteRequest describes one write. With Append unset the file ends up
// holding exactly Payload.
type WriteRequest struct {
	Path    string
	Payload *blob.Blob
	Append  bool
}

// Decoding selects how ReadFile decodes file contents.
type Decoding string

const (
	DecodingText         Decoding = "text"
	DecodingArrayBuffer  Decoding = "arraybuffer"
	DecodingBinaryString Decoding = "binarystring"
	DecodingDataURL      Decoding = "dataurl"
)

// ParseDecoding maps a decoding name to a Decoding. Unknown names fall back
// to text.
func ParseDecoding(s string) Decoding {
	switch d := Decoding(strings.ToLower(strings.TrimSpace(s))); d {
	case DecodingArrayBuffer, DecodingBinaryString, DecodingDataURL:
		return d
	default:
		return DecodingText
	}
}

// ReadRequest describes one read.
type ReadRequest struct {
	Path     string
	Decoding Decoding
}

// Content is a decoded file. Data is set for arraybuffer reads, Text for
// every other decoding.
type Content struct {
	Decoding Decoding `json:"decoding"`
	Type     string   `json:"type"`
	Size     int64    `json:"size"`
	Data     []byte   `json:"-"`
	Text     string   `json:"text,omitempty"`
}

func quotaBytes(mb float64) int64 {
	return int64(mb * MiB)
}
