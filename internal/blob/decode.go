package blob

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Text decodes the payload as text. The charset comes from the content type
// parameter when present, otherwise UTF-8 is assumed for valid UTF-8 input
// and the charset is detected for anything else.
func (b *Blob) Text() (string, error) {
	data := b.data
	charset := Charset(b.typ)

	if charset == "" {
		if utf8.Valid(data) {
			return string(bytes.TrimPrefix(data, utf8BOM)), nil
		}
		charset = DetectCharset(data)
	}

	if isUTF8(charset) {
		return strings.ToValidUTF8(string(bytes.TrimPrefix(data, utf8BOM)), "\uFFFD"), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", charset, err)
	}
	return string(out), nil
}

// BinaryString maps every byte to the code point of the same value.
func (b *Blob) BinaryString() (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b.data)
	if err != nil {
		return "", fmt.Errorf("decode binary string: %w", err)
	}
	return string(out), nil
}

// DataURL encodes the payload as a base64 data URL. Untyped payloads are
// sniffed.
func (b *Blob) DataURL() string {
	typ := b.typ
	if typ == "" {
		typ = Sniff(b.data)
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(b.data)
}

// Charset returns the charset parameter of a content type, lowercased.
func Charset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

// DetectCharset guesses the charset of data, defaulting to utf-8.
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

func isUTF8(charset string) bool {
	switch charset {
	case "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}
