package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a storage failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindQuotaRequestFailed
	KindFileSystemAccessFailed
	KindUsageQueryFailed
	KindQuotaIncreaseFailed
	KindDirectoryAccessFailed
	KindDirectoryCreateFailed
	KindDirectoryReadFailed
	KindDirectoryDeleteFailed
	KindFileAccessFailed
	KindFileCreateFailed
	KindFileWriteFailed
	KindFileReadFailed
	KindFileDeleteFailed
	KindURLResolutionFailed
)

var kindNames = map[Kind]string{
	KindUnknown:                "Unknown",
	KindQuotaRequestFailed:     "QuotaRequestFailed",
	KindFileSystemAccessFailed: "FileSystemAccessFailed",
	KindUsageQueryFailed:       "UsageQueryFailed",
	KindQuotaIncreaseFailed:    "QuotaIncreaseFailed",
	KindDirectoryAccessFailed:  "DirectoryAccessFailed",
	KindDirectoryCreateFailed:  "DirectoryCreateFailed",
	KindDirectoryReadFailed:    "DirectoryReadFailed",
	KindDirectoryDeleteFailed:  "DirectoryDeleteFailed",
	KindFileAccessFailed:       "FileAccessFailed",
	KindFileCreateFailed:       "FileCreateFailed",
	KindFileWriteFailed:        "FileWriteFailed",
	KindFileReadFailed:         "FileReadFailed",
	KindFileDeleteFailed:       "FileDeleteFailed",
	KindURLResolutionFailed:    "URLResolutionFailed",
}

var kindMessages = map[Kind]string{
	KindQuotaRequestFailed:     "error requesting quota",
	KindFileSystemAccessFailed: "error requesting file system access",
	KindUsageQueryFailed:       "error getting quota information",
	KindQuotaIncreaseFailed:    "error requesting quota increase",
	KindDirectoryAccessFailed:  "error getting directory",
	KindDirectoryCreateFailed:  "error creating directory",
	KindDirectoryReadFailed:    "error reading entries",
	KindDirectoryDeleteFailed:  "error deleting directory",
	KindFileAccessFailed:       "error getting file",
	KindFileCreateFailed:       "error creating file",
	KindFileWriteFailed:        "write failed",
	KindFileReadFailed:         "error reading file",
	KindFileDeleteFailed:       "error deleting file",
	KindURLResolutionFailed:    "error resolving url",
}

// String returns the string representation of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Permanent reports whether the kind comes from handle acquisition, which is
// never retried.
func (k Kind) Permanent() bool {
	return k == KindQuotaRequestFailed || k == KindFileSystemAccessFailed
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrQuotaRequestFailed     = &Error{Kind: KindQuotaRequestFailed}
	ErrFileSystemAccessFailed = &Error{Kind: KindFileSystemAccessFailed}
	ErrUsageQueryFailed       = &Error{Kind: KindUsageQueryFailed}
	ErrQuotaIncreaseFailed    = &Error{Kind: KindQuotaIncreaseFailed}
	ErrDirectoryAccessFailed  = &Error{Kind: KindDirectoryAccessFailed}
	ErrDirectoryCreateFailed  = &Error{Kind: KindDirectoryCreateFailed}
	ErrDirectoryReadFailed    = &Error{Kind: KindDirectoryReadFailed}
	ErrDirectoryDeleteFailed  = &Error{Kind: KindDirectoryDeleteFailed}
	ErrFileAccessFailed       = &Error{Kind: KindFileAccessFailed}
	ErrFileCreateFailed       = &Error{Kind: KindFileCreateFailed}
	ErrFileWriteFailed        = &Error{Kind: KindFileWriteFailed}
	ErrFileReadFailed         = &Error{Kind: KindFileReadFailed}
	ErrFileDeleteFailed       = &Error{Kind: KindFileDeleteFailed}
	ErrURLResolutionFailed    = &Error{Kind: KindURLResolutionFailed}
)

// Error is a failed storage operation.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Msg  string
	Err  error
}

func newError(kind Kind, op, path string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Msg: kindMessages[kind], Err: cause}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("storage")
	if e.Op != "" {
		b.WriteString(" ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")

	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	b.WriteString(msg)

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op == "" && t.Path == "" && t.Msg == "" && t.Err == nil {
		return t.Kind == e.Kind
	}
	return t == e
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
