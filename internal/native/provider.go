package native

import (
	"time"

	"github.com/GriffinCanCode/persistfs/internal/blob"
)

// Provider is the host storage provider.
type Provider interface {
	// Supported reports whether the host exposes persistent quota
	// negotiation and a hierarchical storage root.
	Supported() bool

	// RequestQuota asks for persistent capacity. The grant never exceeds
	// the request.
	RequestQuota(bytes int64, onSuccess func(grantedBytes int64), onError func(error))

	// QueryUsageAndQuota reports the current usage and ceiling.
	QueryUsageAndQuota(onSuccess func(used, quota int64), onError func(error))

	// RequestFileSystem acquires the persistent storage root.
	RequestFileSystem(size int64, onSuccess func(FileSystem), onError func(error))

	// ResolveLocalFileSystemURL resolves an absolute storage URL to an entry.
	ResolveLocalFileSystemURL(url string, onSuccess func(Entry), onError func(error))
}

// FileSystem is an acquired storage root.
type FileSystem interface {
	Name() string
	Root() DirectoryEntry
}

// Flags controls entry lookup.
type Flags struct {
	Create    bool
	Exclusive bool
}

// Entry is a handle to a file or directory.
type Entry interface {
	Name() string
	FullPath() string
	IsFile() bool
	IsDirectory() bool
	ToURL() string
	Remove(onSuccess func(), onError func(error))
}

// DirectoryEntry is a directory handle. Paths passed to GetDirectory and
// GetFile are relative to the entry unless they start with a slash.
type DirectoryEntry interface {
	Entry
	GetDirectory(path string, flags Flags, onSuccess func(DirectoryEntry), onError func(error))
	GetFile(path string, flags Flags, onSuccess func(FileEntry), onError func(error))
	CreateReader() DirectoryReader
	RemoveRecursively(onSuccess func(), onError func(error))
}

// DirectoryReader enumerates the immediate children of a directory.
type DirectoryReader interface {
	ReadEntries(onSuccess func([]Entry), onError func(error))
}

// FileEntry is a file handle.
type FileEntry interface {
	Entry
	CreateWriter(onSuccess func(FileWriter), onError func(error))
	File(onSuccess func(*File), onError func(error))
}

// FileWriter writes sequentially into a file. Completion is signalled through
// the handlers installed with OnWriteEnd and OnError.
type FileWriter interface {
	Position() int64
	Length() int64
	SeekTo(offset int64)
	Write(data *blob.Blob)
	Truncate(size int64)
	OnWriteEnd(fn func())
	OnError(fn func(error))
}

// File is a materialized snapshot of a file's contents and metadata.
type File struct {
	*blob.Blob
	Name         string
	LastModified time.Time
}
