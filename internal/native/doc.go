// Package native defines the contract of a host storage provider: a sandboxed,
// quota-limited, persistent storage area whose primitives complete
// asynchronously through a success/failure callback pair.
//
// Providers grant quota, hand out a FileSystem whose Root is the top-level
// DirectoryEntry, and expose entries with create, read, write, delete and
// enumerate primitives. Callbacks are delivered on the host's cooperative
// scheduler, never synchronously from the call that issued them.
//
// Writers follow the host semantics: a FileWriter never truncates on its
// own, every Write and Truncate completes with a write-end signal, and an
// error signal is followed by a write-end signal.
package native
