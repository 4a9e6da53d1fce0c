// Package memfs is an in-memory native.Provider.
//
// It reproduces the host behaviors the storage layer depends on:
//   - Quota: grants never exceed the request or the capacity, and a grant
//     only ever raises the current allowance; writes that would push usage
//     past the allowance fail with native.ErrQuotaExceeded
//   - Entries: children keep insertion order; lookups create only the final
//     path segment; non-empty directories refuse a plain Remove
//   - Writers: no implicit truncation, one write-end signal per Write and
//     Truncate, error signals followed by a write-end signal
//   - URLs: filesystem:<origin>/persistent/<path>
//
// Every callback is delivered through the injected scheduler.
//
// Example Usage:
//
//	loop := async.NewLoop(logger)
//	provider := memfs.New(loop, memfs.WithCapacity(50<<20))
package memfs
