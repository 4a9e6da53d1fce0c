// Package async provides the deferred-result primitives the storage layer is
// built on.
//
// Components:
//   - Scheduler: the cooperative task queue every callback is delivered on
//   - Loop: a single-goroutine Scheduler implementation
//   - Promise / Deferred: single-resolution results whose settlement is
//     always deferred by one scheduler tick
//
// Continuation Rules:
//   - Registered before settlement: runs when the promise settles
//   - Registered after settlement: runs on the next scheduler tick
//   - A promise settles at most once; later Resolve/Reject calls are ignored
//
// Example Usage:
//
//	loop := async.NewLoop(logger)
//	go loop.Run(ctx)
//
//	d := async.NewDeferred[int](loop)
//	d.Resolve(42)
//	v, err := d.Promise().Await(ctx)
package async
