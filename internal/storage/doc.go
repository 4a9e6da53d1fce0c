/*
Package storage is the deferred-result layer over a native persistent storage
provider.

# Overview

A Service owns one Handle. The handle negotiates quota and acquires the
storage root exactly once; every handle-dependent operation chains onto it
and fails with the handle's error, verbatim, when acquisition failed. Quota
and URL operations talk to the provider directly.

Each operation returns an *async.Promise that settles on a later scheduler
tick. Nothing is cached: every call resolves its entries by path again.

# Usage

	loop := async.NewLoop(logger)
	go loop.Run(ctx)

	svc := storage.New(provider, loop,
		storage.WithLogger(logger),
		storage.WithInitialQuotaMB(storage.StandardQuotaMB),
	)

	err := svc.WriteText(ctx, "notes/today.txt", "hello", "", false).Await(ctx)
	content, err := svc.ReadFile(ctx, storage.ReadRequest{Path: "notes/today.txt"}).Await(ctx)

# Writes

Native writers never truncate on their own. A write therefore runs as a
small state machine: write the payload, truncate to the writer's position
on the first write-end signal, resolve on the second. Appends seek to the
end first, so the truncate is a no-op for them.

# Errors

Every rejection is a *Error carrying a Kind. Match kinds with errors.Is
against the exported sentinels, or extract one with KindOf.
*/
package storage
