// Package server assembles the persistfs service: the scheduler loop, the
// in-memory provider, the storage service and the gin router with its
// middleware stack.
//
// Serve runs the loop and the HTTP server under one errgroup. On shutdown
// the HTTP server drains first so in-flight handlers can still settle, then
// the loop stops.
//
// Example Usage:
//
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.Run(ctx)
package server
