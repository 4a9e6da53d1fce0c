/*
Package monitoring provides Prometheus metrics for the HTTP surface and the
storage layer.

# Overview

Metrics registers its collectors with an injected prometheus.Registerer, so
tests can use a private registry. It satisfies storage.Recorder and is handed
to the storage service with storage.WithRecorder.

# Metrics

  - persistfs_http_requests_total, _duration_seconds, _request_size_bytes,
    _response_size_bytes
  - persistfs_storage_operations_total{op,outcome}
  - persistfs_storage_operation_duration_seconds{op}
  - persistfs_storage_bytes_total{direction}
  - persistfs_storage_handle_state{state}
  - persistfs_uptime_seconds

# Usage

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	router.Use(monitoring.Middleware(metrics))
	svc := storage.New(provider, loop, storage.WithRecorder(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
