package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/GriffinCanCode/persistfs/internal/api/http"
	"github.com/GriffinCanCode/persistfs/internal/api/middleware"
	"github.com/GriffinCanCode/persistfs/internal/async"
	"github.com/GriffinCanCode/persistfs/internal/infrastructure/config"
	"github.com/GriffinCanCode/persistfs/internal/infrastructure/logging"
	"github.com/GriffinCanCode/persistfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/persistfs/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/persistfs/internal/native/memfs"
	"github.com/GriffinCanCode/persistfs/internal/storage"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 10 * time.Second

// Version is reported by the root endpoint.
var Version = "0.1.0"

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	loop       *async.Loop
	provider   *memfs.Provider
	storage    *storage.Service
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// Option configures a Server.
type Option func(*options)

type options struct {
	logger   *logging.Logger
	registry *prometheus.Registry
}

// WithLogger overrides the logger built from the logging config.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegistry sets the registry metrics are registered with and served from.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logCfg := logging.ForMode(cfg.Logging.Level, cfg.Logging.Development)
		logCfg.Fields = map[string]any{"service": cfg.Telemetry.ServiceName, "version": Version}
		logger, err = logging.New(logCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing persistfs server",
		zap.String("addr", cfg.Server.Addr()),
		zap.Float64("initial_quota_mb", cfg.Storage.InitialQuotaMB),
		zap.Int64("capacity_mb", cfg.Storage.CapacityMB),
	)

	// Initialize metrics first (needed by storage)
	reg := o.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	metrics := monitoring.NewMetrics(reg)

	loop := async.NewLoop(logger.Component("scheduler"))
	provider := memfs.New(loop,
		memfs.WithCapacity(cfg.Storage.CapacityMB*memfs.MiB),
		memfs.WithDefaultQuota(cfg.Storage.DefaultQuotaMB*memfs.MiB),
		memfs.WithOrigin(cfg.Storage.Origin),
		memfs.WithLogger(logger.Component("memfs")),
	)
	svc := storage.New(provider, loop,
		storage.WithLogger(logger.Component("storage")),
		storage.WithRecorder(metrics),
		storage.WithInitialQuotaMB(cfg.Storage.InitialQuotaMB),
	)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger.Component("http")))
	router.Use(tracing.Middleware(otel.GetTracerProvider()))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := apihttp.NewHandlers(svc,
		apihttp.WithMetrics(metrics),
		apihttp.WithLogger(logger.Component("api")),
		apihttp.WithVersion(Version),
	)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	handlers.Register(router.Group("/api/v1"))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		loop:     loop,
		provider: provider,
		storage:  svc,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Storage returns the storage service.
func (s *Server) Storage() *storage.Service {
	return s.storage
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the scheduler loop and the HTTP server on ln until ctx is done
// or either fails. In-flight requests are drained before the loop stops.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		err := s.httpServer.Shutdown(shutdownCtx)
		stopLoop()
		if err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close flushes the logger.
func (s *Server) Close() error {
	_ = s.logger.Sync()
	return nil
}
