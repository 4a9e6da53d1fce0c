package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/persistfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/persistfs/internal/storage"
)

// DefaultTimeout bounds how long a handler waits for a storage result.
const DefaultTimeout = 30 * time.Second

// Handlers contains all HTTP handlers
type Handlers struct {
	storage *storage.Service
	metrics *monitoring.Metrics
	logger  *zap.Logger
	timeout time.Duration
	version string
}

// Option configures Handlers.
type Option func(*Handlers)

// WithMetrics enables the JSON metrics endpoint.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(h *Handlers) { h.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handlers) { h.logger = logger }
}

// WithTimeout sets how long a handler waits for a storage result.
func WithTimeout(d time.Duration) Option {
	return func(h *Handlers) { h.timeout = d }
}

// WithVersion sets the version reported by Root.
func WithVersion(v string) Option {
	return func(h *Handlers) { h.version = v }
}

// NewHandlers creates a new handler set
func NewHandlers(svc *storage.Service, opts ...Option) *Handlers {
	h := &Handlers{
		storage: svc,
		logger:  zap.NewNop(),
		timeout: DefaultTimeout,
		version: "dev",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the storage API on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/storage/supported", h.Supported)
	r.GET("/storage/usage", h.Usage)
	r.POST("/storage/quota", h.RequestQuota)

	r.GET("/folders/*path", h.FolderContents)
	r.POST("/folders/*path", h.CreateFolder)
	r.DELETE("/folders/*path", h.DeleteFolder)

	r.PUT("/files/*path", h.WriteFile)
	r.GET("/files/*path", h.ReadFile)
	r.DELETE("/files/*path", h.DeleteFile)
	r.GET("/entries/*path", h.Entry)
	r.GET("/resolve", h.Resolve)

	r.POST("/logs", h.StreamLogs)
	if h.metrics != nil {
		r.GET("/metrics", h.Metrics)
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "persistfs",
		"version": h.version,
	})
}

// Health reports the storage handle state. A failed handle is unhealthy.
func (h *Handlers) Health(c *gin.Context) {
	state := h.storage.Handle().State()

	status, code := "healthy", http.StatusOK
	if state == storage.HandleFailed {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"supported": h.storage.IsSupported(),
		"handle":    state.String(),
	})
}

// Metrics returns a JSON snapshot of the service metrics
func (h *Handlers) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// Supported reports whether persistent storage is available
func (h *Handlers) Supported(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"supported": h.storage.IsSupported()})
}

// Usage reports bytes used and the current quota
func (h *Handlers) Usage(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	usage, err := h.storage.Usage(ctx).Await(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"used":      usage.Used,
		"quota":     usage.Quota,
		"remaining": usage.Remaining(),
	})
}

// QuotaRequest is the body of POST /storage/quota.
type QuotaRequest struct {
	MB float64 `json:"mb" binding:"gte=0"`
}

// RequestQuota asks the provider for a larger quota
func (h *Handlers) RequestQuota(c *gin.Context) {
	var req QuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid quota request: "+err.Error())
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	granted, err := h.storage.RequestQuotaIncrease(ctx, req.MB).Await(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"granted": granted})
}

// context derives the wait context for one request.
func (h *Handlers) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}
