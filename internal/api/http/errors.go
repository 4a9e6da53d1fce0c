package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/persistfs/internal/api/middleware"
	"github.com/GriffinCanCode/persistfs/internal/native"
	"github.com/GriffinCanCode/persistfs/internal/storage"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// StatusFor maps a storage failure to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}

	switch storage.KindOf(err) {
	case storage.KindQuotaRequestFailed, storage.KindFileSystemAccessFailed:
		return http.StatusServiceUnavailable
	case storage.KindUsageQueryFailed, storage.KindQuotaIncreaseFailed:
		return http.StatusBadGateway
	case storage.KindDirectoryAccessFailed, storage.KindFileAccessFailed:
		return http.StatusNotFound
	}

	switch {
	case errors.Is(err, native.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, native.ErrInvalidModification), errors.Is(err, native.ErrPathExists),
		errors.Is(err, native.ErrTypeMismatch):
		return http.StatusConflict
	case errors.Is(err, native.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case storage.KindOf(err) == storage.KindURLResolutionFailed, errors.Is(err, native.ErrEncoding):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handlers) respondError(c *gin.Context, err error) {
	status := StatusFor(err)

	kind := storage.KindOf(err).String()
	switch status {
	case http.StatusGatewayTimeout:
		kind = "Timeout"
	case http.StatusRequestEntityTooLarge:
		kind = "PayloadTooLarge"
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.String("kind", kind),
		zap.Int("status", status),
		zap.String("request_id", middleware.GetRequestID(c)),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Storage request failed", fields...)
	} else {
		h.logger.Debug("Storage request rejected", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": ErrorBody{Kind: kind, Message: err.Error()}})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrorBody{Kind: "BadRequest", Message: msg}})
}
