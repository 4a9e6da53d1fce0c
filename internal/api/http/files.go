package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/persistfs/internal/blob"
	"github.com/GriffinCanCode/persistfs/internal/native"
	"github.com/GriffinCanCode/persistfs/internal/storage"
)

// FileInfo is a file snapshot without its contents.
type FileInfo struct {
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

func fileInfo(f *native.File) FileInfo {
	return FileInfo{
		Name:         f.Name,
		Type:         f.Type(),
		Size:         f.Size(),
		LastModified: f.LastModified,
	}
}

// WriteFile stores the request body. The file is replaced unless
// ?append=true; a missing Content-Type is sniffed.
func (h *Handlers) WriteFile(c *gin.Context) {
	appending, err := queryBool(c, "append")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	// The body belongs to the request, so it is drained before the
	// handler can return on a timeout.
	payload, err := blob.FromReader(c.Request.Body, c.GetHeader("Content-Type"))
	if err != nil {
		if StatusFor(err) != http.StatusInternalServerError {
			h.respondError(c, err)
			return
		}
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	req := storage.WriteRequest{Path: c.Param("path"), Payload: payload, Append: appending}
	if _, err := h.storage.WriteBlob(ctx, req).Await(ctx); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReadFile returns a file decoded per ?decoding=. arraybuffer streams the
// raw bytes; every other decoding returns JSON.
func (h *Handlers) ReadFile(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	req := storage.ReadRequest{
		Path:     c.Param("path"),
		Decoding: storage.ParseDecoding(c.Query("decoding")),
	}
	content, err := h.storage.ReadFile(ctx, req).Await(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if content.Decoding == storage.DecodingArrayBuffer {
		typ := content.Type
		if typ == "" {
			typ = "application/octet-stream"
		}
		c.Data(http.StatusOK, typ, content.Data)
		return
	}
	c.JSON(http.StatusOK, content)
}

// Entry returns file metadata and the entry URL
func (h *Handlers) Entry(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	path := c.Param("path")
	entry, err := h.storage.GetFileEntry(ctx, path).Await(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	file, err := h.storage.GetFile(ctx, path).Await(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry": entryInfo(entry),
		"file":  fileInfo(file),
	})
}

// DeleteFile removes a file
func (h *Handlers) DeleteFile(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.storage.DeleteFile(ctx, c.Param("path")).Await(ctx); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resolve returns the file a filesystem: URL names
func (h *Handlers) Resolve(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		badRequest(c, "url is required")
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	file, err := h.storage.GetFileFromLocalFileSystemURL(ctx, url).Await(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fileInfo(file))
}
