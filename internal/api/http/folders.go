package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/persistfs/internal/native"
)

// EntryInfo describes a file or directory.
type EntryInfo struct {
	Name        string `json:"name"`
	FullPath    string `json:"full_path"`
	IsFile      bool   `json:"is_file"`
	IsDirectory bool   `json:"is_directory"`
	URL         string `json:"url"`
}

func entryInfo(e native.Entry) EntryInfo {
	return EntryInfo{
		Name:        e.Name(),
		FullPath:    e.FullPath(),
		IsFile:      e.IsFile(),
		IsDirectory: e.IsDirectory(),
		URL:         e.ToURL(),
	}
}

// FolderContents lists the immediate children of a folder
func (h *Handlers) FolderContents(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	entries, err := h.storage.FolderContents(ctx, c.Param("path")).Await(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	infos := make([]EntryInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, entryInfo(e))
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": infos,
		"count":   len(infos),
	})
}

// CreateFolder creates a folder and any missing parents
func (h *Handlers) CreateFolder(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	dir, err := h.storage.CreateFolder(ctx, c.Param("path")).Await(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entryInfo(dir))
}

// DeleteFolder removes a folder. Non-empty folders need ?recursive=true.
func (h *Handlers) DeleteFolder(c *gin.Context) {
	recursive, err := queryBool(c, "recursive")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.storage.DeleteFolder(ctx, c.Param("path"), recursive).Await(ctx); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func queryBool(c *gin.Context, key string) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &queryError{key: key, value: raw}
	}
	return v, nil
}

type queryError struct {
	key   string
	value string
}

func (e *queryError) Error() string {
	return "invalid value " + strconv.Quote(e.value) + " for " + e.key
}
