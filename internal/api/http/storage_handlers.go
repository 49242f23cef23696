package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stashbox/backend/internal/infrastructure/logging"
	"github.com/stashbox/backend/internal/infrastructure/monitoring"
	"github.com/stashbox/backend/internal/storage"
)

// StorageHandlers exposes the storage capability over HTTP. All routes are
// scoped by a :resource path parameter selecting the isolated subtree.
type StorageHandlers struct {
	storage storage.Service
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewStorageHandlers creates the storage handler set.
func NewStorageHandlers(svc storage.Service, logger *logging.Logger, metrics *monitoring.Metrics) *StorageHandlers {
	return &StorageHandlers{storage: svc, logger: logger, metrics: metrics}
}

// List handles GET /api/storage/:resource/list?path=
func (h *StorageHandlers) List(c *gin.Context) {
	timer := monitoring.NewTimer(h.metrics, "list")

	result, err := h.storage.List(c.Request.Context(), c.Param("resource"), c.Query("path"))
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "list", err)
		return
	}

	timer.Stop("success")
	c.JSON(http.StatusOK, result)
}

// Upload handles POST /api/storage/:resource/upload?path= with multipart
// form files in the "files" field.
func (h *StorageHandlers) Upload(c *gin.Context) {
	timer := monitoring.NewTimer(h.metrics, "upload")

	form, err := c.MultipartForm()
	if err != nil {
		timer.Stop("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		timer.Stop("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	files := make([]storage.Incoming, 0, len(headers))
	var total int64
	for _, header := range headers {
		header := header
		total += header.Size
		files = append(files, storage.Incoming{
			Name: header.Filename,
			Size: header.Size,
			Open: func() (io.ReadCloser, error) {
				return header.Open()
			},
		})
	}

	h.metrics.UploadsActive.Inc()
	defer h.metrics.UploadsActive.Dec()

	result, err := h.storage.Upload(c.Request.Context(), c.Param("resource"), c.Query("path"), files)
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "upload", err)
		return
	}

	h.metrics.UploadedBytes.Add(float64(total))
	timer.Stop("success")
	c.JSON(http.StatusOK, result)
}

// Download handles GET /api/storage/:resource/download?path=
func (h *StorageHandlers) Download(c *gin.Context) {
	timer := monitoring.NewTimer(h.metrics, "download")

	dl, err := h.storage.Download(c.Request.Context(), c.Param("resource"), c.Query("path"))
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "download", err)
		return
	}
	defer dl.Reader.Close()

	timer.Stop("success")
	c.DataFromReader(http.StatusOK, dl.Size, dl.ContentType, dl.Reader, map[string]string{
		"Content-Disposition": contentDisposition(dl.Filename),
	})
}

// CreateFolder handles POST /api/storage/:resource/folder?path= with body
// {"name": ...}.
func (h *StorageHandlers) CreateFolder(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timer := monitoring.NewTimer(h.metrics, "create_folder")
	result, err := h.storage.CreateFolder(c.Request.Context(), c.Param("resource"), c.Query("path"), req.Name)
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "create_folder", err)
		return
	}

	timer.Stop("success")
	c.JSON(http.StatusOK, result)
}

// CreateURL handles POST /api/storage/:resource/url?path= with body
// {"name": ..., "url": ...}.
func (h *StorageHandlers) CreateURL(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timer := monitoring.NewTimer(h.metrics, "create_url")
	result, err := h.storage.CreateURL(c.Request.Context(), c.Param("resource"), c.Query("path"), req.Name, req.URL)
	if err != nil {
		timer.Stop("error")
		h.writeError(c, "create_url", err)
		return
	}

	timer.Stop("success")
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /api/storage/:resource/item?path=
func (h *StorageHandlers) Delete(c *gin.Context) {
	timer := monitoring.NewTimer(h.metrics, "delete")

	if err := h.storage.Delete(c.Request.Context(), c.Param("resource"), c.Query("path")); err != nil {
		timer.Stop("error")
		h.writeError(c, "delete", err)
		return
	}

	timer.Stop("success")
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// writeError maps typed storage failures to transport status codes. The
// not-found body is identical whether the miss came from resource
// isolation or genuine absence, so resource existence never leaks.
func (h *StorageHandlers) writeError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	case errors.Is(err, storage.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	default:
		h.logger.Error("storage operation failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// contentDisposition builds an attachment header safe for non-ASCII names.
func contentDisposition(filename string) string {
	escaped := strings.ReplaceAll(filename, `"`, `\"`)
	return `attachment; filename="` + escaped + `"; filename*=UTF-8''` + escapeRFC5987(filename)
}

func escapeRFC5987(s string) string {
	var b strings.Builder
	for _, r := range []byte(s) {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9',
			r == '-', r == '.', r == '_', r == '~':
			b.WriteByte(r)
		default:
			b.WriteString(fmt.Sprintf("%%%02X", r))
		}
	}
	return b.String()
}
