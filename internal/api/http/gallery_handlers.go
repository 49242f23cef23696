package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stashbox/backend/internal/gallery"
	"github.com/stashbox/backend/internal/infrastructure/logging"
	"github.com/stashbox/backend/internal/storage"
)

// GalleryHandlers exposes the read-only gallery endpoints.
type GalleryHandlers struct {
	gallery *gallery.Service
	logger  *logging.Logger
}

// NewGalleryHandlers creates the gallery handler set.
func NewGalleryHandlers(svc *gallery.Service, logger *logging.Logger) *GalleryHandlers {
	return &GalleryHandlers{gallery: svc, logger: logger}
}

// Years handles GET /api/gallery/years
func (h *GalleryHandlers) Years(c *gin.Context) {
	years, err := h.gallery.Years(c.Request.Context())
	if err != nil {
		h.writeError(c, "years", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

// Photos handles GET /api/gallery/photos?year=
func (h *GalleryHandlers) Photos(c *gin.Context) {
	var year *int
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
			return
		}
		year = &parsed
	}

	photos, err := h.gallery.Photos(c.Request.Context(), year)
	if err != nil {
		h.writeError(c, "photos", err)
		return
	}

	if year != nil {
		c.JSON(http.StatusOK, gin.H{"photos": photos, "year": *year})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// HasPhotos handles GET /api/gallery/has-photos?year=
func (h *GalleryHandlers) HasPhotos(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
		return
	}

	ok, err := h.gallery.HasPhotos(c.Request.Context(), year)
	if err != nil {
		h.writeError(c, "has_photos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasPhotos": ok, "year": year})
}

// YearsWithPhotos handles GET /api/gallery/years-with-photos
func (h *GalleryHandlers) YearsWithPhotos(c *gin.Context) {
	years, err := h.gallery.YearsWithPhotos(c.Request.Context())
	if err != nil {
		h.writeError(c, "years_with_photos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

// Download handles GET /api/gallery/download?path=
func (h *GalleryHandlers) Download(c *gin.Context) {
	dl, err := h.gallery.Download(c.Request.Context(), c.Query("path"))
	if err != nil {
		h.writeError(c, "download", err)
		return
	}
	defer dl.Reader.Close()

	c.DataFromReader(http.StatusOK, dl.Size, dl.ContentType, dl.Reader, map[string]string{
		"Content-Disposition": contentDisposition(dl.Filename),
	})
}

func (h *GalleryHandlers) writeError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	default:
		h.logger.Error("gallery operation failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
