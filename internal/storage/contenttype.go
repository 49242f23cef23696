package storage

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const fallbackContentType = "application/octet-stream"

// Fixed extension table served before any content sniffing.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".zip":  "application/zip",
	".json": "application/json",
	".xml":  "application/xml",
	".mp4":  "video/mp4",
	".mp3":  "audio/mpeg",
	".csv":  "text/csv",
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

// contentTypeFor infers the content type for a stored file: fixed table by
// extension first, then a content sniff, then the octet-stream fallback.
func contentTypeFor(absolutePath string) string {
	ext := strings.ToLower(filepath.Ext(absolutePath))
	if ctype, ok := contentTypes[ext]; ok {
		return ctype
	}

	if mtype, err := mimetype.DetectFile(absolutePath); err == nil {
		return mtype.String()
	}
	return fallbackContentType
}
