package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stashbox/backend/internal/infrastructure/logging"
	"github.com/stashbox/backend/internal/infrastructure/monitoring"
	"github.com/stashbox/backend/internal/storage"
)

func newTestRouter(t *testing.T, maxUpload int64) (*gin.Engine, *storage.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := storage.NewEngine(storage.Config{BasePath: t.TempDir(), MaxUploadBytes: maxUpload})
	require.NoError(t, err)

	logger := &logging.Logger{Logger: zap.NewNop()}
	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	handlers := NewStorageHandlers(engine, logger, metrics)

	router := gin.New()
	group := router.Group("/api/storage/:resource")
	group.GET("/list", handlers.List)
	group.POST("/upload", handlers.Upload)
	group.GET("/download", handlers.Download)
	group.POST("/folder", handlers.CreateFolder)
	group.POST("/url", handlers.CreateURL)
	group.DELETE("/item", handlers.Delete)

	return router, engine
}

func multipartBody(t *testing.T, filenames map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range filenames {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func TestListEmptyResource(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/storage/tenant/list", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeBody(t, w)
	assert.Equal(t, "", payload["currentPath"])
	assert.Empty(t, payload["items"])
}

func TestListMissingFolder(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/storage/tenant/list?path=ghost", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "item not found", decodeBody(t, w)["error"])
}

func TestListTraversalDenied(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/storage/tenant/list?path=..%2Fother", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "access denied", decodeBody(t, w)["error"])
}

func TestUploadRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	body, contentType := multipartBody(t, map[string]string{"hello.txt": "hello world"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/storage/tenant/upload?path=docs", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeBody(t, w)
	files := payload["files"].([]any)
	require.Len(t, files, 1)
	entry := files[0].(map[string]any)
	assert.Equal(t, float64(1), entry["type"])
	assert.Equal(t, "hello.txt", entry["filename"])
	assert.Equal(t, "docs/hello.txt", entry["path"])

	// Download what was just uploaded.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/storage/tenant/download?path=docs%2Fhello.txt", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello world", w.Body.String())
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="hello.txt"`)
}

func TestUploadNoFiles(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	body, contentType := multipartBody(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/storage/tenant/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	router, engine := newTestRouter(t, 8)

	body, contentType := multipartBody(t, map[string]string{"big.bin": strings.Repeat("x", 64)})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/storage/tenant/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	listing, err := engine.List(context.Background(), "tenant", "")
	require.NoError(t, err)
	assert.Empty(t, listing.Items)
}

func TestCreateFolderEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/storage/tenant/folder",
		strings.NewReader(`{"name":"Reports"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeBody(t, w)
	item := payload["item"].(map[string]any)
	assert.Equal(t, float64(0), item["type"])
	assert.Equal(t, "Reports", item["filename"])
}

func TestCreateURLEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/storage/tenant/url",
		strings.NewReader(`{"name":"bookmark","url":"https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	item := decodeBody(t, w)["item"].(map[string]any)
	assert.Equal(t, float64(2), item["type"])
	assert.Equal(t, "bookmark.url", item["filename"])
}

func TestCreateURLInvalidTarget(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/storage/tenant/url",
		strings.NewReader(`{"name":"bookmark","url":"ftp://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteEndpoint(t *testing.T) {
	router, engine := newTestRouter(t, 0)

	_, err := engine.CreateFolder(context.Background(), "tenant", "", "Trash")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/storage/tenant/item?path=Trash", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Deleting again reports the same not-found outcome.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/storage/tenant/item?path=Trash", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadMissingFile(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/storage/tenant/download?path=ghost.txt", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "item not found", decodeBody(t, w)["error"])
}

func TestContentDispositionEscaping(t *testing.T) {
	assert.Equal(t,
		`attachment; filename="plain.txt"; filename*=UTF-8''plain.txt`,
		contentDisposition("plain.txt"))
	assert.Contains(t, contentDisposition(`qu"ote.txt`), `filename="qu\"ote.txt"`)
	assert.Contains(t, contentDisposition("отчёт.pdf"), "filename*=UTF-8''%D0%BE")
}
