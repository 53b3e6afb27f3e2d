package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonBody = `{"id":"3f0e4cb1","title":"Hello","tags":["go","web"]}`

// jsonHandler отвечает как наши хендлеры: JSON + выставленный Content-Length
func jsonHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(jsonBody)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(jsonBody))
	})
}

func TestWithGzip_ClientWithoutGzipGetsIdentity(t *testing.T) {
	h := WithGzip(jsonHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, jsonBody, rec.Body.String())
}

func TestWithGzip_CompressesAndDropsContentLength(t *testing.T) {
	h := WithGzip(jsonHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	// Content-Length исходного тела после сжатия врёт — обязан исчезнуть
	assert.Empty(t, rec.Header().Get("Content-Length"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	defer zr.Close()
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.JSONEq(t, jsonBody, string(plain))
}
