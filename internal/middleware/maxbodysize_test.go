package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-graph/backend/internal/middleware"
)

// readAllHandler reads the whole body the way the document upload handler
// does and answers 413 when the read fails.
var readAllHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, err := io.ReadAll(r.Body); err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func putDocument(body string, contentLength int64) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/graph/document", strings.NewReader(body))
	req.ContentLength = contentLength
	return req
}

func TestMaxBodySizeHandler_WithinLimit(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(100)(readAllHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, putDocument(strings.Repeat("x", 50), 50))

	require.Equal(t, http.StatusOK, rec.Code)
}

// TestMaxBodySizeHandler_ContentLengthOverLimit checks the early rejection:
// the next handler never runs.
func TestMaxBodySizeHandler_ContentLengthOverLimit(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	h := middleware.NewMaxBodySizeHandler(100)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, putDocument(strings.Repeat("x", 200), 200))

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Body.String(), "payload_too_large")
}

func TestMaxBodySizeHandler_StreamingBodyOverLimit(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(100)(readAllHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, putDocument(strings.Repeat("x", 200), -1))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
