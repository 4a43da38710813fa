package handler

import (
	"errors"
	"io"
	"net/http"
)

// RefreshGraph handles POST /graph/refresh.
// The body is the completion event; a read failure is reported in its
// status, not as an HTTP error.
func (s *Server) RefreshGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.graph.Refresh(r.Context()))
}

// PutDocument handles PUT /graph/document.
// It replaces the stored graph document with the request body and refreshes.
func (s *Server) PutDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, requestBody("document too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, requestBody("could not read request body"))
		return
	}

	evt, err := s.graph.Store(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, evt)
}

// GetGeoJSON handles GET /graph/geojson.
func (s *Server) GetGeoJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/geo+json")
	body, err := s.graph.GeoJSON().MarshalJSON()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, internalBody())
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// GetEnrichment handles GET /graph/enrichment.
// The body maps entity keys ("place:<id>", "trip:<id>:start", ...) to
// pending, resolved, or failed.
func (s *Server) GetEnrichment(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.graph.Enrichment())
}
