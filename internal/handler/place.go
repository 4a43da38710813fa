package handler

import (
	"net/http"
)

// GetPlaceCommon handles GET /places/{placeId}/common.
// It returns the common place that contains the raw place.
func (s *Server) GetPlaceCommon(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeId")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	cp, err := s.graph.PlaceToCommon(placeID)
	if err != nil {
		writeServiceError(w, r, err, "common place not found")
		return
	}
	writeJSON(w, http.StatusOK, cp)
}

// GetSuccessors handles GET /common-places/{id}/successors.
// An empty list means the place is known but has no successors.
func (s *Server) GetSuccessors(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	succ, err := s.graph.Successors(id)
	if err != nil {
		writeServiceError(w, r, err, "common place not found")
		return
	}
	writeJSON(w, http.StatusOK, succ)
}
