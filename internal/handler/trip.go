package handler

import (
	"net/http"
)

// CountResponse is the body of GET /common-trips/{id}/count.
type CountResponse struct {
	Count int `json:"count"`
}

// GetTripCommon handles GET /trips/{tripId}/common.
// It returns the common trip that contains the raw trip.
func (s *Server) GetTripCommon(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "tripId")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	ct, err := s.graph.TripToCommon(tripID)
	if err != nil {
		writeServiceError(w, r, err, "common trip not found")
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

// FindCommonTrip handles GET /common-trips?start=&end=.
// It returns the common trip between two common places with the most raw trips.
func (s *Server) FindCommonTrip(w http.ResponseWriter, r *http.Request) {
	start, err := queryID(r, "start")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	end, err := queryID(r, "end")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	ct, err := s.graph.CommonTripForStartEnd(start, end)
	if err != nil {
		writeServiceError(w, r, err, "no common trip between these places")
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

// GetCommonTripCount handles GET /common-trips/{id}/count.
func (s *Server) GetCommonTripCount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	n, err := s.graph.TripCount(id)
	if err != nil {
		writeServiceError(w, r, err, "common trip not found")
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}
