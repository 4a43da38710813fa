// Package handler implements the HTTP handlers for the travel graph API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, graph.go, trip.go, place.go) but share the same Server struct.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb/geojson"

	"github.com/pkordes/travel-graph/backend/internal/domain"
	"github.com/pkordes/travel-graph/backend/internal/enrich"
)

// GraphServicer defines the graph operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or the post-processor.
type GraphServicer interface {
	Refresh(ctx context.Context) domain.UpdateEvent
	Store(ctx context.Context, body []byte) (domain.UpdateEvent, error)
	GeoJSON() *geojson.FeatureCollection
	Enrichment() map[string]enrich.Status
	TripToCommon(tripID domain.ObjectID) (domain.CommonTrip, error)
	PlaceToCommon(placeID domain.ObjectID) (domain.CommonPlace, error)
	TripCount(id domain.ObjectID) (int, error)
	Successors(id domain.ObjectID) ([]domain.CommonPlace, error)
	CommonTripForStartEnd(start, end domain.ObjectID) (domain.CommonTrip, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	graph       GraphServicer
	openAPI     []byte
	bodyLimiter func(http.Handler) http.Handler
}

// Option configures optional Server behaviour.
type Option func(*Server)

// WithOpenAPI serves spec at GET /openapi.yaml.
func WithOpenAPI(spec []byte) Option {
	return func(s *Server) { s.openAPI = spec }
}

// WithBodyLimit wraps the document upload route in mw.
func WithBodyLimit(mw func(http.Handler) http.Handler) Option {
	return func(s *Server) { s.bodyLimiter = mw }
}

// NewServer constructs the Server with all its dependencies.
func NewServer(graph GraphServicer, opts ...Option) *Server {
	s := &Server{graph: graph}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil)
}

// Routes returns the API router. Mount it on the root router in main.go.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	if s.openAPI != nil {
		r.Get("/openapi.yaml", s.GetOpenAPI)
	}

	r.Route("/graph", func(r chi.Router) {
		r.Post("/refresh", s.RefreshGraph)
		r.Get("/geojson", s.GetGeoJSON)
		r.Get("/enrichment", s.GetEnrichment)
		r.Group(func(r chi.Router) {
			if s.bodyLimiter != nil {
				r.Use(s.bodyLimiter)
			}
			r.Put("/document", s.PutDocument)
		})
	})

	r.Get("/trips/{tripId}/common", s.GetTripCommon)
	r.Get("/places/{placeId}/common", s.GetPlaceCommon)

	r.Get("/common-trips", s.FindCommonTrip)
	r.Get("/common-trips/{id}/count", s.GetCommonTripCount)
	r.Get("/common-places/{id}/successors", s.GetSuccessors)

	return r
}
