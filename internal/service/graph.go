// Package service contains the business logic for the travel graph API.
// Services orchestrate repo calls and the graph post-processor.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/pkordes/travel-graph/backend/internal/domain"
	"github.com/pkordes/travel-graph/backend/internal/enrich"
	"github.com/pkordes/travel-graph/backend/internal/event"
	"github.com/pkordes/travel-graph/backend/internal/geomap"
	"github.com/pkordes/travel-graph/backend/internal/graph"
	"github.com/pkordes/travel-graph/backend/internal/repo"
)

// GraphService owns the current common graph of one document key.
// Each refresh builds a new graph and swaps it in whole; readers always see
// either the previous graph or the new one.
type GraphService struct {
	docs     repo.DocumentRepo
	key      string
	enricher *enrich.Enricher
	bus      *event.Bus
	log      *slog.Logger

	// refreshMu serialises Refresh and Store; it also guards job.
	refreshMu sync.Mutex
	job       *enrich.Job

	current atomic.Pointer[graph.Graph]
	jobView atomic.Pointer[enrich.Job]
}

// NewGraphService constructs a GraphService reading the document stored under key.
// enricher may be nil to disable display-name enrichment.
// The service starts with an empty graph so readers never see a nil one.
func NewGraphService(docs repo.DocumentRepo, key string, enricher *enrich.Enricher, bus *event.Bus, log *slog.Logger) *GraphService {
	s := &GraphService{docs: docs, key: key, enricher: enricher, bus: bus, log: log}
	s.current.Store(graph.Build(graph.EmptyDocument()))
	return s
}

// Graph returns the current graph.
func (s *GraphService) Graph() *graph.Graph {
	return s.current.Load()
}

// GeoJSON projects the current graph, including any display names attached
// since the last refresh.
func (s *GraphService) GeoJSON() *geojson.FeatureCollection {
	return geomap.Project(s.Graph())
}

// Enrichment returns the per-entity display-name lookup status of the
// current graph. It is empty when enrichment is disabled.
func (s *GraphService) Enrichment() map[string]enrich.Status {
	j := s.jobView.Load()
	if j == nil {
		return map[string]enrich.Status{}
	}
	return j.Snapshot()
}

// Refresh reloads the stored document, rebuilds the graph, and broadcasts
// exactly one completion event, which it also returns.
//
// A document that fails to parse is replaced by an empty graph and still
// counts as success. A failure to read the document reports an error status
// and keeps the previous graph.
func (s *GraphService) Refresh(ctx context.Context) domain.UpdateEvent {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *GraphService) refreshLocked(ctx context.Context) domain.UpdateEvent {
	log := s.log.With("refresh_id", uuid.NewString(), "document_key", s.key)

	raw, err := s.docs.Get(ctx, s.key)
	if err != nil {
		log.ErrorContext(ctx, "read graph document", "error", err)
		return s.publish(domain.UpdateError)
	}

	doc, err := graph.Decode(raw)
	if err != nil {
		log.WarnContext(ctx, "parse graph document, using empty graph", "error", err)
		doc = graph.EmptyDocument()
	}

	g := graph.Build(doc)
	s.current.Store(g)
	s.restartEnrichment(ctx, g)

	log.InfoContext(ctx, "graph refreshed",
		"user_id", g.UserID(),
		"common_trips", len(doc.CommonTrips),
		"common_places", len(doc.CommonPlaces),
	)
	return s.publish(domain.UpdateSuccess)
}

// restartEnrichment cancels the lookups of the previous graph and starts new
// ones for g. The job outlives the request that triggered the refresh.
func (s *GraphService) restartEnrichment(ctx context.Context, g *graph.Graph) {
	if s.job != nil {
		s.job.Cancel()
		s.job = nil
		s.jobView.Store(nil)
	}
	if s.enricher == nil {
		return
	}
	s.job = s.enricher.Start(context.WithoutCancel(ctx), g)
	s.jobView.Store(s.job)
}

func (s *GraphService) publish(status domain.UpdateStatus) domain.UpdateEvent {
	evt := domain.UpdateEvent{From: domain.EventSourceBroadcast, Status: status}
	if s.bus != nil {
		s.bus.Publish(evt)
	}
	return evt
}

// Store validates body as JSON, saves it as the graph document, and refreshes.
// Returns domain.ErrValidation if body is not JSON. The returned event is
// the outcome of the refresh.
func (s *GraphService) Store(ctx context.Context, body []byte) (domain.UpdateEvent, error) {
	if len(body) == 0 || !json.Valid(body) {
		return domain.UpdateEvent{}, fmt.Errorf("%w: document must be valid JSON", domain.ErrValidation)
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if err := s.docs.Put(ctx, s.key, body); err != nil {
		return domain.UpdateEvent{}, fmt.Errorf("service.GraphService.Store: %w", err)
	}
	return s.refreshLocked(ctx), nil
}

// WaitEnrichment blocks until the current enrichment job finishes or ctx is done.
func (s *GraphService) WaitEnrichment(ctx context.Context) error {
	j := s.jobView.Load()
	if j == nil {
		return nil
	}
	select {
	case <-j.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels any running enrichment.
func (s *GraphService) Close() {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if s.job != nil {
		s.job.Cancel()
	}
}

// CommonTripForStartEnd returns the best common trip between two common places.
func (s *GraphService) CommonTripForStartEnd(start, end domain.ObjectID) (domain.CommonTrip, error) {
	if start == "" || end == "" {
		return domain.CommonTrip{}, fmt.Errorf("%w: start and end are required", domain.ErrValidation)
	}
	ct, err := s.Graph().CommonTripForStartEnd(start, end)
	if err != nil {
		return domain.CommonTrip{}, fmt.Errorf("service.GraphService.CommonTripForStartEnd: %w", err)
	}
	return ct, nil
}

// TripToCommon returns the common trip containing the raw trip tripID.
// Returns domain.ErrNotFound if no common trip contains it.
func (s *GraphService) TripToCommon(tripID domain.ObjectID) (domain.CommonTrip, error) {
	return found(s.Graph().TripToCommon(tripID))
}

// PlaceToCommon returns the common place containing the raw place placeID.
// Returns domain.ErrNotFound if no common place contains it.
func (s *GraphService) PlaceToCommon(placeID domain.ObjectID) (domain.CommonPlace, error) {
	return found(s.Graph().PlaceToCommon(placeID))
}

// TripCount returns the number of raw trips in a common trip.
// Returns domain.ErrNotFound for an unknown common trip.
func (s *GraphService) TripCount(id domain.ObjectID) (int, error) {
	return found(s.Graph().TripCount(id))
}

// Successors returns the places that commonly follow the common place id.
// Returns domain.ErrNotFound for an unknown common place.
func (s *GraphService) Successors(id domain.ObjectID) ([]domain.CommonPlace, error) {
	return found(s.Graph().Successors(id))
}

var errNotInGraph = fmt.Errorf("not in current graph: %w", domain.ErrNotFound)

func found[T any](v T, ok bool) (T, error) {
	if !ok {
		return v, errNotInGraph
	}
	return v, nil
}
