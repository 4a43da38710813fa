// Package graph post-processes a user's common trip / common place document
// into an indexed, read-only model.
//
// A Graph is built in one synchronous pass and never mutated afterwards,
// except for display names, which a background enrichment task may attach
// after the graph has been published.
package graph

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/pkordes/travel-graph/backend/internal/domain"
	"github.com/pkordes/travel-graph/backend/internal/freq"
)

// UnknownUser is the user id of the empty fallback document.
const UnknownUser = "unknown"

// Graph is the processed common graph and its lookup indices.
// Accessors return copies, so callers never observe a name being attached
// mid-read.
type Graph struct {
	userID string
	trips  []*domain.CommonTrip
	places []*domain.CommonPlace

	trip2Common  map[domain.ObjectID]*domain.CommonTrip
	cTripByID    map[domain.ObjectID]*domain.CommonTrip
	cTripCount   map[domain.ObjectID]int
	place2Common map[domain.ObjectID]*domain.CommonPlace
	cPlaceByID   map[domain.ObjectID]*domain.CommonPlace
	cPlaceCount  map[domain.ObjectID]int
	successors   map[domain.ObjectID][]*domain.CommonPlace

	// mu guards the display name fields of trips and places.
	mu sync.RWMutex
}

// EmptyDocument returns the document used when the stored one cannot be parsed.
func EmptyDocument() domain.GraphDocument {
	return domain.GraphDocument{
		UserID:       UnknownUser,
		CommonTrips:  []domain.CommonTrip{},
		CommonPlaces: []domain.CommonPlace{},
	}
}

// Decode parses a serialized graph document.
// Missing trip and place arrays decode as empty slices.
func Decode(raw []byte) (domain.GraphDocument, error) {
	var doc domain.GraphDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.GraphDocument{}, fmt.Errorf("graph.Decode: %w", err)
	}
	if doc.CommonTrips == nil {
		doc.CommonTrips = []domain.CommonTrip{}
	}
	if doc.CommonPlaces == nil {
		doc.CommonPlaces = []domain.CommonPlace{}
	}
	return doc, nil
}

// Build indexes doc and derives the common hour, common duration, and
// resolved successors. The document is copied; later changes to doc do not
// affect the graph.
func Build(doc domain.GraphDocument) *Graph {
	g := &Graph{
		userID:       doc.UserID,
		trips:        make([]*domain.CommonTrip, 0, len(doc.CommonTrips)),
		places:       make([]*domain.CommonPlace, 0, len(doc.CommonPlaces)),
		trip2Common:  make(map[domain.ObjectID]*domain.CommonTrip),
		cTripByID:    make(map[domain.ObjectID]*domain.CommonTrip, len(doc.CommonTrips)),
		cTripCount:   make(map[domain.ObjectID]int, len(doc.CommonTrips)),
		place2Common: make(map[domain.ObjectID]*domain.CommonPlace),
		cPlaceByID:   make(map[domain.ObjectID]*domain.CommonPlace, len(doc.CommonPlaces)),
		cPlaceCount:  make(map[domain.ObjectID]int, len(doc.CommonPlaces)),
		successors:   make(map[domain.ObjectID][]*domain.CommonPlace, len(doc.CommonPlaces)),
	}

	for i := range doc.CommonTrips {
		ct := cloneTrip(doc.CommonTrips[i])
		g.trips = append(g.trips, ct)
		g.cTripCount[ct.ID] = len(ct.Trips)
		g.cTripByID[ct.ID] = ct
		for _, tripID := range ct.Trips {
			g.trip2Common[tripID] = ct
		}

		ct.CommonHour = nil
		if h, ok := freq.MostFrequentHour(ct.StartTimes); ok {
			ct.CommonHour = &h
		}
		ct.CommonDuration = freq.MostFrequentDuration(ct.Durations)
	}

	for i := range doc.CommonPlaces {
		cp := clonePlace(doc.CommonPlaces[i])
		g.places = append(g.places, cp)
		g.cPlaceCount[cp.ID] = len(cp.Places)
		g.cPlaceByID[cp.ID] = cp
		for _, placeID := range cp.Places {
			g.place2Common[placeID] = cp
		}
	}

	// Successors can point forward in the list, so they are resolved only
	// once every place is indexed.
	for _, cp := range g.places {
		succ := make([]*domain.CommonPlace, 0, len(cp.Successors))
		for _, ref := range cp.Successors {
			if target, ok := g.cPlaceByID[ref.ID]; ok {
				succ = append(succ, target)
			}
		}
		g.successors[cp.ID] = succ
	}

	return g
}

func cloneTrip(ct domain.CommonTrip) *domain.CommonTrip {
	ct.Trips = slices.Clone(ct.Trips)
	ct.StartTimes = slices.Clone(ct.StartTimes)
	ct.Durations = slices.Clone(ct.Durations)
	return &ct
}

func clonePlace(cp domain.CommonPlace) *domain.CommonPlace {
	cp.Places = slices.Clone(cp.Places)
	cp.Successors = slices.Clone(cp.Successors)
	return &cp
}

// UserID returns the owner of the graph document.
func (g *Graph) UserID() string {
	return g.userID
}

// CommonTrips returns a copy of every common trip in document order.
func (g *Graph) CommonTrips() []domain.CommonTrip {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.CommonTrip, len(g.trips))
	for i, ct := range g.trips {
		out[i] = *ct
	}
	return out
}

// CommonPlaces returns a copy of every common place in document order.
func (g *Graph) CommonPlaces() []domain.CommonPlace {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.CommonPlace, len(g.places))
	for i, cp := range g.places {
		out[i] = *cp
	}
	return out
}

// TripToCommon returns the common trip that contains the raw trip tripID.
func (g *Graph) TripToCommon(tripID domain.ObjectID) (domain.CommonTrip, bool) {
	return g.tripCopy(g.trip2Common[tripID])
}

// PlaceToCommon returns the common place that contains the raw place placeID.
func (g *Graph) PlaceToCommon(placeID domain.ObjectID) (domain.CommonPlace, bool) {
	return g.placeCopy(g.place2Common[placeID])
}

// CommonTrip returns the common trip with the given cluster id.
func (g *Graph) CommonTrip(id domain.ObjectID) (domain.CommonTrip, bool) {
	return g.tripCopy(g.cTripByID[id])
}

// CommonPlace returns the common place with the given cluster id.
func (g *Graph) CommonPlace(id domain.ObjectID) (domain.CommonPlace, bool) {
	return g.placeCopy(g.cPlaceByID[id])
}

// TripCount returns the number of raw trips in the common trip id.
func (g *Graph) TripCount(id domain.ObjectID) (int, bool) {
	n, ok := g.cTripCount[id]
	return n, ok
}

// PlaceCount returns the number of raw places in the common place id.
func (g *Graph) PlaceCount(id domain.ObjectID) (int, bool) {
	n, ok := g.cPlaceCount[id]
	return n, ok
}

// Successors returns the resolved successor places of the common place id.
// References to places missing from the document are dropped.
func (g *Graph) Successors(id domain.ObjectID) ([]domain.CommonPlace, bool) {
	succ, ok := g.successors[id]
	if !ok {
		return nil, false
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.CommonPlace, len(succ))
	for i, cp := range succ {
		out[i] = *cp
	}
	return out, true
}

// CommonTripForStartEnd returns the common trip running from the common place
// start to the common place end. When several match, the one with the most
// raw trips wins, and the earliest of those on a tie.
// Returns domain.ErrNotFound when no common trip matches.
func (g *Graph) CommonTripForStartEnd(start, end domain.ObjectID) (domain.CommonTrip, error) {
	var candidates []*domain.CommonTrip
	for _, ct := range g.trips {
		if ct.StartPlace == start && ct.EndPlace == end {
			candidates = append(candidates, ct)
		}
	}

	best, _, ok := freq.MaxBy(candidates, func(ct *domain.CommonTrip) int { return len(ct.Trips) })
	if !ok {
		return domain.CommonTrip{}, fmt.Errorf("graph.CommonTripForStartEnd: %s -> %s: %w", start, end, domain.ErrNotFound)
	}
	trip, _ := g.tripCopy(best)
	return trip, nil
}

func (g *Graph) tripCopy(ct *domain.CommonTrip) (domain.CommonTrip, bool) {
	if ct == nil {
		return domain.CommonTrip{}, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return *ct, true
}

func (g *Graph) placeCopy(cp *domain.CommonPlace) (domain.CommonPlace, bool) {
	if cp == nil {
		return domain.CommonPlace{}, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return *cp, true
}
