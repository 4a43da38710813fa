package graph

import "github.com/pkordes/travel-graph/backend/internal/domain"

// TripEnd selects the start or end point of a common trip.
type TripEnd int

const (
	TripStart TripEnd = iota
	TripFinish
)

func (e TripEnd) String() string {
	if e == TripStart {
		return "start"
	}
	return "end"
}

// SetPlaceDisplayName attaches a display name to the common place id.
// It reports false if the place is not in the graph.
func (g *Graph) SetPlaceDisplayName(id domain.ObjectID, name string) bool {
	cp, ok := g.cPlaceByID[id]
	if !ok {
		return false
	}
	g.mu.Lock()
	cp.DisplayName = name
	g.mu.Unlock()
	return true
}

// SetTripDisplayName attaches a display name to the start or end of the
// common trip id. It reports false if the trip is not in the graph.
func (g *Graph) SetTripDisplayName(id domain.ObjectID, end TripEnd, name string) bool {
	ct, ok := g.cTripByID[id]
	if !ok {
		return false
	}
	g.mu.Lock()
	if end == TripStart {
		ct.StartDisplayName = name
	} else {
		ct.EndDisplayName = name
	}
	g.mu.Unlock()
	return true
}
