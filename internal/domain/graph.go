// Package domain contains the core data types for the travel graph service.
// It is imported by every other internal package (graph, repo, service, handler).
package domain

import "github.com/paulmach/orb"

// Point is a GeoJSON point as stored in the graph document.
// Coordinates are [longitude, latitude].
type Point struct {
	Type        string    `json:"type"`
	Coordinates orb.Point `json:"coordinates"`
}

// NewPoint returns a GeoJSON point at lon, lat.
func NewPoint(lon, lat float64) Point {
	return Point{Type: "Point", Coordinates: orb.Point{lon, lat}}
}

// LocalTime is the broken-down local start time of a single trip.
// Only Hour is used by the post-processor; the rest is carried through.
type LocalTime struct {
	Year     int    `json:"year,omitempty"`
	Month    int    `json:"month,omitempty"`
	Day      int    `json:"day,omitempty"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute,omitempty"`
	Second   int    `json:"second,omitempty"`
	Weekday  int    `json:"weekday,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// CommonTrip is a cluster of individual trips that share a start and end
// place closely enough to count as one recurring trip.
//
// CommonHour and CommonDuration are derived during post-processing.
// CommonHour is nil when the trip has no recorded start times.
type CommonTrip struct {
	ID         ObjectID    `json:"_id"`
	UserID     string      `json:"user_id,omitempty"`
	StartPlace ObjectID    `json:"start_place"`
	EndPlace   ObjectID    `json:"end_place"`
	Trips      []ObjectID  `json:"trips"`
	StartTimes []LocalTime `json:"start_times"`
	Durations  []float64   `json:"durations"` // seconds
	StartLoc   Point       `json:"start_loc"`
	EndLoc     Point       `json:"end_loc"`

	CommonHour     *int    `json:"common_hour"`
	CommonDuration float64 `json:"common_duration"`

	StartDisplayName string `json:"start_displayName,omitempty"`
	EndDisplayName   string `json:"end_displayName,omitempty"`
}

// CommonPlace is a cluster of visited locations treated as one recurring place.
// Successors holds the raw references as they appear in the document; the
// resolved places are available from the graph once it is built.
type CommonPlace struct {
	ID          ObjectID       `json:"_id"`
	UserID      string         `json:"user_id,omitempty"`
	Places      []ObjectID     `json:"places"`
	Location    Point          `json:"location"`
	Successors  []SuccessorRef `json:"successors"`
	DisplayName string         `json:"displayName,omitempty"`
}

// GraphDocument is the serialized common graph held in the document store.
type GraphDocument struct {
	UserID       string        `json:"user_id"`
	CommonTrips  []CommonTrip  `json:"common_trips"`
	CommonPlaces []CommonPlace `json:"common_places"`
}
