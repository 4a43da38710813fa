// Package geomap projects a common graph onto GeoJSON for map rendering.
package geomap

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/pkordes/travel-graph/backend/internal/graph"
)

// Project returns one Point feature per common place followed by one
// LineString feature per common trip, drawn from its start to its end.
// Place features carry the display name known at the time of the call.
func Project(g *graph.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, cp := range g.CommonPlaces() {
		f := geojson.NewFeature(cp.Location.Coordinates)
		f.ID = cp.ID.String()
		if cp.DisplayName != "" {
			f.Properties["displayName"] = cp.DisplayName
		}
		fc.Append(f)
	}

	for _, ct := range g.CommonTrips() {
		f := geojson.NewFeature(orb.LineString{ct.StartLoc.Coordinates, ct.EndLoc.Coordinates})
		f.ID = ct.ID.String()
		fc.Append(f)
	}

	return fc
}
