package model

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// GeofenceKey identifies a fence by its owning circle and location
type GeofenceKey struct {
	CircleID   string `json:"circle_id"`
	LocationID string `json:"location_id"`
}

// Geofence is a circular arrival region. Fences are immutable: refreshing the
// circle list builds a whole new set rather than mutating fences in place.
type Geofence struct {
	Key          GeofenceKey
	CircleName   string
	LocationName string
	CenterLat    float64
	CenterLng    float64
	RadiusMeters float64
}

// meters per degree of latitude, used only for bounding boxes
const metersPerDegree = 111320.0

// GeofenceSpatial wraps a fence for R-tree indexing
type GeofenceSpatial struct {
	Fence *Geofence
}

// Bounds implements the rtreego.Spatial interface.
// Returns the bounding rectangle of the fence circle in (lng, lat) space.
func (g *GeofenceSpatial) Bounds() rtreego.Rect {
	dLat := g.Fence.RadiusMeters / metersPerDegree
	// Longitude degrees shrink with latitude; clamp the cosine away from zero
	// so polar fences still get a finite box.
	cosLat := math.Cos(g.Fence.CenterLat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLng := g.Fence.RadiusMeters / (metersPerDegree * cosLat)

	rect, _ := rtreego.NewRect(
		rtreego.Point{g.Fence.CenterLng - dLng, g.Fence.CenterLat - dLat},
		[]float64{2 * dLng, 2 * dLat},
	)

	return rect
}
