package fence

import (
	"math"

	"locshare/internal/model"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const circleSegments = 32

// ExportGeoJSON renders the current fence set as a GeoJSON FeatureCollection
// for map visualization. Each fence becomes a polygon approximating its
// circle, with circle and location metadata as feature properties.
func (s *FenceService) ExportGeoJSON() ([]byte, error) {
	fences := s.ActiveFences()

	fc := geojson.NewFeatureCollection()

	for i := range fences {
		f := &fences[i]

		feature := geojson.NewFeature(circlePolygon(f))
		feature.Properties["circle_id"] = f.Key.CircleID
		feature.Properties["location_id"] = f.Key.LocationID
		feature.Properties["circle_name"] = f.CircleName
		feature.Properties["location_name"] = f.LocationName
		feature.Properties["radius_meters"] = f.RadiusMeters

		fc.Append(feature)
	}

	return fc.MarshalJSON()
}

// circlePolygon approximates the fence circle with a closed ring
func circlePolygon(f *model.Geofence) orb.Polygon {
	dLat := f.RadiusMeters / 111320.0
	cosLat := math.Cos(f.CenterLat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLng := f.RadiusMeters / (111320.0 * cosLat)

	ring := make(orb.Ring, 0, circleSegments+1)
	for i := 0; i <= circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / circleSegments
		// [lon, lat] for GeoJSON
		ring = append(ring, orb.Point{
			f.CenterLng + dLng*math.Cos(theta),
			f.CenterLat + dLat*math.Sin(theta),
		})
	}

	return orb.Polygon{ring}
}
