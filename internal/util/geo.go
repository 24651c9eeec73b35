package util

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between two coordinates
func DistanceMeters(aLat, aLng, bLat, bLng float64) float64 {
	// Convert coordinates from degrees to S2 points
	pointA := s2.PointFromLatLng(s2.LatLngFromDegrees(aLat, aLng))
	pointB := s2.PointFromLatLng(s2.LatLngFromDegrees(bLat, bLng))

	// Angle between points, converted to distance on Earth's surface
	angle := s1.Angle(s2.ChordAngleBetweenPoints(pointA, pointB).Angle())

	return angle.Radians() * earthRadiusMeters
}
