package model

import (
	"math"
	"time"
)

// Position is a single device location sample
type Position struct {
	MemberID  string    `json:"member_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Valid reports whether the sample carries a usable coordinate.
// Samples failing this check must never reach distance computation.
func (p Position) Valid() bool {
	return ValidCoordinate(p.Latitude, p.Longitude)
}

// ValidCoordinate checks that both values are finite and within
// latitude [-90, 90] and longitude [-180, 180].
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
