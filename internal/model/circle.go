package model

import "time"

// DefaultFenceRadiusMeters is used when neither the location nor the circle
// carries a radius override.
const DefaultFenceRadiusMeters = 100.0

// Circle is a private group of members sharing live location
type Circle struct {
	ID           string
	Name         string
	RadiusMeters *float64
	Locations    []Location

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location is a named point of interest attached to a circle
type Location struct {
	ID           string
	CircleID     string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters *float64

	CreatedAt time.Time
}
