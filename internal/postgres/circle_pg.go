package postgres

import (
	"time"

	"locshare/internal/model"

	"gorm.io/gorm"
)

// CirclePG is the GORM model for the Circle entity
type CirclePG struct {
	ID           string   `gorm:"primaryKey"`
	Name         string   `gorm:"size:255;not null"`
	RadiusMeters *float64 `gorm:""`

	Locations []LocationPG `gorm:"foreignKey:CircleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (CirclePG) TableName() string {
	return "circles"
}

// LocationPG is the GORM model for a circle location
type LocationPG struct {
	ID           string   `gorm:"primaryKey"`
	CircleID     string   `gorm:"index;not null"`
	Name         string   `gorm:"size:255;not null"`
	Latitude     float64  `gorm:"not null"`
	Longitude    float64  `gorm:"not null"`
	RadiusMeters *float64 `gorm:""`

	CreatedAt time.Time
}

func (LocationPG) TableName() string {
	return "locations"
}

// FromPG converts a PG circle and its locations to the in-memory model
func FromPG(c *CirclePG) *model.Circle {
	locations := make([]model.Location, len(c.Locations))
	for i, l := range c.Locations {
		locations[i] = model.Location{
			ID:           l.ID,
			CircleID:     l.CircleID,
			Name:         l.Name,
			Latitude:     l.Latitude,
			Longitude:    l.Longitude,
			RadiusMeters: l.RadiusMeters,
			CreatedAt:    l.CreatedAt,
		}
	}

	return &model.Circle{
		ID:           c.ID,
		Name:         c.Name,
		RadiusMeters: c.RadiusMeters,
		Locations:    locations,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
