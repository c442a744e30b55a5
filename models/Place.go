package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Place is a physical location being assessed for accessibility.
// Coordinates are stored as decimal(9,6) so the precision users submit is
// kept as-is; Tags is the raw comma-separated string the original form
// produced (no normalization, grouping in the dashboard is by the literal
// stored value).
type Place struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Address   string    `json:"address" gorm:"size:255"`
	Lat       string    `json:"lat" gorm:"type:decimal(9,6)"`
	Lng       string    `json:"lng" gorm:"type:decimal(9,6)"`
	Tags      string    `json:"tags" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt"`

	Reports []Report `json:"reports,omitempty" gorm:"foreignKey:PlaceID"`
}

// BeforeSave runs the geofence validation on every persistence path, not
// just form submission, so a programmatic insert cannot place a row
// outside the municipality.
func (p *Place) BeforeSave(tx *gorm.DB) error {
	lat, latErr := strconv.ParseFloat(p.Lat, 64)
	lng, lngErr := strconv.ParseFloat(p.Lng, 64)
	if latErr != nil || lngErr != nil {
		return newGeofenceError()
	}
	return ValidateCoordinates(lat, lng)
}
