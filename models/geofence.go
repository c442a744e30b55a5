package models

import "fmt"

// Bounding box of the Maipú municipality. Every Place must fall inside it,
// the same limits the Leaflet map enforces on the frontend.
const (
	MinLat = -33.585
	MaxLat = -33.480
	MinLng = -70.835
	MaxLng = -70.700
)

// GeofenceError reports a coordinate pair outside the municipality. Both
// fields always carry a message so the caller can render feedback on the
// lat and lng inputs at the same time, even when only one is out of range.
type GeofenceError struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

func (e *GeofenceError) Error() string {
	return e.Lat
}

// ValidateCoordinates checks (lat, lng) against the fixed bounding box and
// returns a *GeofenceError on violation. No side effects on success.
func ValidateCoordinates(lat, lng float64) error {
	if lat >= MinLat && lat <= MaxLat && lng >= MinLng && lng <= MaxLng {
		return nil
	}
	return newGeofenceError()
}

func newGeofenceError() *GeofenceError {
	msg := fmt.Sprintf(
		"Las coordenadas deben estar dentro de la comuna de Maipú (lat entre %g y %g, lng entre %g y %g).",
		MinLat, MaxLat, MinLng, MaxLng,
	)
	return &GeofenceError{Lat: msg, Lng: msg}
}
