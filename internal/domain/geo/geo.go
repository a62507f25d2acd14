// Package geo holds geographic value types shared by filtering and ranking.
package geo

import "math"

// Point is a decomposed geographic position of an opportunity.
type Point struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	City    string  `json:"city,omitempty"`
	Region  string  `json:"region,omitempty"`
	Country string  `json:"country,omitempty"`
	Label   string  `json:"label,omitempty"`
}

// BoundingBox is an axis-aligned viewport. West > East means the box crosses the antimeridian.
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether lat/lng lies inside the box. All bounds are inclusive.
func (b BoundingBox) Contains(lat, lng float64) bool {
	if lat < b.South || lat > b.North {
		return false
	}
	if b.West <= b.East {
		return lng >= b.West && lng <= b.East
	}
	return lng >= b.West || lng <= b.East
}

// CrossesAntimeridian reports whether the longitude span wraps around ±180.
func (b BoundingBox) CrossesAntimeridian() bool { return b.West > b.East }

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
