package geo

import (
	"fmt"
	"math"
)

// Bounds is a viewport rectangle in degrees.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether b fully contains other. Mere overlap does not
// count; the bounds cache relies on strict containment.
func (b Bounds) Contains(other Bounds) bool {
	return b.South <= other.South &&
		b.North >= other.North &&
		b.West <= other.West &&
		b.East >= other.East
}

// ContainsPoint reports whether the given coordinate lies inside b.
func (b Bounds) ContainsPoint(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

// LatSpan returns the north-south extent in degrees.
func (b Bounds) LatSpan() float64 {
	return b.North - b.South
}

// LngSpan returns the east-west extent in degrees.
func (b Bounds) LngSpan() float64 {
	return b.East - b.West
}

// Key renders the rectangle as a stable cache key, rounded to 2 decimals so
// that sub-hundredth viewport jitter maps to the same entry.
func (b Bounds) Key() string {
	return fmt.Sprintf("%s-%s-%s-%s",
		round2(b.North), round2(b.South), round2(b.East), round2(b.West))
}

func round2(v float64) string {
	return fmt.Sprintf("%.2f", math.Round(v*100)/100)
}
