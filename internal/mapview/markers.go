package mapview

import (
	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"

	"zlecenia/internal/domain/listing"
)

const clusterPrecision = 5

// Marker colors by urgency.
const (
	ColorLow    = "#2e7d32"
	ColorMedium = "#f9a825"
	ColorHigh   = "#c62828"
)

// Marker glyphs by post type.
const (
	GlyphJob    = "wrench"
	GlyphTender = "gavel"
)

// Marker is the map projection of a listing: position plus visual encoding.
// ClusterKey groups nearby markers into geohash buckets for client-side
// clustering.
type Marker struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	PostType   string    `json:"post_type"`
	Urgency    string    `json:"urgency"`
	Color      string    `json:"color"`
	Glyph      string    `json:"glyph"`
	ClusterKey string    `json:"cluster_key"`
	Verified   bool      `json:"verified"`
}

// BuildMarkers projects listings with coordinates onto marker DTOs. Listings
// without coordinates are skipped, not geocoded here.
func BuildMarkers(listings []listing.Listing) []Marker {
	out := make([]Marker, 0, len(listings))
	for _, l := range listings {
		if !l.HasCoordinates() {
			continue
		}
		urgency := l.EffectiveUrgency()
		out = append(out, Marker{
			ID:         l.ID,
			Title:      l.Title,
			Latitude:   *l.Latitude,
			Longitude:  *l.Longitude,
			PostType:   string(l.PostType),
			Urgency:    string(urgency),
			Color:      urgencyColor(urgency),
			Glyph:      postTypeGlyph(l.PostType),
			ClusterKey: geohash.EncodeWithPrecision(*l.Latitude, *l.Longitude, clusterPrecision),
			Verified:   l.Verified,
		})
	}
	return out
}

func urgencyColor(u listing.Urgency) string {
	switch u {
	case listing.UrgencyHigh:
		return ColorHigh
	case listing.UrgencyMedium:
		return ColorMedium
	default:
		return ColorLow
	}
}

func postTypeGlyph(t listing.PostType) string {
	if t == listing.PostTypeTender {
		return GlyphTender
	}
	return GlyphJob
}
