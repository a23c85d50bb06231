package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"zlecenia/internal/geo"
	"zlecenia/internal/mapview"
)

// MessageTypeViewport is the one inbound message type clients send: the
// current map viewport, pushed on every pan/zoom.
const MessageTypeViewport = "viewport"

// EventMapMarkers carries a marker snapshot for a subscribed viewport.
const EventMapMarkers = "map_markers"

type inboundMessage struct {
	Type  string  `json:"type"`
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

type mapMarkersEvent struct {
	Type    string           `json:"type"`
	North   float64          `json:"north"`
	South   float64          `json:"south"`
	East    float64          `json:"east"`
	West    float64          `json:"west"`
	Markers []mapview.Marker `json:"markers"`
}

// newViewportRefresher builds the per-connection refresher that turns viewport
// updates into marker pushes on the client's send channel. A zero debounce
// selects the refresher's default window.
func newViewportRefresher(c *Client, fetch mapview.FetchFunc, debounce time.Duration, logger *log.Logger) *mapview.Refresher {
	apply := func(b geo.Bounds, markers []mapview.Marker) {
		if markers == nil {
			markers = []mapview.Marker{}
		}
		payload, err := json.Marshal(mapMarkersEvent{
			Type:    EventMapMarkers,
			North:   b.North,
			South:   b.South,
			East:    b.East,
			West:    b.West,
			Markers: markers,
		})
		if err != nil {
			return
		}
		select {
		case c.send <- payload:
		default:
			if logger != nil {
				logger.Printf("WS marker push dropped | buffer full")
			}
		}
	}
	return mapview.NewRefresher(fetch, apply, debounce, logger)
}

// handleMessage dispatches one inbound frame. Only viewport messages are
// meaningful; anything else, including malformed JSON, is dropped.
func (c *Client) handleMessage(ctx context.Context, raw []byte) {
	if c.viewport == nil {
		return
	}
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != MessageTypeViewport {
		return
	}

	bounds := geo.Bounds{North: msg.North, South: msg.South, East: msg.East, West: msg.West}
	if bounds.LatSpan() <= 0 || bounds.LngSpan() <= 0 {
		return
	}

	// The first viewport is the initial map load: fetch immediately, there is
	// nothing to debounce against yet.
	if !c.viewportSeen {
		c.viewportSeen = true
		c.viewport.Flush(ctx, bounds)
		return
	}
	c.viewport.BoundsChanged(ctx, bounds)
}
