package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types pushed to clients.
const (
	EventListingCreated   = "listing_created"
	EventTenderEndingSoon = "tender_ending_soon"
	EventNewMessage       = "new_message"
	EventNotification     = "notification"
)

type Event struct {
	Type      string    `json:"type"`
	ListingID string    `json:"listing_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier is the narrow surface usecases depend on; *Hub satisfies it.
type Notifier interface {
	Broadcast(message []byte)
	SendToUser(userID uuid.UUID, message []byte)
}

// BroadcastEvent marshals and broadcasts an event to every client.
func BroadcastEvent(n Notifier, evt Event) {
	if n == nil {
		return
	}
	evt.Timestamp = time.Now().UTC()
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.Broadcast(b)
}

// SendEventToUser marshals and delivers an event to one user's connections.
func SendEventToUser(n Notifier, userID uuid.UUID, evt Event) {
	if n == nil || userID == uuid.Nil {
		return
	}
	evt.Timestamp = time.Now().UTC()
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.SendToUser(userID, b)
}
