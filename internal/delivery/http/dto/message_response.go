package dto

import (
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/repository"
)

type ConversationResponse struct {
	ID            uuid.UUID  `json:"id"`
	ListingID     uuid.UUID  `json:"listing_id"`
	ManagerID     uuid.UUID  `json:"manager_id"`
	ContractorID  uuid.UUID  `json:"contractor_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

type MessageResponse struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	Body           string     `json:"body"`
	SentAt         time.Time  `json:"sent_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}

func FromConversation(c repository.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:            c.ID,
		ListingID:     c.ListingID,
		ManagerID:     c.ManagerID,
		ContractorID:  c.ContractorID,
		CreatedAt:     c.CreatedAt,
		LastMessageAt: c.LastMessageAt,
	}
}

func FromMessage(m repository.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		SentAt:         m.SentAt,
		ReadAt:         m.ReadAt,
	}
}

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ListingID *uuid.UUID `json:"listing_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

func FromNotification(n repository.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		ListingID: n.ListingID,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}
