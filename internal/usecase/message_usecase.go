package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/repository"
	"zlecenia/internal/ws"
)

const maxMessageLength = 4000

type MessageUsecase interface {
	StartConversation(ctx context.Context, listingID, contractorID uuid.UUID) (repository.Conversation, error)
	Send(ctx context.Context, conversationID, senderID uuid.UUID, body string) (repository.Message, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]repository.Conversation, error)
	ListMessages(ctx context.Context, conversationID, readerID uuid.UUID, limit, offset int) ([]repository.Message, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type Messages struct {
	repo     repository.MessageRepository
	listings repository.ListingRepository
	notifier ws.Notifier
	logger   *log.Logger
	now      func() time.Time
}

func NewMessageUsecase(repo repository.MessageRepository, listings repository.ListingRepository, notifier ws.Notifier, logger *log.Logger) *Messages {
	return &Messages{repo: repo, listings: listings, notifier: notifier, logger: logger, now: time.Now}
}

// StartConversation opens (or finds) the contractor's thread with the
// listing's owner.
func (u *Messages) StartConversation(ctx context.Context, listingID, contractorID uuid.UUID) (repository.Conversation, error) {
	if listingID == uuid.Nil || contractorID == uuid.Nil {
		return repository.Conversation{}, ErrInvalidInput
	}

	l, err := u.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return repository.Conversation{}, ErrNotFound
		}
		return repository.Conversation{}, ErrInternal
	}
	if l.OwnerID == contractorID {
		return repository.Conversation{}, ErrInvalidInput
	}

	c, err := u.repo.FindOrCreateConversation(ctx, listingID, l.OwnerID, contractorID)
	if err != nil {
		return repository.Conversation{}, ErrInternal
	}
	return c, nil
}

func (u *Messages) Send(ctx context.Context, conversationID, senderID uuid.UUID, body string) (repository.Message, error) {
	body = strings.TrimSpace(body)
	if conversationID == uuid.Nil || senderID == uuid.Nil || body == "" || len(body) > maxMessageLength {
		return repository.Message{}, ErrInvalidInput
	}

	c, err := u.repo.FindConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return repository.Message{}, ErrNotFound
		}
		return repository.Message{}, ErrInternal
	}
	if senderID != c.ManagerID && senderID != c.ContractorID {
		return repository.Message{}, ErrForbidden
	}

	m := repository.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		SentAt:         u.now().UTC(),
	}
	if err := u.repo.AppendMessage(ctx, m); err != nil {
		return repository.Message{}, ErrInternal
	}

	recipient := c.ManagerID
	if senderID == c.ManagerID {
		recipient = c.ContractorID
	}
	ws.SendEventToUser(u.notifier, recipient, ws.Event{
		Type:      ws.EventNewMessage,
		ListingID: c.ListingID.String(),
		Body:      body,
	})
	return m, nil
}

func (u *Messages) ListConversations(ctx context.Context, userID uuid.UUID) ([]repository.Conversation, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	out, err := u.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// ListMessages returns a page of the thread and marks the reader's unread
// messages as read.
func (u *Messages) ListMessages(ctx context.Context, conversationID, readerID uuid.UUID, limit, offset int) ([]repository.Message, error) {
	if conversationID == uuid.Nil || readerID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	c, err := u.repo.FindConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrInternal
	}
	if readerID != c.ManagerID && readerID != c.ContractorID {
		return nil, ErrForbidden
	}

	msgs, err := u.repo.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}

	if err := u.repo.MarkRead(ctx, conversationID, readerID); err != nil && u.logger != nil {
		u.logger.Printf("[Messages] mark read failed conversation=%s: %v", conversationID, err)
	}
	return msgs, nil
}

func (u *Messages) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, ErrInvalidInput
	}
	n, err := u.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, ErrInternal
	}
	return n, nil
}
