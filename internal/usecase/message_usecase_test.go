package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/repository"
)

type mockMessageRepo struct {
	conversations map[uuid.UUID]repository.Conversation
	messages      []repository.Message
	markReads     int
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{conversations: map[uuid.UUID]repository.Conversation{}}
}

func (m *mockMessageRepo) FindOrCreateConversation(_ context.Context, listingID, managerID, contractorID uuid.UUID) (repository.Conversation, error) {
	for _, c := range m.conversations {
		if c.ListingID == listingID && c.ManagerID == managerID && c.ContractorID == contractorID {
			return c, nil
		}
	}
	c := repository.Conversation{
		ID:           uuid.New(),
		ListingID:    listingID,
		ManagerID:    managerID,
		ContractorID: contractorID,
		CreatedAt:    time.Now().UTC(),
	}
	m.conversations[c.ID] = c
	return c, nil
}

func (m *mockMessageRepo) FindConversation(_ context.Context, id uuid.UUID) (repository.Conversation, error) {
	c, ok := m.conversations[id]
	if !ok {
		return repository.Conversation{}, repository.ErrConversationNotFound
	}
	return c, nil
}

func (m *mockMessageRepo) ListConversations(_ context.Context, userID uuid.UUID) ([]repository.Conversation, error) {
	out := make([]repository.Conversation, 0)
	for _, c := range m.conversations {
		if c.ManagerID == userID || c.ContractorID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) AppendMessage(_ context.Context, msg repository.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepo) ListMessages(_ context.Context, conversationID uuid.UUID, _, _ int) ([]repository.Message, error) {
	out := make([]repository.Message, 0)
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) CountUnread(context.Context, uuid.UUID) (int, error) { return 0, nil }

func (m *mockMessageRepo) MarkRead(context.Context, uuid.UUID, uuid.UUID) error {
	m.markReads++
	return nil
}

type recordingNotifier struct {
	broadcasts [][]byte
	targeted   map[uuid.UUID][][]byte
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{targeted: map[uuid.UUID][][]byte{}}
}

func (n *recordingNotifier) Broadcast(message []byte) {
	n.broadcasts = append(n.broadcasts, message)
}

func (n *recordingNotifier) SendToUser(userID uuid.UUID, message []byte) {
	n.targeted[userID] = append(n.targeted[userID], message)
}

func conversationFixture() (listing.Listing, *mockListingRepo, uuid.UUID, uuid.UUID) {
	manager := uuid.New()
	contractor := uuid.New()
	l := listing.Listing{
		ID:        uuid.New(),
		Title:     "Malowanie klatki",
		PostType:  listing.PostTypeJob,
		Status:    listing.StatusActive,
		OwnerID:   manager,
		CreatedAt: time.Now().UTC(),
	}
	return l, &mockListingRepo{items: []listing.Listing{l}}, manager, contractor
}

func TestStartConversation_SelfMessageRejected(t *testing.T) {
	l, listings, manager, _ := conversationFixture()
	uc := NewMessageUsecase(newMockMessageRepo(), listings, nil, nil)

	_, err := uc.StartConversation(context.Background(), l.ID, manager)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for owner messaging own listing, got %v", err)
	}
}

func TestStartConversation_Idempotent(t *testing.T) {
	l, listings, _, contractor := conversationFixture()
	repo := newMockMessageRepo()
	uc := NewMessageUsecase(repo, listings, nil, nil)

	c1, err := uc.StartConversation(context.Background(), l.ID, contractor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c2, err := uc.StartConversation(context.Background(), l.ID, contractor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c1.ID != c2.ID {
		t.Fatalf("expected the same conversation on repeat start")
	}
}

func TestSend_NotifiesRecipientOnly(t *testing.T) {
	l, listings, manager, contractor := conversationFixture()
	repo := newMockMessageRepo()
	notifier := newRecordingNotifier()
	uc := NewMessageUsecase(repo, listings, notifier, nil)

	c, err := uc.StartConversation(context.Background(), l.ID, contractor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := uc.Send(context.Background(), c.ID, contractor, "Dzień dobry"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(notifier.targeted[manager]) != 1 {
		t.Fatalf("expected the manager to be notified")
	}
	if len(notifier.targeted[contractor]) != 0 {
		t.Fatalf("sender must not be notified about their own message")
	}
}

func TestSend_Validation(t *testing.T) {
	l, listings, _, contractor := conversationFixture()
	repo := newMockMessageRepo()
	uc := NewMessageUsecase(repo, listings, nil, nil)

	c, err := uc.StartConversation(context.Background(), l.ID, contractor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := uc.Send(context.Background(), c.ID, contractor, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank body, got %v", err)
	}
	long := strings.Repeat("a", maxMessageLength+1)
	if _, err := uc.Send(context.Background(), c.ID, contractor, long); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized body, got %v", err)
	}

	stranger := uuid.New()
	if _, err := uc.Send(context.Background(), c.ID, stranger, "hej"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}
}

func TestListMessages_MarksRead(t *testing.T) {
	l, listings, manager, contractor := conversationFixture()
	repo := newMockMessageRepo()
	uc := NewMessageUsecase(repo, listings, nil, nil)

	c, err := uc.StartConversation(context.Background(), l.ID, contractor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.Send(context.Background(), c.ID, contractor, "Dzień dobry"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	msgs, err := uc.ListMessages(context.Background(), c.ID, manager, 50, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if repo.markReads != 1 {
		t.Fatalf("expected listing the thread to mark it read")
	}
}
