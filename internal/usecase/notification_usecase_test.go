package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/repository"
)

type mockNotificationRepo struct {
	created []repository.Notification
}

func (m *mockNotificationRepo) Create(_ context.Context, n repository.Notification) error {
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, _ int) ([]repository.Notification, error) {
	out := make([]repository.Notification, 0)
	for _, n := range m.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (m *mockNotificationRepo) ExistsRecent(_ context.Context, userID uuid.UUID, kind string, listingID uuid.UUID, window time.Duration) (bool, error) {
	cutoff := time.Now().UTC().Add(-window)
	for _, n := range m.created {
		if n.UserID == userID && n.Kind == kind && n.ListingID != nil && *n.ListingID == listingID && n.CreatedAt.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

type mockBookmarkerFinder struct {
	users []uuid.UUID
}

func (m mockBookmarkerFinder) FindBookmarkerIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return m.users, nil
}

func endingTender() listing.Listing {
	deadline := time.Now().UTC().Add(3 * 24 * time.Hour)
	return listing.Listing{
		ID:       uuid.New(),
		Title:    "Wymiana pionów wodnych",
		PostType: listing.PostTypeTender,
		Status:   listing.StatusActive,
		Tender:   &listing.TenderPhase{Current: "submission", SubmissionDeadline: &deadline},
	}
}

func TestNotifyTenderEndingSoon_NotifiesBookmarkers(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	repo := &mockNotificationRepo{}
	notifier := newRecordingNotifier()
	uc := NewNotificationUsecase(repo, mockBookmarkerFinder{users: []uuid.UUID{userA, userB}}, notifier, nil)

	tender := endingTender()
	if err := uc.NotifyTenderEndingSoon(context.Background(), tender); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(repo.created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(repo.created))
	}
	if len(notifier.targeted[userA]) != 1 || len(notifier.targeted[userB]) != 1 {
		t.Fatalf("expected a push per bookmarker")
	}
	if repo.created[0].Kind != repository.NotificationTenderEndingSoon {
		t.Fatalf("unexpected kind %q", repo.created[0].Kind)
	}
}

func TestNotifyTenderEndingSoon_DedupsWithinWindow(t *testing.T) {
	user := uuid.New()
	repo := &mockNotificationRepo{}
	uc := NewNotificationUsecase(repo, mockBookmarkerFinder{users: []uuid.UUID{user}}, nil, nil)

	tender := endingTender()
	if err := uc.NotifyTenderEndingSoon(context.Background(), tender); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := uc.NotifyTenderEndingSoon(context.Background(), tender); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected the repeat sweep to dedup, got %d notifications", len(repo.created))
	}
}

func TestNotificationList_RequiresUser(t *testing.T) {
	uc := NewNotificationUsecase(&mockNotificationRepo{}, mockBookmarkerFinder{}, nil, nil)
	if _, err := uc.List(context.Background(), uuid.Nil, 10); err == nil {
		t.Fatalf("expected error for missing user id")
	}
}
