package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/repository"
)

type mockBookmarkRepo struct {
	byUser map[uuid.UUID]map[uuid.UUID]repository.Bookmark
	addErr error
}

func newMockBookmarkRepo() *mockBookmarkRepo {
	return &mockBookmarkRepo{byUser: map[uuid.UUID]map[uuid.UUID]repository.Bookmark{}}
}

func (m *mockBookmarkRepo) Add(_ context.Context, userID uuid.UUID, b repository.Bookmark) error {
	if m.addErr != nil {
		return m.addErr
	}
	if m.byUser[userID] == nil {
		m.byUser[userID] = map[uuid.UUID]repository.Bookmark{}
	}
	if _, ok := m.byUser[userID][b.ListingID]; ok {
		return nil
	}
	m.byUser[userID][b.ListingID] = b
	return nil
}

func (m *mockBookmarkRepo) Remove(_ context.Context, userID, listingID uuid.UUID) error {
	delete(m.byUser[userID], listingID)
	return nil
}

func (m *mockBookmarkRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.Bookmark, error) {
	out := make([]repository.Bookmark, 0, len(m.byUser[userID]))
	for _, b := range m.byUser[userID] {
		out = append(out, b)
	}
	return out, nil
}

type mockGuestStore struct {
	hashes map[string]map[string][]byte
}

func newMockGuestStore() *mockGuestStore {
	return &mockGuestStore{hashes: map[string]map[string][]byte{}}
}

func (m *mockGuestStore) HSetJSON(_ context.Context, key, field string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.hashes[key] == nil {
		m.hashes[key] = map[string][]byte{}
	}
	m.hashes[key][field] = b
	return nil
}

func (m *mockGuestStore) HDel(_ context.Context, key, field string) error {
	delete(m.hashes[key], field)
	return nil
}

func (m *mockGuestStore) HGetAllJSON(_ context.Context, key string, decode func(field string, raw []byte) error) error {
	for field, raw := range m.hashes[key] {
		if err := decode(field, raw); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockGuestStore) Delete(_ context.Context, key string) error {
	delete(m.hashes, key)
	return nil
}

func bookmarkableListing() (listing.Listing, *mockListingRepo) {
	l := listing.Listing{
		ID:        uuid.New(),
		Title:     "Remont dachu",
		PostType:  listing.PostTypeJob,
		Status:    listing.StatusActive,
		Location:  listing.Location{City: "Warszawa", Sublocality: "Mokotów"},
		CreatedAt: time.Now().UTC(),
	}
	return l, &mockListingRepo{items: []listing.Listing{l}}
}

func TestToggle_GuestOnlyWritesDeviceStore(t *testing.T) {
	l, listings := bookmarkableListing()
	repo := newMockBookmarkRepo()
	guests := newMockGuestStore()
	uc := NewBookmarkUsecase(repo, guests, listings, nil)

	if err := uc.Toggle(context.Background(), uuid.Nil, "dev-1", l.ID, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(guests.hashes["bookmarks:guest:dev-1"]) != 1 {
		t.Fatalf("expected one guest bookmark")
	}
	if len(repo.byUser) != 0 {
		t.Fatalf("guest toggle must not touch the backend")
	}

	if err := uc.Toggle(context.Background(), uuid.Nil, "dev-1", l.ID, false); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(guests.hashes["bookmarks:guest:dev-1"]) != 0 {
		t.Fatalf("expected guest bookmark removed")
	}
}

func TestToggle_RequiresIdentity(t *testing.T) {
	l, listings := bookmarkableListing()
	uc := NewBookmarkUsecase(newMockBookmarkRepo(), newMockGuestStore(), listings, nil)

	err := uc.Toggle(context.Background(), uuid.Nil, "", l.ID, true)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestToggle_UnknownListing(t *testing.T) {
	_, listings := bookmarkableListing()
	uc := NewBookmarkUsecase(newMockBookmarkRepo(), newMockGuestStore(), listings, nil)

	err := uc.Toggle(context.Background(), uuid.Nil, "dev-1", uuid.New(), true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggle_BackendFailureDoesNotBlock(t *testing.T) {
	l, listings := bookmarkableListing()
	repo := newMockBookmarkRepo()
	repo.addErr = errors.New("db down")
	guests := newMockGuestStore()
	uc := NewBookmarkUsecase(repo, guests, listings, nil)

	userID := uuid.New()
	if err := uc.Toggle(context.Background(), userID, "dev-1", l.ID, true); err != nil {
		t.Fatalf("backend failure must not surface, got %v", err)
	}
	if len(guests.hashes["bookmarks:guest:dev-1"]) != 1 {
		t.Fatalf("device store write must survive backend failure")
	}
}

func TestList_UserReadsBackend(t *testing.T) {
	l, listings := bookmarkableListing()
	repo := newMockBookmarkRepo()
	guests := newMockGuestStore()
	uc := NewBookmarkUsecase(repo, guests, listings, nil)

	userID := uuid.New()
	if err := uc.Toggle(context.Background(), userID, "", l.ID, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	out, err := uc.List(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 || out[0].ListingID != l.ID {
		t.Fatalf("expected the saved listing, got %v", out)
	}
	if out[0].Location != "Warszawa Mokotów" {
		t.Fatalf("unexpected snapshot location %q", out[0].Location)
	}
}

func TestMergeGuestIntoUser(t *testing.T) {
	l, listings := bookmarkableListing()
	repo := newMockBookmarkRepo()
	guests := newMockGuestStore()
	uc := NewBookmarkUsecase(repo, guests, listings, nil)

	if err := uc.Toggle(context.Background(), uuid.Nil, "dev-1", l.ID, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	userID := uuid.New()
	if err := uc.MergeGuestIntoUser(context.Background(), "dev-1", userID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.byUser[userID]) != 1 {
		t.Fatalf("expected guest bookmark folded into account")
	}
	if _, ok := guests.hashes["bookmarks:guest:dev-1"]; ok {
		t.Fatalf("expected guest hash cleared after merge")
	}

	// Replay is harmless: the hash is gone and adds are idempotent.
	if err := uc.MergeGuestIntoUser(context.Background(), "dev-1", userID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.byUser[userID]) != 1 {
		t.Fatalf("expected merge replay to be a no-op")
	}
}
