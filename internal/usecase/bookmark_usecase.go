package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/repository"
)

// GuestBookmarkStore is the device-local side of the dual-write bookmark
// persistence, backed by a Redis hash per device id.
type GuestBookmarkStore interface {
	HSetJSON(ctx context.Context, key, field string, value any) error
	HDel(ctx context.Context, key, field string) error
	HGetAllJSON(ctx context.Context, key string, decode func(field string, raw []byte) error) error
	Delete(ctx context.Context, key string) error
}

type BookmarkUsecase interface {
	Toggle(ctx context.Context, userID uuid.UUID, deviceID string, listingID uuid.UUID, on bool) error
	List(ctx context.Context, userID uuid.UUID, deviceID string) ([]repository.Bookmark, error)
	MergeGuestIntoUser(ctx context.Context, deviceID string, userID uuid.UUID) error
}

// Bookmarks implements the dual persistence: guests write to the device
// store, authenticated users write to Postgres AND the device store. The
// remote write is best-effort; a backend hiccup never blocks the local path.
type Bookmarks struct {
	repo     repository.BookmarkRepository
	guests   GuestBookmarkStore
	listings repository.ListingRepository
	logger   *log.Logger
	now      func() time.Time
}

func NewBookmarkUsecase(repo repository.BookmarkRepository, guests GuestBookmarkStore, listings repository.ListingRepository, logger *log.Logger) *Bookmarks {
	return &Bookmarks{repo: repo, guests: guests, listings: listings, logger: logger, now: time.Now}
}

func guestKey(deviceID string) string {
	return "bookmarks:guest:" + deviceID
}

func (u *Bookmarks) Toggle(ctx context.Context, userID uuid.UUID, deviceID string, listingID uuid.UUID, on bool) error {
	deviceID = strings.TrimSpace(deviceID)
	if listingID == uuid.Nil || (userID == uuid.Nil && deviceID == "") {
		return ErrInvalidInput
	}

	var snapshot repository.Bookmark
	if on {
		l, err := u.listings.FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, repository.ErrListingNotFound) {
				return ErrNotFound
			}
			return ErrInternal
		}
		snapshot = bookmarkSnapshot(l, u.now())
	}

	if deviceID != "" && u.guests != nil {
		var err error
		if on {
			err = u.guests.HSetJSON(ctx, guestKey(deviceID), listingID.String(), snapshot)
		} else {
			err = u.guests.HDel(ctx, guestKey(deviceID), listingID.String())
		}
		if err != nil && u.logger != nil {
			u.logger.Printf("[Bookmarks] guest store write failed device=%s: %v", deviceID, err)
		}
	}

	if userID == uuid.Nil {
		return nil
	}

	var err error
	if on {
		err = u.repo.Add(ctx, userID, snapshot)
	} else {
		err = u.repo.Remove(ctx, userID, listingID)
	}
	if err != nil {
		// Best-effort mirror: the guest-store write already succeeded, so the
		// user-visible state is intact. Log and move on.
		if u.logger != nil {
			u.logger.Printf("[Bookmarks] backend sync failed user=%s listing=%s: %v", userID, listingID, err)
		}
	}
	return nil
}

func (u *Bookmarks) List(ctx context.Context, userID uuid.UUID, deviceID string) ([]repository.Bookmark, error) {
	if userID != uuid.Nil {
		out, err := u.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, ErrInternal
		}
		return out, nil
	}

	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" || u.guests == nil {
		return []repository.Bookmark{}, nil
	}

	out := make([]repository.Bookmark, 0)
	err := u.guests.HGetAllJSON(ctx, guestKey(deviceID), func(_ string, raw []byte) error {
		var b repository.Bookmark
		if err := json.Unmarshal(raw, &b); err != nil {
			return err
		}
		out = append(out, b)
		return nil
	})
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// MergeGuestIntoUser folds the device's guest bookmarks into the user's
// persisted set after login, then clears the guest hash. Adds are idempotent,
// so replays are harmless.
func (u *Bookmarks) MergeGuestIntoUser(ctx context.Context, deviceID string, userID uuid.UUID) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" || userID == uuid.Nil || u.guests == nil {
		return nil
	}

	merged := 0
	err := u.guests.HGetAllJSON(ctx, guestKey(deviceID), func(_ string, raw []byte) error {
		var b repository.Bookmark
		if err := json.Unmarshal(raw, &b); err != nil {
			return err
		}
		if err := u.repo.Add(ctx, userID, b); err != nil {
			return err
		}
		merged++
		return nil
	})
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Bookmarks] merge failed device=%s user=%s: %v", deviceID, userID, err)
		}
		return ErrInternal
	}

	if merged > 0 {
		_ = u.guests.Delete(ctx, guestKey(deviceID))
		if u.logger != nil {
			u.logger.Printf("[Bookmarks] merged %d guest bookmarks device=%s user=%s", merged, deviceID, userID)
		}
	}
	return nil
}

func bookmarkSnapshot(l listing.Listing, at time.Time) repository.Bookmark {
	location := l.Location.Display
	if location == "" {
		location = strings.TrimSpace(l.Location.City + " " + l.Location.Sublocality)
	}
	return repository.Bookmark{
		ListingID:    l.ID,
		Title:        l.Title,
		ClientType:   l.ClientType,
		Location:     location,
		PostType:     string(l.PostType),
		Budget:       l.Budget.Display,
		Deadline:     l.Deadline,
		BookmarkedAt: at,
	}
}
