package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/repository"
	"zlecenia/internal/ws"
)

// bookmarkerFinder is the slice of the bookmark repository the sweep needs.
type bookmarkerFinder interface {
	FindBookmarkerIDs(ctx context.Context, listingID uuid.UUID) ([]uuid.UUID, error)
}

type NotificationUsecase interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]repository.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	NotifyTenderEndingSoon(ctx context.Context, l listing.Listing) error
}

type Notifications struct {
	repo        repository.NotificationRepository
	bookmarkers bookmarkerFinder
	notifier    ws.Notifier
	logger      *log.Logger
	now         func() time.Time
}

func NewNotificationUsecase(repo repository.NotificationRepository, bookmarkers bookmarkerFinder, notifier ws.Notifier, logger *log.Logger) *Notifications {
	return &Notifications{repo: repo, bookmarkers: bookmarkers, notifier: notifier, logger: logger, now: time.Now}
}

func (u *Notifications) List(ctx context.Context, userID uuid.UUID, limit int) ([]repository.Notification, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	out, err := u.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Notifications) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil || notificationID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.repo.MarkRead(ctx, userID, notificationID); err != nil {
		return ErrInternal
	}
	return nil
}

// NotifyTenderEndingSoon tells every bookmarker of the tender that its
// submission window is closing. The 24h dedup window keeps the daily sweep
// from repeating itself.
func (u *Notifications) NotifyTenderEndingSoon(ctx context.Context, l listing.Listing) error {
	users, err := u.bookmarkers.FindBookmarkerIDs(ctx, l.ID)
	if err != nil {
		return ErrInternal
	}

	body := fmt.Sprintf("Przetarg „%s” kończy się wkrótce", l.Title)
	for _, userID := range users {
		seen, err := u.repo.ExistsRecent(ctx, userID, repository.NotificationTenderEndingSoon, l.ID, 24*time.Hour)
		if err != nil || seen {
			continue
		}

		lid := l.ID
		n := repository.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Kind:      repository.NotificationTenderEndingSoon,
			Title:     "Przetarg kończy się wkrótce",
			Body:      body,
			ListingID: &lid,
			CreatedAt: u.now().UTC(),
		}
		if err := u.repo.Create(ctx, n); err != nil {
			if u.logger != nil {
				u.logger.Printf("[Notifications] create failed user=%s listing=%s: %v", userID, l.ID, err)
			}
			continue
		}

		ws.SendEventToUser(u.notifier, userID, ws.Event{
			Type:      ws.EventTenderEndingSoon,
			ListingID: l.ID.String(),
			Title:     n.Title,
			Body:      body,
		})
	}
	return nil
}
