package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Notification kinds.
const (
	NotificationTenderEndingSoon = "tender_ending_soon"
	NotificationNewMessage       = "new_message"
	NotificationListingNearby    = "listing_nearby"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Kind      string
	Title     string
	Body      string
	ListingID *uuid.UUID
	CreatedAt time.Time
	ReadAt    *time.Time
}

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	// ExistsRecent guards the cron sweep against notifying the same user about
	// the same listing twice within the window.
	ExistsRecent(ctx context.Context, userID uuid.UUID, kind string, listingID uuid.UUID, window time.Duration) (bool, error)
}

type PostgresNotificationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresNotificationRepository(db *pgxpool.Pool) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n Notification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, kind, title, body, listing_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Kind, n.Title, n.Body, n.ListingID, n.CreatedAt)
	return err
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, kind, COALESCE(title, ''), COALESCE(body, ''), listing_id, created_at, read_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.ListingID, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications SET read_at = now()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL`,
		notificationID, userID)
	return err
}

func (r *PostgresNotificationRepository) ExistsRecent(ctx context.Context, userID uuid.UUID, kind string, listingID uuid.UUID, window time.Duration) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND kind = $2 AND listing_id = $3
			  AND created_at > now() - make_interval(secs => $4)
		)`,
		userID, kind, listingID, window.Seconds())
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
