package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Bookmark is the persisted snapshot of a saved listing. Snapshot fields are
// denormalized on purpose so the bookmark list renders even after the listing
// is archived.
type Bookmark struct {
	ListingID    uuid.UUID  `json:"listing_id"`
	Title        string     `json:"title"`
	ClientType   string     `json:"client_type"`
	Location     string     `json:"location"`
	PostType     string     `json:"post_type"`
	Budget       string     `json:"budget"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	BookmarkedAt time.Time  `json:"bookmarked_at"`
}

type BookmarkRepository interface {
	Add(ctx context.Context, userID uuid.UUID, b Bookmark) error
	Remove(ctx context.Context, userID, listingID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Bookmark, error)
}

type PostgresBookmarkRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookmarkRepository(db *pgxpool.Pool) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

// Add is idempotent: re-bookmarking an already saved listing keeps the
// original bookmarked_at.
func (r *PostgresBookmarkRepository) Add(ctx context.Context, userID uuid.UUID, b Bookmark) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO bookmarks (user_id, listing_id, title, client_type, location, post_type, budget, deadline, bookmarked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, listing_id) DO NOTHING`,
		userID, b.ListingID, b.Title, b.ClientType, b.Location, b.PostType, b.Budget, b.Deadline, b.BookmarkedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return nil
	}
	_, err = r.db.Exec(ctx,
		`UPDATE listings SET bookmark_count = COALESCE(bookmark_count, 0) + 1 WHERE id = $1`,
		b.ListingID)
	return err
}

func (r *PostgresBookmarkRepository) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND listing_id = $2`,
		userID, listingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return nil
	}
	_, err = r.db.Exec(ctx,
		`UPDATE listings SET bookmark_count = GREATEST(COALESCE(bookmark_count, 0) - 1, 0) WHERE id = $1`,
		listingID)
	return err
}

func (r *PostgresBookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Bookmark, error) {
	rows, err := r.db.Query(ctx, `
		SELECT listing_id, COALESCE(title, ''), COALESCE(client_type, ''), COALESCE(location, ''),
		       COALESCE(post_type, ''), COALESCE(budget, ''), deadline, bookmarked_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY bookmarked_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Bookmark, 0)
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ListingID, &b.Title, &b.ClientType, &b.Location,
			&b.PostType, &b.Budget, &b.Deadline, &b.BookmarkedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// FindBookmarkerIDs returns the users who saved the given listing, used by
// the ending-soon notification sweep.
func (r *PostgresBookmarkRepository) FindBookmarkerIDs(ctx context.Context, listingID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM bookmarks WHERE listing_id = $1`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
