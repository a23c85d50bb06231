package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/geo"
)

var ErrListingNotFound = errors.New("listing not found")

// MaxListingPageSize is the server-side ceiling on a single fetch.
const MaxListingPageSize = 500

// ListingFetchFilter constrains the active-listing fetch. Only active rows
// are ever returned; Bounds, when set, restricts to the viewport rectangle.
type ListingFetchFilter struct {
	Limit  int
	Offset int
	Bounds *geo.Bounds
}

type ListingRepository interface {
	ListActive(ctx context.Context, f ListingFetchFilter) ([]listing.Listing, error)
	FindByID(ctx context.Context, id uuid.UUID) (listing.Listing, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	Create(ctx context.Context, l listing.Listing) error
	ListTendersEndingBetween(ctx context.Context, fromDays, toDays int) ([]listing.Listing, error)
}

type PostgresListingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresListingRepository(db *pgxpool.Pool) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

const listingColumns = `
	id, title, COALESCE(description, ''), COALESCE(category, ''), COALESCE(subcategory, ''),
	COALESCE(contract_type, ''), COALESCE(client_type, ''),
	COALESCE(location_display, ''), COALESCE(city, ''), COALESCE(sublocality, ''),
	latitude, longitude,
	budget_min, budget_max, COALESCE(budget_type, ''), COALESCE(budget_currency, 'PLN'), COALESCE(budget_display, ''),
	COALESCE(urgency, ''), COALESCE(urgent, false), post_type, status, deadline,
	COALESCE(tender_phase, ''), tender_submission_deadline, tender_evaluation_criteria,
	COALESCE(application_count, 0), COALESCE(view_count, 0), COALESCE(bookmark_count, 0),
	COALESCE(verified, false), owner_id, created_at`

func (r *PostgresListingRepository) ListActive(ctx context.Context, f ListingFetchFilter) ([]listing.Listing, error) {
	limit := f.Limit
	if limit <= 0 || limit > MaxListingPageSize {
		limit = MaxListingPageSize
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + listingColumns + ` FROM listings WHERE status = 'active'`
	args := []any{}
	if f.Bounds != nil {
		b := f.Bounds
		query += fmt.Sprintf(
			" AND latitude BETWEEN $%d AND $%d AND longitude BETWEEN $%d AND $%d",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4)
		args = append(args, b.South, b.North, b.West, b.East)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]listing.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresListingRepository) FindByID(ctx context.Context, id uuid.UUID) (listing.Listing, error) {
	row := r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return listing.Listing{}, ErrListingNotFound
		}
		return listing.Listing{}, err
	}
	return l, nil
}

func (r *PostgresListingRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE listings SET view_count = COALESCE(view_count, 0) + 1 WHERE id = $1`, id)
	return err
}

func (r *PostgresListingRepository) Create(ctx context.Context, l listing.Listing) error {
	var tenderPhase *string
	var tenderDeadline any
	var tenderCriteria []string
	if l.Tender != nil {
		tenderPhase = &l.Tender.Current
		tenderDeadline = l.Tender.SubmissionDeadline
		tenderCriteria = l.Tender.EvaluationCriteria
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO listings (
			id, title, description, category, subcategory, contract_type, client_type,
			location_display, city, sublocality, latitude, longitude,
			budget_min, budget_max, budget_type, budget_currency, budget_display,
			urgency, urgent, post_type, status, deadline,
			tender_phase, tender_submission_deadline, tender_evaluation_criteria,
			verified, owner_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		)`,
		l.ID, l.Title, l.Description, l.Category, l.Subcategory, l.ContractType, l.ClientType,
		l.Location.Display, l.Location.City, l.Location.Sublocality, l.Latitude, l.Longitude,
		l.Budget.Min, l.Budget.Max, l.Budget.Type, l.Budget.Currency, l.Budget.Display,
		string(l.Urgency), l.Urgent, string(l.PostType), string(l.Status), l.Deadline,
		tenderPhase, tenderDeadline, tenderCriteria, l.Verified, l.OwnerID, l.CreatedAt,
	)
	return err
}

// ListTendersEndingBetween finds active tenders whose submission deadline is
// between fromDays and toDays from now, used by the ending-soon sweep.
func (r *PostgresListingRepository) ListTendersEndingBetween(ctx context.Context, fromDays, toDays int) ([]listing.Listing, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE status = 'active'
		  AND post_type = 'tender'
		  AND tender_submission_deadline IS NOT NULL
		  AND tender_submission_deadline > now() + make_interval(days => $1)
		  AND tender_submission_deadline <= now() + make_interval(days => $2)`,
		fromDays, toDays,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]listing.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanListing(row pgx.Row) (listing.Listing, error) {
	var l listing.Listing
	var urgency, postType, status, tenderPhase string
	var tenderDeadline *time.Time
	var tenderCriteria []string

	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.Category, &l.Subcategory,
		&l.ContractType, &l.ClientType,
		&l.Location.Display, &l.Location.City, &l.Location.Sublocality,
		&l.Latitude, &l.Longitude,
		&l.Budget.Min, &l.Budget.Max, &l.Budget.Type, &l.Budget.Currency, &l.Budget.Display,
		&urgency, &l.Urgent, &postType, &status, &l.Deadline,
		&tenderPhase, &tenderDeadline, &tenderCriteria,
		&l.ApplicationCount, &l.ViewCount, &l.BookmarkCount,
		&l.Verified, &l.OwnerID, &l.CreatedAt,
	)
	if err != nil {
		return listing.Listing{}, err
	}

	l.Urgency = listing.Urgency(urgency)
	l.PostType = listing.PostType(postType)
	l.Status = listing.Status(status)
	if tenderPhase != "" || tenderDeadline != nil {
		l.Tender = &listing.TenderPhase{
			Current:            tenderPhase,
			SubmissionDeadline: tenderDeadline,
			EvaluationCriteria: tenderCriteria,
		}
	}
	return l, nil
}
