package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/geocode"
	"zlecenia/internal/repository"
	"zlecenia/internal/ws"
)

type addressResolver interface {
	GeocodeWithFallback(ctx context.Context, address string) (geocode.Result, error)
}

type PublishParams struct {
	Title        string
	Description  string
	Category     string
	Subcategory  string
	ContractType string
	ClientType   string

	City        string
	Sublocality string
	// Address is the free-form location used for geocoding when the client
	// did not supply coordinates.
	Address   string
	Latitude  *float64
	Longitude *float64

	BudgetMin      *float64
	BudgetMax      *float64
	BudgetType     string
	BudgetCurrency string

	PostType listing.PostType
	Urgency  listing.Urgency
	Deadline *time.Time
	// TenderSubmissionDeadline is required for tenders, ignored for jobs.
	TenderSubmissionDeadline *time.Time
	TenderEvaluationCriteria []string
}

type ListingPublishUsecase interface {
	Publish(ctx context.Context, ownerID uuid.UUID, params PublishParams) (listing.Listing, error)
}

type ListingPublish struct {
	listings repository.ListingRepository
	cache    SearchCache
	geocoder addressResolver
	notifier ws.Notifier
	logger   *log.Logger
	now      func() time.Time
}

func NewListingPublishUsecase(listings repository.ListingRepository, cache SearchCache, geocoder addressResolver, notifier ws.Notifier, logger *log.Logger) *ListingPublish {
	return &ListingPublish{
		listings: listings,
		cache:    cache,
		geocoder: geocoder,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Publish validates and persists a new listing, resolving coordinates from
// the address when the client did not provide them, then invalidates the
// search cache and announces the listing to connected clients.
func (u *ListingPublish) Publish(ctx context.Context, ownerID uuid.UUID, params PublishParams) (listing.Listing, error) {
	if ownerID == uuid.Nil {
		return listing.Listing{}, ErrInvalidInput
	}
	title := strings.TrimSpace(params.Title)
	if title == "" || !listing.ValidPostType(params.PostType) {
		return listing.Listing{}, ErrInvalidInput
	}
	if params.Urgency != "" && !listing.ValidUrgency(params.Urgency) {
		return listing.Listing{}, ErrInvalidInput
	}
	if params.BudgetMin != nil && params.BudgetMax != nil && *params.BudgetMin > *params.BudgetMax {
		return listing.Listing{}, ErrInvalidInput
	}
	if params.PostType == listing.PostTypeTender && params.TenderSubmissionDeadline == nil {
		return listing.Listing{}, ErrInvalidInput
	}

	lat, lng := params.Latitude, params.Longitude
	display := strings.TrimSpace(params.Address)
	if lat == nil || lng == nil {
		address := display
		if address == "" {
			address = strings.TrimSpace(params.City + " " + params.Sublocality)
		}
		if address != "" && u.geocoder != nil {
			res, err := u.geocoder.GeocodeWithFallback(ctx, address)
			if err == nil {
				lat, lng = &res.Latitude, &res.Longitude
				if display == "" {
					display = res.Address
				}
			} else if u.logger != nil {
				// A listing without coordinates is still publishable; it just
				// won't show on the map.
				u.logger.Printf("[Publish] geocode failed for %q: %v", address, err)
			}
		}
	}
	if display == "" {
		display = strings.TrimSpace(params.City + " " + params.Sublocality)
	}

	l := listing.Listing{
		ID:           uuid.New(),
		Title:        title,
		Description:  strings.TrimSpace(params.Description),
		Category:     strings.TrimSpace(params.Category),
		Subcategory:  strings.TrimSpace(params.Subcategory),
		ContractType: strings.TrimSpace(params.ContractType),
		ClientType:   strings.TrimSpace(params.ClientType),
		Location: listing.Location{
			Display:     display,
			City:        strings.TrimSpace(params.City),
			Sublocality: strings.TrimSpace(params.Sublocality),
		},
		Latitude:  lat,
		Longitude: lng,
		Budget: listing.Budget{
			Min:      params.BudgetMin,
			Max:      params.BudgetMax,
			Type:     params.BudgetType,
			Currency: params.BudgetCurrency,
		},
		Urgency:   params.Urgency,
		PostType:  params.PostType,
		Status:    listing.StatusActive,
		Deadline:  params.Deadline,
		OwnerID:   ownerID,
		CreatedAt: u.now().UTC(),
	}
	if params.PostType == listing.PostTypeTender {
		criteria := make([]string, 0, len(params.TenderEvaluationCriteria))
		for _, c := range params.TenderEvaluationCriteria {
			if c = strings.TrimSpace(c); c != "" {
				criteria = append(criteria, c)
			}
		}
		l.Tender = &listing.TenderPhase{
			Current:            "submission",
			SubmissionDeadline: params.TenderSubmissionDeadline,
			EvaluationCriteria: criteria,
		}
	}

	if err := u.listings.Create(ctx, l); err != nil {
		if u.logger != nil {
			u.logger.Printf("[Publish] create failed: %v", err)
		}
		return listing.Listing{}, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, "listings:search:*"); err != nil && u.logger != nil {
			u.logger.Printf("[Publish] cache invalidation failed: %v", err)
		}
	}

	ws.BroadcastEvent(u.notifier, ws.Event{
		Type:      ws.EventListingCreated,
		ListingID: l.ID.String(),
		Title:     l.Title,
	})
	return l, nil
}
