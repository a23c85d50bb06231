package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/filter"
	"zlecenia/internal/geo"
	"zlecenia/internal/mapview"
	"zlecenia/internal/repository"
)

// PageIncrement is the list view's "load more" step.
const PageIncrement = 10

type SearchParams struct {
	Filters filter.State
	Sort    string
	Limit   int
	Offset  int
}

type SearchResult struct {
	Listings []listing.Listing
	Total    int
}

type ListingSearchUsecase interface {
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	MapMarkers(ctx context.Context, bounds geo.Bounds, filters filter.State) ([]mapview.Marker, error)
	GetListing(ctx context.Context, id uuid.UUID) (listing.Listing, error)
}

// ListingSearch serves both the card list and the map markers. The two paths
// deliberately track separate datasets: filters always run against the full
// active set, while markers only see the viewport subset, cached per bounds
// rectangle.
type ListingSearch struct {
	listings    repository.ListingRepository
	boundsCache *geo.BoundsCache
	cache       SearchCache
	logger      *log.Logger
}

func NewListingSearchUsecase(listings repository.ListingRepository, boundsCache *geo.BoundsCache, cache SearchCache, logger *log.Logger) *ListingSearch {
	return &ListingSearch{listings: listings, boundsCache: boundsCache, cache: cache, logger: logger}
}

// Search fetches the full active set, filters, sorts, and paginates.
func (u *ListingSearch) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	limit := params.Limit
	if limit == 0 {
		limit = PageIncrement
	}
	if limit < 0 || limit > repository.MaxListingPageSize {
		return SearchResult{}, ErrInvalidInput
	}
	offset := params.Offset
	if offset < 0 {
		return SearchResult{}, ErrInvalidInput
	}

	cacheable := u.cache != nil && !params.Filters.IsZero()
	cacheKey := ""
	if cacheable {
		cacheKey = ListingSearchCacheKey(params.Filters, params.Sort, limit, offset)
		var cached SearchResult
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			if u.logger != nil {
				u.logger.Printf("[Listings] Cache HIT: %s", cacheKey)
			}
			return cached, nil
		}
		if u.logger != nil {
			u.logger.Printf("[Listings] Cache MISS: %s", cacheKey)
		}
	}

	lockAcquired := false
	lockKey := ""
	if cacheable {
		lockKey = ListingSearchLockKey(cacheKey)
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
		if err == nil && ok {
			lockAcquired = true
		} else if err == nil && !ok {
			// Another request is filling this entry; give it a beat.
			time.Sleep(300 * time.Millisecond)
			var cached SearchResult
			hit, err2 := u.cache.GetJSON(ctx, cacheKey, &cached)
			if err2 == nil && hit {
				return cached, nil
			}
		}
	}

	all, err := u.listings.ListActive(ctx, repository.ListingFetchFilter{Limit: repository.MaxListingPageSize})
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Listings] fetch failed: %v", err)
		}
		// No stale display: the caller gets an explicitly empty result.
		return SearchResult{Listings: []listing.Listing{}}, ErrInternal
	}

	matched := filter.Apply(all, params.Filters)
	sorted := filter.SortListings(matched, params.Sort)

	page := paginate(sorted, limit, offset)
	res := SearchResult{Listings: page, Total: len(sorted)}

	if cacheable {
		_ = u.cache.SetJSON(ctx, cacheKey, res, 0)
		if u.logger != nil {
			u.logger.Printf("[Listings] Cache SET: %s", cacheKey)
		}
		if lockAcquired {
			_ = u.cache.Delete(ctx, lockKey)
		}
	}
	return res, nil
}

// MapMarkers serves the viewport subset through the bounds cache, then runs
// the same filter engine before projecting markers.
func (u *ListingSearch) MapMarkers(ctx context.Context, bounds geo.Bounds, filters filter.State) ([]mapview.Marker, error) {
	inView, hit := u.boundsCache.Get(bounds)
	if !hit {
		fetched, err := u.listings.ListActive(ctx, repository.ListingFetchFilter{
			Limit:  repository.MaxListingPageSize,
			Bounds: &bounds,
		})
		if err != nil {
			if u.logger != nil {
				u.logger.Printf("[Listings] bounds fetch failed: %v", err)
			}
			return []mapview.Marker{}, ErrInternal
		}
		u.boundsCache.Put(bounds, fetched)
		inView = fetched
	}

	matched := filter.Apply(inView, filters)
	return mapview.BuildMarkers(matched), nil
}

func (u *ListingSearch) GetListing(ctx context.Context, id uuid.UUID) (listing.Listing, error) {
	if id == uuid.Nil {
		return listing.Listing{}, ErrInvalidInput
	}
	l, err := u.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return listing.Listing{}, ErrNotFound
		}
		return listing.Listing{}, ErrInternal
	}

	if err := u.listings.IncrementViewCount(ctx, id); err != nil && u.logger != nil {
		u.logger.Printf("[Listings] view count bump failed id=%s: %v", id, err)
	}
	return l, nil
}

func paginate(xs []listing.Listing, limit, offset int) []listing.Listing {
	if offset >= len(xs) {
		return []listing.Listing{}
	}
	end := offset + limit
	if end > len(xs) {
		end = len(xs)
	}
	out := make([]listing.Listing, end-offset)
	copy(out, xs[offset:end])
	return out
}
