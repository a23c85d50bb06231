package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/filter"
	"zlecenia/internal/geo"
	"zlecenia/internal/repository"
)

type mockListingRepo struct {
	items      []listing.Listing
	err        error
	listCalls  int
	lastFilter repository.ListingFetchFilter
	viewBumps  int
}

func (m *mockListingRepo) ListActive(_ context.Context, f repository.ListingFetchFilter) ([]listing.Listing, error) {
	m.listCalls++
	m.lastFilter = f
	if m.err != nil {
		return nil, m.err
	}
	if f.Bounds != nil {
		out := make([]listing.Listing, 0)
		for _, l := range m.items {
			if l.HasCoordinates() && f.Bounds.ContainsPoint(*l.Latitude, *l.Longitude) {
				out = append(out, l)
			}
		}
		return out, nil
	}
	return m.items, nil
}

func (m *mockListingRepo) FindByID(_ context.Context, id uuid.UUID) (listing.Listing, error) {
	if m.err != nil {
		return listing.Listing{}, m.err
	}
	for _, l := range m.items {
		if l.ID == id {
			return l, nil
		}
	}
	return listing.Listing{}, repository.ErrListingNotFound
}

func (m *mockListingRepo) IncrementViewCount(context.Context, uuid.UUID) error {
	m.viewBumps++
	return nil
}

func (m *mockListingRepo) Create(_ context.Context, l listing.Listing) error {
	m.items = append(m.items, l)
	return nil
}

func (m *mockListingRepo) ListTendersEndingBetween(context.Context, int, int) ([]listing.Listing, error) {
	return nil, nil
}

type mockSearchCache struct {
	store          map[string][]byte
	sets           int
	patternDeletes []string
}

func newMockSearchCache() *mockSearchCache {
	return &mockSearchCache{store: map[string][]byte{}}
}

func (m *mockSearchCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *mockSearchCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = b
	m.sets++
	return nil
}

func (m *mockSearchCache) Delete(_ context.Context, key string) error {
	delete(m.store, key)
	return nil
}

func (m *mockSearchCache) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	if _, ok := m.store[key]; ok {
		return false, nil
	}
	m.store[key] = []byte("1")
	return true, nil
}

func (m *mockSearchCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.patternDeletes = append(m.patternDeletes, pattern)
	for key := range m.store {
		delete(m.store, key)
	}
	return nil
}

func demoListing(title string, created time.Time) listing.Listing {
	return listing.Listing{
		ID:        uuid.New(),
		Title:     title,
		PostType:  listing.PostTypeJob,
		Status:    listing.StatusActive,
		CreatedAt: created,
	}
}

func TestSearch_InvalidLimit(t *testing.T) {
	uc := NewListingSearchUsecase(&mockListingRepo{}, geo.NewBoundsCache(nil), nil, nil)
	_, err := uc.Search(context.Background(), SearchParams{Limit: -1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_, err = uc.Search(context.Background(), SearchParams{Limit: repository.MaxListingPageSize + 1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized limit, got %v", err)
	}
}

func TestSearch_DefaultPageAndPagination(t *testing.T) {
	now := time.Now().UTC()
	items := make([]listing.Listing, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, demoListing("a", now.Add(-time.Duration(i)*time.Minute)))
	}
	uc := NewListingSearchUsecase(&mockListingRepo{items: items}, geo.NewBoundsCache(nil), nil, nil)

	res, err := uc.Search(context.Background(), SearchParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Listings) != PageIncrement {
		t.Fatalf("expected default page of %d, got %d", PageIncrement, len(res.Listings))
	}
	if res.Total != 25 {
		t.Fatalf("expected total 25, got %d", res.Total)
	}

	res, err = uc.Search(context.Background(), SearchParams{Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Listings) != 5 {
		t.Fatalf("expected last partial page of 5, got %d", len(res.Listings))
	}
}

func TestSearch_ErrorReturnsEmptyNotStale(t *testing.T) {
	repo := &mockListingRepo{err: errors.New("db down")}
	uc := NewListingSearchUsecase(repo, geo.NewBoundsCache(nil), nil, nil)

	res, err := uc.Search(context.Background(), SearchParams{})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if res.Listings == nil || len(res.Listings) != 0 {
		t.Fatalf("expected explicitly empty listings, got %v", res.Listings)
	}
}

func TestSearch_CachesFilteredQueries(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockListingRepo{items: []listing.Listing{demoListing("Remont dachu", now)}}
	cache := newMockSearchCache()
	uc := NewListingSearchUsecase(repo, geo.NewBoundsCache(nil), cache, nil)

	params := SearchParams{Filters: filter.State{Query: "dach"}}
	if _, err := uc.Search(context.Background(), params); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cache.sets == 0 {
		t.Fatalf("expected filtered search to populate the cache")
	}
	calls := repo.listCalls

	if _, err := uc.Search(context.Background(), params); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.listCalls != calls {
		t.Fatalf("expected cache hit to skip the fetch, calls went %d -> %d", calls, repo.listCalls)
	}
}

func TestSearch_UnfilteredSkipsCache(t *testing.T) {
	repo := &mockListingRepo{items: []listing.Listing{demoListing("a", time.Now())}}
	cache := newMockSearchCache()
	uc := NewListingSearchUsecase(repo, geo.NewBoundsCache(nil), cache, nil)

	if _, err := uc.Search(context.Background(), SearchParams{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cache.sets != 0 {
		t.Fatalf("expected zero-filter search to bypass the cache, got %d sets", cache.sets)
	}
}

func TestMapMarkers_BoundsCacheRoundTrip(t *testing.T) {
	lat, lng := 52.23, 21.01
	withCoords := demoListing("Warszawa", time.Now())
	withCoords.Latitude = &lat
	withCoords.Longitude = &lng

	repo := &mockListingRepo{items: []listing.Listing{withCoords}}
	uc := NewListingSearchUsecase(repo, geo.NewBoundsCache(nil), nil, nil)

	bounds := geo.Bounds{North: 53, South: 52, East: 22, West: 20}
	markers, err := uc.MapMarkers(context.Background(), bounds, filter.State{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if repo.lastFilter.Bounds == nil {
		t.Fatalf("expected miss to fetch with bounds")
	}

	calls := repo.listCalls
	if _, err := uc.MapMarkers(context.Background(), bounds, filter.State{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.listCalls != calls {
		t.Fatalf("expected cached bounds to skip the fetch")
	}
}

func TestGetListing_NotFoundAndViewBump(t *testing.T) {
	l := demoListing("a", time.Now())
	repo := &mockListingRepo{items: []listing.Listing{l}}
	uc := NewListingSearchUsecase(repo, geo.NewBoundsCache(nil), nil, nil)

	if _, err := uc.GetListing(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := uc.GetListing(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != l.ID {
		t.Fatalf("unexpected listing returned")
	}
	if repo.viewBumps != 1 {
		t.Fatalf("expected one view bump, got %d", repo.viewBumps)
	}
}
