package mapview

import (
	"context"
	"sync"
	"testing"
	"time"

	"zlecenia/internal/domain/listing"
	"zlecenia/internal/geo"
)

type applyRecorder struct {
	mu    sync.Mutex
	calls []geo.Bounds
}

func (a *applyRecorder) apply(b geo.Bounds, _ []Marker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, b)
}

func (a *applyRecorder) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func TestRefresher_DebouncesBurstIntoOneFetch(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	fetch := func(ctx context.Context, b geo.Bounds) ([]Marker, error) {
		mu.Lock()
		fetches++
		mu.Unlock()
		return nil, nil
	}
	rec := &applyRecorder{}
	r := NewRefresher(fetch, rec.apply, 20*time.Millisecond, nil)

	base := geo.Bounds{North: 53, South: 52, East: 22, West: 20}
	for i := 0; i < 5; i++ {
		b := base
		b.North += float64(i) * 0.1
		r.BoundsChanged(context.Background(), b)
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fetches != 1 {
		t.Fatalf("burst should collapse into one fetch, got %d", fetches)
	}
	if rec.count() != 1 {
		t.Fatalf("expected exactly one apply, got %d", rec.count())
	}
}

func TestRefresher_IgnoresInsignificantPan(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	fetch := func(ctx context.Context, b geo.Bounds) ([]Marker, error) {
		mu.Lock()
		fetches++
		mu.Unlock()
		return nil, nil
	}
	r := NewRefresher(fetch, nil, 10*time.Millisecond, nil)

	base := geo.Bounds{North: 53, South: 52, East: 22, West: 20}
	r.Flush(context.Background(), base)

	// 0.5% of a 1-degree lat span: below the gate.
	jitter := base
	jitter.North += 0.005
	jitter.South += 0.005
	r.BoundsChanged(context.Background(), jitter)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fetches != 1 {
		t.Fatalf("sub-threshold pan must not refetch, got %d fetches", fetches)
	}
}

func TestRefresher_SignificantPanRefetches(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	fetch := func(ctx context.Context, b geo.Bounds) ([]Marker, error) {
		mu.Lock()
		fetches++
		mu.Unlock()
		return nil, nil
	}
	r := NewRefresher(fetch, nil, 10*time.Millisecond, nil)

	base := geo.Bounds{North: 53, South: 52, East: 22, West: 20}
	r.Flush(context.Background(), base)

	moved := base
	moved.North += 0.5
	moved.South += 0.5
	r.BoundsChanged(context.Background(), moved)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fetches != 2 {
		t.Fatalf("significant pan should refetch, got %d fetches", fetches)
	}
}

func TestRefresher_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	slow := geo.Bounds{North: 53, South: 52, East: 22, West: 20}
	fast := geo.Bounds{North: 43, South: 42, East: 12, West: 10}

	fetch := func(ctx context.Context, b geo.Bounds) ([]Marker, error) {
		if b == slow {
			<-release
		}
		return nil, nil
	}
	rec := &applyRecorder{}
	r := NewRefresher(fetch, rec.apply, time.Millisecond, nil)

	go r.Flush(context.Background(), slow)
	time.Sleep(10 * time.Millisecond)
	go r.Flush(context.Background(), fast)

	time.Sleep(30 * time.Millisecond)
	close(release)
	time.Sleep(30 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.calls) != 1 {
		t.Fatalf("expected one applied result, got %d", len(rec.calls))
	}
	if rec.calls[0] != fast {
		t.Fatalf("the newer viewport must win, got %+v", rec.calls[0])
	}
}

func TestBuildMarkers_Encoding(t *testing.T) {
	lat, lng := 52.2297, 21.0122
	urgent := listing.Listing{
		Latitude:  &lat,
		Longitude: &lng,
		PostType:  listing.PostTypeTender,
		Urgent:    true,
	}
	calm := listing.Listing{
		Latitude:  &lat,
		Longitude: &lng,
		PostType:  listing.PostTypeJob,
		Urgency:   listing.UrgencyMedium,
	}
	noCoords := listing.Listing{PostType: listing.PostTypeJob}

	markers := BuildMarkers([]listing.Listing{urgent, calm, noCoords})
	if len(markers) != 2 {
		t.Fatalf("listings without coordinates must be skipped, got %d markers", len(markers))
	}
	if markers[0].Color != ColorHigh || markers[0].Glyph != GlyphTender {
		t.Fatalf("legacy urgent tender encoded wrong: %+v", markers[0])
	}
	if markers[1].Color != ColorMedium || markers[1].Glyph != GlyphJob {
		t.Fatalf("medium job encoded wrong: %+v", markers[1])
	}
	if len(markers[0].ClusterKey) != 5 {
		t.Fatalf("cluster key should be a 5-char geohash, got %q", markers[0].ClusterKey)
	}
	if markers[0].ClusterKey != markers[1].ClusterKey {
		t.Fatalf("same coordinates must share a cluster key")
	}
}
