package geo

import (
	"fmt"
	"testing"
	"time"

	"zlecenia/internal/domain/listing"
)

func ptr(v float64) *float64 { return &v }

func listingAt(lat, lng float64) listing.Listing {
	return listing.Listing{Latitude: ptr(lat), Longitude: ptr(lng)}
}

func TestBoundsCache_ContainedViewportHitsAndSubfilters(t *testing.T) {
	c := NewBoundsCache(nil)

	outer := Bounds{North: 53.0, South: 52.0, East: 22.0, West: 20.0}
	c.Put(outer, []listing.Listing{
		listingAt(52.2, 21.0),
		listingAt(52.9, 21.9),
		listingAt(52.05, 20.1),
	})

	inner := Bounds{North: 52.5, South: 52.1, East: 21.5, West: 20.5}
	got, ok := c.Get(inner)
	if !ok {
		t.Fatalf("expected hit for contained viewport")
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 listing after sub-filtering, got %d", len(got))
	}
	if *got[0].Latitude != 52.2 {
		t.Fatalf("wrong listing survived the sub-filter")
	}
}

func TestBoundsCache_OverlappingViewportMisses(t *testing.T) {
	c := NewBoundsCache(nil)

	c.Put(Bounds{North: 53.0, South: 52.0, East: 22.0, West: 20.0}, nil)

	// Shifted east so it overlaps but is not contained.
	overlap := Bounds{North: 52.5, South: 52.1, East: 23.0, West: 21.0}
	if _, ok := c.Get(overlap); ok {
		t.Fatalf("overlap without containment must be a miss")
	}
}

func TestBoundsCache_EvictsOldestInserted(t *testing.T) {
	c := NewBoundsCache(nil)

	first := Bounds{North: 1, South: 0, East: 1, West: 0}
	c.Put(first, []listing.Listing{listingAt(0.5, 0.5)})

	for i := 1; i <= 10; i++ {
		b := Bounds{North: float64(i) + 1, South: float64(i), East: 1, West: 0}
		c.Put(b, nil)
	}

	if c.Len() != 10 {
		t.Fatalf("expected capped size 10, got %d", c.Len())
	}
	if _, ok := c.Get(first); ok {
		t.Fatalf("first-inserted entry should have been evicted")
	}
	// The second insert must still be present.
	second := Bounds{North: 2, South: 1, East: 1, West: 0}
	if _, ok := c.Get(second); !ok {
		t.Fatalf("second-inserted entry should have survived")
	}
}

func TestBoundsCache_TTLExpiry(t *testing.T) {
	c := NewBoundsCache(nil)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	b := Bounds{North: 53.0, South: 52.0, East: 22.0, West: 20.0}
	c.Put(b, []listing.Listing{listingAt(52.5, 21.0)})

	c.now = func() time.Time { return base.Add(5*time.Minute - time.Millisecond) }
	if _, ok := c.Get(b); !ok {
		t.Fatalf("entry just inside the TTL should hit")
	}

	c.now = func() time.Time { return base.Add(5*time.Minute + time.Millisecond) }
	if _, ok := c.Get(b); ok {
		t.Fatalf("entry past the TTL should miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be removed, have %d", c.Len())
	}
}

func TestBoundsCache_PutReplacesSameKey(t *testing.T) {
	c := NewBoundsCache(nil)

	b := Bounds{North: 53.0, South: 52.0, East: 22.0, West: 20.0}
	c.Put(b, []listing.Listing{listingAt(52.5, 21.0)})
	c.Put(b, []listing.Listing{listingAt(52.5, 21.0), listingAt(52.6, 21.1)})

	if c.Len() != 1 {
		t.Fatalf("same-key put should replace, size=%d", c.Len())
	}
	got, ok := c.Get(b)
	if !ok || len(got) != 2 {
		t.Fatalf("expected refreshed entry with 2 listings, ok=%v n=%d", ok, len(got))
	}
}

func TestBoundsKeyRounding(t *testing.T) {
	a := Bounds{North: 53.00123, South: 52.00456, East: 22.001, West: 20.004}
	b := Bounds{North: 53.0, South: 52.0, East: 22.0, West: 20.0}
	if a.Key() != b.Key() {
		t.Fatalf("sub-hundredth jitter should share a key: %s vs %s", a.Key(), b.Key())
	}
	want := fmt.Sprintf("%.2f-%.2f-%.2f-%.2f", 53.0, 52.0, 22.0, 20.0)
	if b.Key() != want {
		t.Fatalf("key format changed: %s", b.Key())
	}
}
