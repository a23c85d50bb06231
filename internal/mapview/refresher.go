package mapview

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"zlecenia/internal/geo"
)

const (
	defaultDebounce = 300 * time.Millisecond
	// Bounds deltas below this fraction of the viewport span are jitter, not
	// a pan worth refetching for.
	significantFraction = 0.01
)

type FetchFunc func(ctx context.Context, bounds geo.Bounds) ([]Marker, error)

type ApplyFunc func(bounds geo.Bounds, markers []Marker)

// Refresher turns a noisy stream of viewport updates into a bounded number of
// fetches: updates are debounced, insignificant pans are dropped, and a fetch
// result is applied only while its request id is still the newest issued.
// A slow response superseded by a newer viewport is discarded.
type Refresher struct {
	fetch    FetchFunc
	apply    ApplyFunc
	debounce time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	timer    *time.Timer
	pending  geo.Bounds
	last     *geo.Bounds
	latestID uint64
}

func NewRefresher(fetch FetchFunc, apply ApplyFunc, debounce time.Duration, logger *log.Logger) *Refresher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Refresher{fetch: fetch, apply: apply, debounce: debounce, logger: logger}
}

// BoundsChanged records a viewport update. The fetch fires after the debounce
// window closes, and only when the move is significant relative to the last
// fetched viewport.
func (r *Refresher) BoundsChanged(ctx context.Context, bounds geo.Bounds) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last != nil && !significantChange(*r.last, bounds) {
		return
	}

	r.pending = bounds
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		r.fire(ctx)
	})
}

// Flush forces an immediate fetch of the pending bounds, used for the initial
// map load where there is nothing to debounce against.
func (r *Refresher) Flush(ctx context.Context, bounds geo.Bounds) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.pending = bounds
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()
	r.fire(ctx)
}

func (r *Refresher) fire(ctx context.Context) {
	r.mu.Lock()
	bounds := r.pending
	r.latestID++
	id := r.latestID
	r.last = &bounds
	r.mu.Unlock()

	data, err := r.fetch(ctx, bounds)
	if err != nil {
		if r.logger != nil {
			r.logger.Printf("[MapView] fetch failed id=%d: %v", id, err)
		}
		// Error path still resets: stale markers must not survive a failed
		// refresh.
		data = nil
	}

	r.mu.Lock()
	stale := id != r.latestID
	r.mu.Unlock()
	if stale {
		if r.logger != nil {
			r.logger.Printf("[MapView] discarding stale response id=%d", id)
		}
		return
	}

	if r.apply != nil {
		r.apply(bounds, data)
	}
}

// significantChange reports whether any edge moved more than 1% of the
// corresponding viewport span.
func significantChange(prev, next geo.Bounds) bool {
	latThreshold := math.Abs(prev.LatSpan()) * significantFraction
	lngThreshold := math.Abs(prev.LngSpan()) * significantFraction

	return math.Abs(next.North-prev.North) > latThreshold ||
		math.Abs(next.South-prev.South) > latThreshold ||
		math.Abs(next.East-prev.East) > lngThreshold ||
		math.Abs(next.West-prev.West) > lngThreshold
}
