package filter

import (
	"math"
	"sort"

	"zlecenia/internal/domain/listing"
)

// Sort modes accepted by SortListings.
const (
	SortNewest       = "newest"
	SortSalaryLow    = "salary-low"
	SortSalaryHigh   = "salary-high"
	SortApplications = "applications"
)

// SortListings orders a copy of the input. Newest sorts by the real creation
// timestamp; the budget modes order by the effective budget interval, pushing
// listings without budget data to the end.
func SortListings(listings []listing.Listing, mode string) []listing.Listing {
	out := make([]listing.Listing, len(listings))
	copy(out, listings)

	switch mode {
	case SortNewest, "":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case SortSalaryLow:
		sort.SliceStable(out, func(i, j int) bool {
			return sortBudgetMin(out[i]) < sortBudgetMin(out[j])
		})
	case SortSalaryHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return sortBudgetMax(out[i]) > sortBudgetMax(out[j])
		})
	case SortApplications:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ApplicationCount < out[j].ApplicationCount
		})
	}
	return out
}

func sortBudgetMin(l listing.Listing) float64 {
	if !l.Budget.HasData() {
		return math.Inf(1)
	}
	return l.Budget.EffectiveMin()
}

func sortBudgetMax(l listing.Listing) float64 {
	max, ok := l.Budget.EffectiveMax()
	if !ok {
		return math.Inf(-1)
	}
	return max
}
