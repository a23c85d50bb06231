package filter

import (
	"math"
	"strings"
	"time"

	"zlecenia/internal/domain/listing"
)

const endingSoonWindowDays = 7

// Apply returns the sublisting matching every active predicate. The result is
// always a subset of the input; an empty State passes everything through.
func Apply(listings []listing.Listing, s State) []listing.Listing {
	return ApplyAt(listings, s, time.Now())
}

// ApplyAt is Apply with an explicit reference time for the deadline-relative
// predicates.
func ApplyAt(listings []listing.Listing, s State, now time.Time) []listing.Listing {
	if s.IsZero() {
		out := make([]listing.Listing, len(listings))
		copy(out, listings)
		return out
	}

	out := make([]listing.Listing, 0, len(listings))
	for _, l := range listings {
		if matches(l, s, now) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l listing.Listing, s State, now time.Time) bool {
	if !matchPostType(l, s.PostTypes) {
		return false
	}
	if !memberOrEmpty(l.Category, s.Categories) {
		return false
	}
	if !memberOrEmpty(l.Subcategory, s.Subcategories) {
		return false
	}
	if !memberOrEmpty(l.ContractType, s.ContractTypes) {
		return false
	}
	if !matchCity(l, s) {
		return false
	}
	if !matchProvince(l, s.Provinces) {
		return false
	}
	if !matchLegacyLocation(l, s.Locations) {
		return false
	}
	if !memberOrEmpty(l.ClientType, s.ClientTypes) {
		return false
	}
	if !memberOrEmpty(string(l.EffectiveUrgency()), s.UrgencyLevels) {
		return false
	}
	if s.EndingSoon && !endingSoon(l, now) {
		return false
	}
	if !matchBudget(l.Budget, s) {
		return false
	}
	if !matchQuery(l.Title, s.Query) {
		return false
	}
	return true
}

// matchPostType treats selecting both post types the same as selecting none,
// matching the legacy "select all" checkbox semantics.
func matchPostType(l listing.Listing, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	hasJob := contains(selected, string(listing.PostTypeJob))
	hasTender := contains(selected, string(listing.PostTypeTender))
	if hasJob && hasTender {
		return true
	}
	return contains(selected, string(l.PostType))
}

// matchCity implements the two-tier city/sublocality fallback: a listing
// passes when its exact city+sublocality pair is selected, or when its city
// is selected as a whole and no sublocality selection narrows that city.
func matchCity(l listing.Listing, s State) bool {
	if len(s.Cities) == 0 && len(s.Sublocalities) == 0 {
		return true
	}

	city := l.Location.City
	if city == "" {
		city = l.Location.Display
	}

	if len(s.Sublocalities) > 0 {
		pair := city + ":" + l.Location.Sublocality
		if containsFold(s.Sublocalities, pair) {
			return true
		}
		if containsFold(s.Cities, city) && !cityNarrowed(s.Sublocalities, city) {
			return true
		}
		return false
	}

	return containsFold(s.Cities, city)
}

func cityNarrowed(sublocalities []string, city string) bool {
	for _, sel := range sublocalities {
		c, _, ok := strings.Cut(sel, ":")
		if ok && strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}

func matchProvince(l listing.Listing, provinces []string) bool {
	if len(provinces) == 0 {
		return true
	}
	city := l.Location.City
	if city == "" {
		city = l.Location.Display
	}
	p, ok := ProvinceForCity(city)
	if !ok {
		return false
	}
	return containsFold(provinces, p)
}

func matchLegacyLocation(l listing.Listing, locations []string) bool {
	if len(locations) == 0 {
		return true
	}
	return containsFold(locations, l.Location.Display) || containsFold(locations, l.Location.City)
}

// endingSoon applies only to tenders carrying a submission deadline: strictly
// less than a week out, and not already past.
func endingSoon(l listing.Listing, now time.Time) bool {
	if l.PostType != listing.PostTypeTender {
		return false
	}
	if l.Tender == nil || l.Tender.SubmissionDeadline == nil {
		return false
	}
	days := daysRemaining(*l.Tender.SubmissionDeadline, now)
	return days > 0 && days < endingSoonWindowDays
}

func daysRemaining(deadline, now time.Time) int {
	d := math.Ceil(deadline.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return int(d)
}

// matchBudget applies the three independent budget constraints. Listings with
// no budget data at all bypass every budget predicate: missing data is never
// penalized.
func matchBudget(b listing.Budget, s State) bool {
	if len(s.BudgetRanges) == 0 && s.BudgetMin == nil && s.BudgetMax == nil {
		return true
	}
	if !b.HasData() {
		return true
	}

	min := b.EffectiveMin()
	max, hasMax := b.EffectiveMax()

	if len(s.BudgetRanges) > 0 && !overlapsAnyRange(min, max, hasMax, s.BudgetRanges) {
		return false
	}
	if s.BudgetMin != nil && hasMax && max < *s.BudgetMin {
		return false
	}
	if s.BudgetMax != nil && min > *s.BudgetMax {
		return false
	}
	return true
}

func overlapsAnyRange(min, max float64, hasMax bool, ranges []string) bool {
	for _, r := range ranges {
		lo, hi, bounded := rangeBucket(r)
		if !bounded {
			continue
		}
		upper := max
		if !hasMax {
			upper = math.Inf(1)
		}
		if hi == math.Inf(1) {
			if upper >= lo {
				return true
			}
			continue
		}
		if min <= hi && upper >= lo {
			return true
		}
	}
	return false
}

func rangeBucket(r string) (lo, hi float64, ok bool) {
	switch r {
	case BudgetRangeLow:
		return 0, 5000, true
	case BudgetRangeMid:
		return 5000, 20000, true
	case BudgetRangeHigh:
		return 20000, math.Inf(1), true
	default:
		return 0, 0, false
	}
}

// matchQuery is a case-insensitive substring test against the title only.
func matchQuery(title, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}

func memberOrEmpty(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	return contains(selected, value)
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsFold(xs []string, v string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}
