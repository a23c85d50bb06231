package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"zlecenia/internal/filter"
)

type listingSearchCacheKeyInput struct {
	Filters string `json:"filters"`
	Sort    string `json:"sort"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}

// ListingSearchCacheKey hashes the canonical query-parameter encoding of the
// filter state so that equivalent states share a cache entry.
func ListingSearchCacheKey(s filter.State, sort string, limit, offset int) string {
	in := listingSearchCacheKeyInput{
		Filters: filter.EncodeQuery(s).Encode(),
		Sort:    strings.TrimSpace(strings.ToLower(sort)),
		Limit:   limit,
		Offset:  offset,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "listings:search:" + hex.EncodeToString(sum[:])
}

func ListingSearchLockKey(searchKey string) string {
	if strings.HasPrefix(searchKey, "listings:search:") {
		return "listings:lock:" + strings.TrimPrefix(searchKey, "listings:search:")
	}
	return "listings:lock:" + searchKey
}
