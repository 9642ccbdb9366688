package models

// Sort keys accepted by the discovery pipeline. Anything else leaves the
// filtered order untouched.
const (
	SortTrending = "trending"
	SortNewest   = "newest"
	SortPopular  = "popular"
	SortRating   = "rating"
)

// Special flags narrowing the result beyond the regular predicates.
const (
	SpecialNone     = "none"
	SpecialNew      = "new"
	SpecialTrending = "trending"
	SpecialSaved    = "saved"
)

// CategoryAll and PricingAll disable their respective predicates.
const (
	CategoryAll = "all"
	PricingAll  = "all"
)

// FilterCriteria is pure data. Applying it is deterministic and
// last-write-wins per field; malformed values behave as "no filter".
type FilterCriteria struct {
	Category    string   `json:"category"`
	SearchTerm  string   `json:"search_term"`
	Pricing     string   `json:"pricing"`
	MinRating   *float64 `json:"min_rating,omitempty"`
	SpecialFlag string   `json:"special_flag"`
	SortKey     string   `json:"sort_key"`
}

// DefaultCriteria matches the whole catalog in trending order.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category:    CategoryAll,
		Pricing:     PricingAll,
		SpecialFlag: SpecialNone,
		SortKey:     SortTrending,
	}
}
