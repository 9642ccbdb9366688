package models

// FacetEntry is one filterable category with its count over the current
// catalog snapshot. Value is the normalized form used for matching, Label the
// first-encountered original spelling shown to users.
type FacetEntry struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}
