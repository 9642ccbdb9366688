package discovery

import (
	"sort"
	"strings"

	"toolscout/internal/metrics"
	"toolscout/internal/models"
)

// BuildFacets derives the category facet index from a catalog snapshot.
// The synthetic "all" facet comes first and counts every tool, including ones
// with an empty category. The remaining facets are the distinct trimmed,
// case-normalized categories sorted by count descending; ties keep
// first-encountered order so the UI ordering is reproducible. Pure, O(n).
func BuildFacets(catalog []models.Tool) []models.FacetEntry {
	counts := make(map[string]int)
	labels := make(map[string]string)
	var order []string

	for _, tool := range catalog {
		label := strings.TrimSpace(tool.Category)
		if label == "" {
			continue
		}
		value := strings.ToLower(label)
		if _, seen := counts[value]; !seen {
			order = append(order, value)
			labels[value] = label
		}
		counts[value]++
	}

	facets := make([]models.FacetEntry, 0, len(order)+1)
	facets = append(facets, models.FacetEntry{
		Value: models.CategoryAll,
		Label: "All",
		Count: len(catalog),
	})
	for _, value := range order {
		facets = append(facets, models.FacetEntry{
			Value: value,
			Label: labels[value],
			Count: counts[value],
		})
	}

	// Sort everything after the "all" entry; SliceStable keeps the
	// first-encountered order among equal counts.
	rest := facets[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Count > rest[j].Count
	})

	metrics.FacetRebuildsTotal.Inc()
	return facets
}
