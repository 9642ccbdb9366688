package discovery

import (
	"sort"
	"strings"

	"toolscout/internal/models"
)

// SavedSet is the acting user's saved-tool id-set, passed explicitly so the
// pipeline stays free of identity context. A nil set makes the "saved"
// special flag a no-op.
type SavedSet map[string]bool

// Apply filters catalog by criteria and sorts the result. Every predicate is
// a conjunction clause evaluated against the original tool, never against
// another clause's output. Malformed criteria fields filter nothing; the
// function never fails. The sort is stable, so re-applying identical criteria
// yields an identical ordering.
func Apply(catalog []models.Tool, c models.FilterCriteria, saved SavedSet) []models.Tool {
	out := make([]models.Tool, 0, len(catalog))
	for _, tool := range catalog {
		if !matchesCategory(tool, c.Category) {
			continue
		}
		if !matchesSearch(tool, c.SearchTerm) {
			continue
		}
		if !matchesPricing(tool, c.Pricing) {
			continue
		}
		if c.MinRating != nil && tool.Rating < *c.MinRating {
			continue
		}
		if !matchesSpecial(tool, c.SpecialFlag, saved) {
			continue
		}
		out = append(out, tool)
	}
	sortTools(out, c.SortKey)
	return out
}

func matchesCategory(tool models.Tool, category string) bool {
	if category == "" || category == models.CategoryAll {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(tool.Category), strings.TrimSpace(category))
}

func matchesSearch(tool models.Tool, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(tool.Name), term) ||
		strings.Contains(strings.ToLower(tool.Description), term)
}

func matchesPricing(tool models.Tool, pricing string) bool {
	switch pricing {
	case models.PricingFree:
		return tool.PricingType == models.PricingFree
	case models.PricingFreemium:
		return tool.PricingType == models.PricingFreemium
	case models.PricingPaid:
		switch tool.PricingType {
		case models.PricingPaid, models.PricingPremium, models.PricingEnterprise:
			return true
		}
		return false
	default:
		// "all", empty, or anything unrecognized filters nothing.
		return true
	}
}

func matchesSpecial(tool models.Tool, flag string, saved SavedSet) bool {
	switch flag {
	case models.SpecialNew:
		return tool.IsNew
	case models.SpecialTrending:
		return tool.IsTrending
	case models.SpecialSaved:
		if saved == nil {
			return true
		}
		return saved[tool.ID.Hex()]
	default:
		return true
	}
}

func sortTools(tools []models.Tool, sortKey string) {
	switch sortKey {
	case models.SortTrending:
		sort.SliceStable(tools, func(i, j int) bool {
			return tools[i].IsTrending && !tools[j].IsTrending
		})
	case models.SortNewest:
		sort.SliceStable(tools, func(i, j int) bool {
			return tools[i].CreatedAt.After(tools[j].CreatedAt)
		})
	case models.SortPopular:
		sort.SliceStable(tools, func(i, j int) bool {
			return tools[i].Views > tools[j].Views
		})
	case models.SortRating:
		sort.SliceStable(tools, func(i, j int) bool {
			return tools[i].Rating > tools[j].Rating
		})
	default:
		// Unrecognized key: identity sort, keep the filtered order.
	}
}
