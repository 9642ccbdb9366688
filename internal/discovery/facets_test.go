package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"toolscout/internal/models"
)

func TestBuildFacets(t *testing.T) {
	t.Run("all facet counts the whole catalog", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("a", "Writing", models.PricingFree, 4),
			makeTool("b", "", models.PricingFree, 4),
		}

		facets := BuildFacets(catalog)
		assert.Equal(t, models.CategoryAll, facets[0].Value)
		assert.Equal(t, 2, facets[0].Count)
	})

	t.Run("categories are trimmed, case-folded and count-sorted", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("a", "Writing", models.PricingFree, 4),
			makeTool("b", " writing ", models.PricingFree, 4),
			makeTool("c", "WRITING", models.PricingFree, 4),
			makeTool("d", "Coding", models.PricingFree, 4),
		}

		facets := BuildFacets(catalog)
		assert.Len(t, facets, 3)
		assert.Equal(t, "writing", facets[1].Value)
		assert.Equal(t, "Writing", facets[1].Label)
		assert.Equal(t, 3, facets[1].Count)
		assert.Equal(t, "coding", facets[2].Value)
		assert.Equal(t, 1, facets[2].Count)
	})

	t.Run("ties keep first-encountered order", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("a", "Beta", models.PricingFree, 4),
			makeTool("b", "Alpha", models.PricingFree, 4),
		}

		facets := BuildFacets(catalog)
		assert.Equal(t, "beta", facets[1].Value)
		assert.Equal(t, "alpha", facets[2].Value)
	})

	t.Run("empty catalog yields only the all facet", func(t *testing.T) {
		facets := BuildFacets(nil)
		assert.Len(t, facets, 1)
		assert.Equal(t, 0, facets[0].Count)
	})

	t.Run("category counts sum to catalog size minus uncategorized", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("a", "Writing", models.PricingFree, 4),
			makeTool("b", "Coding", models.PricingFree, 4),
			makeTool("c", "Coding", models.PricingFree, 4),
			makeTool("d", "  ", models.PricingFree, 4),
		}

		facets := BuildFacets(catalog)
		sum := 0
		for _, f := range facets[1:] {
			sum += f.Count
		}
		assert.Equal(t, 3, sum)
		assert.Equal(t, 4, facets[0].Count)
	})
}
