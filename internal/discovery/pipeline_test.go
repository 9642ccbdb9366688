package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"toolscout/internal/models"
)

func makeTool(name, category, pricing string, rating float64, opts ...func(*models.Tool)) models.Tool {
	t := models.Tool{
		ID:          primitive.NewObjectID(),
		Slug:        name,
		Name:        name,
		Category:    category,
		PricingType: pricing,
		Rating:      rating,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func names(tools []models.Tool) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.Name
	}
	return out
}

func TestApply(t *testing.T) {
	t.Run("empty criteria matches everything", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("a", "Writing", models.PricingFree, 4),
			makeTool("b", "Coding", models.PricingPaid, 3),
		}

		got := Apply(catalog, models.FilterCriteria{}, nil)
		assert.Equal(t, []string{"a", "b"}, names(got))
	})

	t.Run("filters then sorts by newest", func(t *testing.T) {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		catalog := []models.Tool{
			makeTool("one", "Writing", models.PricingFree, 4, func(x *models.Tool) {
				x.CreatedAt = base
			}),
			makeTool("two", "Writing", models.PricingFree, 4, func(x *models.Tool) {
				x.CreatedAt = base.Add(48 * time.Hour)
			}),
			makeTool("skip", "Coding", models.PricingFree, 4),
			makeTool("three", "Writing", models.PricingFree, 4, func(x *models.Tool) {
				x.CreatedAt = base.Add(24 * time.Hour)
			}),
		}

		got := Apply(catalog, models.FilterCriteria{
			Category: "writing",
			SortKey:  models.SortNewest,
		}, nil)
		assert.Equal(t, []string{"two", "three", "one"}, names(got))
	})

	t.Run("predicates are conjunctive", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("match", "Writing", models.PricingFree, 4.5),
			makeTool("wrong-pricing", "Writing", models.PricingPaid, 4.5),
			makeTool("low-rating", "Writing", models.PricingFree, 3),
		}

		min := 4.0
		got := Apply(catalog, models.FilterCriteria{
			Category:  "Writing",
			Pricing:   models.PricingFree,
			MinRating: &min,
		}, nil)
		assert.Equal(t, []string{"match"}, names(got))
	})

	t.Run("search matches name or description case-insensitively", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("CopyBot", "Writing", models.PricingFree, 4),
			makeTool("other", "Writing", models.PricingFree, 4, func(x *models.Tool) {
				x.Description = "A copywriting assistant"
			}),
			makeTool("unrelated", "Writing", models.PricingFree, 4),
		}

		got := Apply(catalog, models.FilterCriteria{SearchTerm: "  COPY "}, nil)
		assert.Equal(t, []string{"CopyBot", "other"}, names(got))
	})

	t.Run("paid pricing absorbs premium and enterprise", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("free", "x", models.PricingFree, 4),
			makeTool("paid", "x", models.PricingPaid, 4),
			makeTool("premium", "x", models.PricingPremium, 4),
			makeTool("enterprise", "x", models.PricingEnterprise, 4),
		}

		got := Apply(catalog, models.FilterCriteria{Pricing: models.PricingPaid}, nil)
		assert.Equal(t, []string{"paid", "premium", "enterprise"}, names(got))
	})

	t.Run("saved flag consults the saved set", func(t *testing.T) {
		a := makeTool("a", "x", models.PricingFree, 4)
		b := makeTool("b", "x", models.PricingFree, 4)
		catalog := []models.Tool{a, b}

		got := Apply(catalog, models.FilterCriteria{SpecialFlag: models.SpecialSaved},
			SavedSet{a.ID.Hex(): true})
		assert.Equal(t, []string{"a"}, names(got))
	})

	t.Run("saved flag without a set filters nothing", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("a", "x", models.PricingFree, 4),
			makeTool("b", "x", models.PricingFree, 4),
		}

		got := Apply(catalog, models.FilterCriteria{SpecialFlag: models.SpecialSaved}, nil)
		assert.Len(t, got, 2)
	})

	t.Run("unknown sort key keeps filtered order", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("z", "x", models.PricingFree, 1),
			makeTool("a", "x", models.PricingFree, 5),
		}

		got := Apply(catalog, models.FilterCriteria{SortKey: "bogus"}, nil)
		assert.Equal(t, []string{"z", "a"}, names(got))
	})

	t.Run("stable sort makes reapplication idempotent", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("a", "x", models.PricingFree, 4),
			makeTool("b", "x", models.PricingFree, 4),
			makeTool("c", "x", models.PricingFree, 4),
		}
		c := models.FilterCriteria{SortKey: models.SortRating}

		first := Apply(catalog, c, nil)
		second := Apply(first, c, nil)
		assert.Equal(t, names(first), names(second))
	})

	t.Run("does not mutate the input catalog", func(t *testing.T) {
		catalog := []models.Tool{
			makeTool("low", "x", models.PricingFree, 1),
			makeTool("high", "x", models.PricingFree, 5),
		}

		Apply(catalog, models.FilterCriteria{SortKey: models.SortRating}, nil)
		assert.Equal(t, []string{"low", "high"}, names(catalog))
	})
}
