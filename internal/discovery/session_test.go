package discovery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"toolscout/internal/models"
)

func sessionCatalog() []models.Tool {
	return []models.Tool{
		makeTool("1", "Writing", models.PricingFree, 4),
		makeTool("2", "Writing", models.PricingFree, 4),
		makeTool("3", "Coding", models.PricingFree, 4),
		makeTool("4", "Coding", models.PricingFree, 4),
		makeTool("5", "Writing", models.PricingFree, 4),
	}
}

func TestSession(t *testing.T) {
	t.Run("criteria change recomputes and resets the window", func(t *testing.T) {
		s := NewSession(WithPageSize(2))
		s.SetCatalog(sessionCatalog())

		page := s.Advance(context.Background())
		assert.Len(t, page.Visible, 4)

		s.SetCriteria(models.FilterCriteria{Category: "coding"})
		page = s.CurrentPage()
		assert.Equal(t, []string{"3", "4"}, names(page.Visible))
		assert.False(t, page.HasMore)
	})

	t.Run("advance grows the window", func(t *testing.T) {
		s := NewSession(WithPageSize(2))
		s.SetCatalog(sessionCatalog())

		page := s.CurrentPage()
		assert.Len(t, page.Visible, 2)
		assert.True(t, page.HasMore)

		page = s.Advance(context.Background())
		assert.Len(t, page.Visible, 4)
		assert.True(t, page.HasMore)

		page = s.Advance(context.Background())
		assert.Len(t, page.Visible, 5)
		assert.False(t, page.HasMore)
	})

	t.Run("advance settling across a criteria change is discarded", func(t *testing.T) {
		s := NewSession(WithPageSize(2), WithAdvanceDelay(50*time.Millisecond))
		s.SetCatalog(sessionCatalog())

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Advance(context.Background())
		}()

		time.Sleep(10 * time.Millisecond)
		s.SetCriteria(models.FilterCriteria{Category: "coding"})
		wg.Wait()

		page := s.CurrentPage()
		assert.Len(t, page.Visible, 2, "stale advance must not land on the new result")
	})

	t.Run("cancelled advance releases the gate", func(t *testing.T) {
		s := NewSession(WithPageSize(2), WithAdvanceDelay(20*time.Millisecond))
		s.SetCatalog(sessionCatalog())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		page := s.Advance(ctx)
		assert.Len(t, page.Visible, 2, "cancelled advance must not apply")

		page = s.Advance(context.Background())
		assert.Len(t, page.Visible, 4, "gate must be free after a cancelled advance")
	})

	t.Run("saved set feeds the saved special flag", func(t *testing.T) {
		catalog := sessionCatalog()
		s := NewSession(WithPageSize(10))
		s.SetCatalog(catalog)
		s.SetSavedSet(SavedSet{catalog[0].ID.Hex(): true})
		s.SetCriteria(models.FilterCriteria{SpecialFlag: models.SpecialSaved})

		page := s.CurrentPage()
		assert.Equal(t, []string{"1"}, names(page.Visible))
	})

	t.Run("facets follow the catalog snapshot", func(t *testing.T) {
		s := NewSession()
		s.SetCatalog(sessionCatalog())

		facets := s.Facets()
		assert.Equal(t, models.CategoryAll, facets[0].Value)
		assert.Equal(t, 5, facets[0].Count)
		assert.Len(t, facets, 3)
	})
}
