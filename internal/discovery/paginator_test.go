package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"toolscout/internal/models"
)

func TestWindow(t *testing.T) {
	catalog := []models.Tool{
		makeTool("1", "x", models.PricingFree, 4),
		makeTool("2", "x", models.PricingFree, 4),
		makeTool("3", "x", models.PricingFree, 4),
		makeTool("4", "x", models.PricingFree, 4),
		makeTool("5", "x", models.PricingFree, 4),
	}

	t.Run("first page is a prefix with more behind", func(t *testing.T) {
		page := Window(catalog, 1, 2)
		assert.Equal(t, []string{"1", "2"}, names(page.Visible))
		assert.True(t, page.HasMore)
	})

	t.Run("second page grows the prefix", func(t *testing.T) {
		page := Window(catalog, 2, 2)
		assert.Equal(t, []string{"1", "2", "3", "4"}, names(page.Visible))
		assert.True(t, page.HasMore)
	})

	t.Run("last page clamps and reports no more", func(t *testing.T) {
		page := Window(catalog, 3, 2)
		assert.Len(t, page.Visible, 5)
		assert.False(t, page.HasMore)
	})

	t.Run("page index beyond the end stays clamped", func(t *testing.T) {
		page := Window(catalog, 50, 2)
		assert.Len(t, page.Visible, 5)
		assert.False(t, page.HasMore)
	})

	t.Run("page index below one behaves as one", func(t *testing.T) {
		page := Window(catalog, 0, 2)
		assert.Equal(t, []string{"1", "2"}, names(page.Visible))
	})

	t.Run("empty list has nothing visible and no more", func(t *testing.T) {
		page := Window(nil, 1, 2)
		assert.Empty(t, page.Visible)
		assert.False(t, page.HasMore)
	})
}

func TestPaginator(t *testing.T) {
	t.Run("advance is gated by the in-flight flag", func(t *testing.T) {
		p := NewPaginator()

		target, ok := p.TryAdvance()
		assert.True(t, ok)
		assert.Equal(t, 2, target)

		_, ok = p.TryAdvance()
		assert.False(t, ok, "second advance while settling must be dropped")

		p.Commit(target, true)
		assert.Equal(t, 2, p.PageIndex())

		target, ok = p.TryAdvance()
		assert.True(t, ok)
		assert.Equal(t, 3, target)
	})

	t.Run("abandoned commit leaves the index untouched", func(t *testing.T) {
		p := NewPaginator()

		target, _ := p.TryAdvance()
		p.Commit(target, false)
		assert.Equal(t, 1, p.PageIndex())

		_, ok := p.TryAdvance()
		assert.True(t, ok, "abandoning must release the in-flight flag")
	})

	t.Run("reset returns to the first page", func(t *testing.T) {
		p := NewPaginator()
		target, _ := p.TryAdvance()
		p.Commit(target, true)

		p.Reset()
		assert.Equal(t, 1, p.PageIndex())
	})
}
