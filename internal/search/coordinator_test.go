package search

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"toolscout/internal/models"
)

func suggestFrom(tools []models.Tool) SuggestFunc {
	return func(term string) []models.Tool {
		return tools
	}
}

func waitForSettled(t *testing.T, c *Coordinator, want string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.SettledTerm() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("term never settled to %q, got %q", want, c.SettledTerm())
}

func TestCoordinator(t *testing.T) {
	t.Run("only the last keystroke settles", func(t *testing.T) {
		var settles int32
		c := NewCoordinator(nil, func(term string) {
			atomic.AddInt32(&settles, 1)
		}, WithDebounce(30*time.Millisecond))

		c.Input("c")
		c.Input("co")
		c.Input("cop")
		waitForSettled(t, c, "cop")

		assert.Equal(t, int32(1), atomic.LoadInt32(&settles))
	})

	t.Run("keystroke during the quiet period restarts it", func(t *testing.T) {
		c := NewCoordinator(nil, nil, WithDebounce(40*time.Millisecond))

		c.Input("a")
		time.Sleep(20 * time.Millisecond)
		c.Input("ab")
		time.Sleep(25 * time.Millisecond)
		assert.Equal(t, "", c.SettledTerm(), "timer restarted, nothing settled yet")

		waitForSettled(t, c, "ab")
	})

	t.Run("flush settles immediately", func(t *testing.T) {
		var settledWith string
		c := NewCoordinator(nil, func(term string) { settledWith = term }, WithDebounce(time.Hour))

		c.Input("instant")
		c.Flush()
		assert.Equal(t, "instant", c.SettledTerm())
		assert.Equal(t, "instant", settledWith)
	})

	t.Run("suggestions are capped", func(t *testing.T) {
		tools := make([]models.Tool, 8)
		for i := range tools {
			tools[i] = models.Tool{Name: "tool"}
		}
		c := NewCoordinator(suggestFrom(tools), nil)

		c.Input("tool")
		assert.Len(t, c.Suggestions(), MaxSuggestions)
	})

	t.Run("blank live term yields no suggestions", func(t *testing.T) {
		c := NewCoordinator(suggestFrom([]models.Tool{{Name: "x"}}), nil)

		c.Input("   ")
		assert.Empty(t, c.Suggestions())
	})

	t.Run("selection clamps at both ends", func(t *testing.T) {
		tools := []models.Tool{{Name: "a"}, {Name: "b"}}
		c := NewCoordinator(suggestFrom(tools), nil)
		c.Input("x")

		assert.Equal(t, -1, c.Selection())
		assert.Equal(t, -1, c.MoveUp(), "cannot retreat past the raw input")

		assert.Equal(t, 0, c.MoveDown())
		assert.Equal(t, 1, c.MoveDown())
		assert.Equal(t, 1, c.MoveDown(), "clamped at the last suggestion")

		assert.Equal(t, 0, c.MoveUp())
		assert.Equal(t, -1, c.MoveUp())
	})

	t.Run("keystroke resets the selection", func(t *testing.T) {
		tools := []models.Tool{{Name: "a"}, {Name: "b"}}
		c := NewCoordinator(suggestFrom(tools), nil)
		c.Input("x")
		c.MoveDown()

		c.Input("xy")
		assert.Equal(t, -1, c.Selection())
	})

	t.Run("enter with no selection commits the raw text", func(t *testing.T) {
		c := NewCoordinator(nil, nil, WithDebounce(time.Hour))
		c.Input("raw query")

		commit := c.Enter()
		assert.Equal(t, CommitQuery, commit.Kind)
		assert.Equal(t, "raw query", commit.Term)
	})

	t.Run("enter on a suggestion commits its name and slug", func(t *testing.T) {
		tools := []models.Tool{
			{Name: "CopyBot", Slug: "copybot"},
			{Name: "CopyWriter", Slug: "copywriter"},
		}
		c := NewCoordinator(suggestFrom(tools), nil, WithDebounce(time.Hour))
		c.Input("copy")
		c.MoveDown()
		c.MoveDown()

		commit := c.Enter()
		assert.Equal(t, CommitTool, commit.Kind)
		assert.Equal(t, "CopyWriter", commit.Term)
		assert.Equal(t, "copywriter", commit.Slug)
		assert.Equal(t, "CopyWriter", c.SettledTerm())
		assert.Equal(t, -1, c.Selection())
	})
}
