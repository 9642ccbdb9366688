package assetcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"toolscout/internal/kvstore"
)

type downStore struct{}

func (downStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("store down")
}

func (downStore) Set(ctx context.Context, key, value string) error {
	return errors.New("store down")
}

func (downStore) Delete(ctx context.Context, key string) error {
	return errors.New("store down")
}

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("put then get hits", func(t *testing.T) {
		c := New(kvstore.NewMemory())

		c.Put(ctx, "copybot", "https://logo.example/copybot.png")
		url, ok := c.Get(ctx, "copybot")
		assert.True(t, ok)
		assert.Equal(t, "https://logo.example/copybot.png", url)
	})

	t.Run("unknown key misses", func(t *testing.T) {
		c := New(kvstore.NewMemory())

		_, ok := c.Get(ctx, "nope")
		assert.False(t, ok)
	})

	t.Run("entry past the ttl misses even though stored", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		c := New(kvstore.NewMemory(), WithClock(func() time.Time { return now }))

		c.Put(ctx, "copybot", "https://logo.example/copybot.png")

		now = now.Add(DefaultTTL - time.Second)
		_, ok := c.Get(ctx, "copybot")
		assert.True(t, ok, "still inside the ttl")

		now = now.Add(2 * time.Second)
		_, ok = c.Get(ctx, "copybot")
		assert.False(t, ok, "past the ttl")
	})

	t.Run("put refreshes the timestamp", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		c := New(kvstore.NewMemory(), WithTTL(time.Hour), WithClock(func() time.Time { return now }))

		c.Put(ctx, "copybot", "v1")
		now = now.Add(50 * time.Minute)
		c.Put(ctx, "copybot", "v2")
		now = now.Add(30 * time.Minute)

		url, ok := c.Get(ctx, "copybot")
		assert.True(t, ok, "second put restarted the clock")
		assert.Equal(t, "v2", url)
	})

	t.Run("entries share one serialized map", func(t *testing.T) {
		store := kvstore.NewMemory()
		c := New(store)

		c.Put(ctx, "a", "url-a")
		c.Put(ctx, "b", "url-b")

		url, ok := c.Get(ctx, "a")
		assert.True(t, ok)
		assert.Equal(t, "url-a", url)

		_, err := store.Get(ctx, "logo_cache")
		assert.NoError(t, err, "the whole map lives under one key")
	})

	t.Run("corrupt map resets to empty", func(t *testing.T) {
		store := kvstore.NewMemory()
		store.Set(ctx, "logo_cache", "{broken")
		c := New(store)

		_, ok := c.Get(ctx, "anything")
		assert.False(t, ok)

		c.Put(ctx, "fresh", "url")
		url, ok := c.Get(ctx, "fresh")
		assert.True(t, ok)
		assert.Equal(t, "url", url)
	})

	t.Run("storage failure degrades to always-miss", func(t *testing.T) {
		c := New(downStore{})

		c.Put(ctx, "a", "url")
		_, ok := c.Get(ctx, "a")
		assert.False(t, ok)
	})
}
