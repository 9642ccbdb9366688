package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"toolscout/internal/models"
)

// fakeStore records writes and fails on demand.
type fakeStore struct {
	mu       sync.Mutex
	sets     models.EngagementSets
	writes   int
	failNext bool
	readErr  error
}

func (f *fakeStore) ReadEngagement(ctx context.Context, userID string) (models.EngagementSets, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return models.EngagementSets{}, f.readErr
	}
	return f.sets, nil
}

func (f *fakeStore) WriteEngagement(ctx context.Context, userID string, sets models.EngagementSets) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.failNext {
		f.failNext = false
		return errors.New("write failed")
	}
	f.sets = sets
	return nil
}

func loadedReconciler(t *testing.T, store *fakeStore) *Reconciler {
	t.Helper()
	r := NewReconciler("u1", store)
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return r
}

func TestReconciler(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle before load is refused", func(t *testing.T) {
		r := NewReconciler("u1", &fakeStore{})

		_, err := r.ToggleSave(ctx, "t1")
		assert.ErrorIs(t, err, ErrNotLoaded)
	})

	t.Run("load failure leaves state unknown", func(t *testing.T) {
		r := NewReconciler("u1", &fakeStore{readErr: errors.New("db down")})

		assert.Error(t, r.Load(ctx))
		assert.False(t, r.Loaded())
	})

	t.Run("toggle writes the full id-set", func(t *testing.T) {
		store := &fakeStore{sets: models.EngagementSets{SavedToolIDs: []string{"old"}}}
		r := loadedReconciler(t, store)

		on, err := r.ToggleSave(ctx, "t1")
		assert.NoError(t, err)
		assert.True(t, on)
		assert.Equal(t, []string{"old", "t1"}, store.sets.SavedToolIDs)

		on, err = r.ToggleSave(ctx, "t1")
		assert.NoError(t, err)
		assert.False(t, on)
		assert.Equal(t, []string{"old"}, store.sets.SavedToolIDs)
	})

	t.Run("save and upvote sets are independent", func(t *testing.T) {
		store := &fakeStore{}
		r := loadedReconciler(t, store)

		r.ToggleSave(ctx, "t1")
		r.ToggleUpvote(ctx, "t2")

		state := r.State("t1")
		assert.True(t, state.Saved)
		assert.False(t, state.Upvoted)
		assert.Equal(t, []string{"t1"}, store.sets.SavedToolIDs)
		assert.Equal(t, []string{"t2"}, store.sets.UpvotedToolIDs)
	})

	t.Run("failed write rolls back and errors exactly once", func(t *testing.T) {
		store := &fakeStore{}
		r := loadedReconciler(t, store)
		store.failNext = true

		on, err := r.ToggleSave(ctx, "t1")
		assert.Error(t, err)
		assert.False(t, on, "returned value is the restored pre-toggle state")
		assert.False(t, r.State("t1").Saved)
		assert.Empty(t, store.sets.SavedToolIDs, "failed write must not leak into the store")

		// Recovery: the next toggle goes through.
		on, err = r.ToggleSave(ctx, "t1")
		assert.NoError(t, err)
		assert.True(t, on)
	})

	t.Run("rollback restores an enabled flag too", func(t *testing.T) {
		store := &fakeStore{sets: models.EngagementSets{UpvotedToolIDs: []string{"t1"}}}
		r := loadedReconciler(t, store)
		store.failNext = true

		on, err := r.ToggleUpvote(ctx, "t1")
		assert.Error(t, err)
		assert.True(t, on)
		assert.True(t, r.State("t1").Upvoted)
	})

	t.Run("saved set copy is detached from the mirror", func(t *testing.T) {
		store := &fakeStore{}
		r := loadedReconciler(t, store)
		r.ToggleSave(ctx, "t1")

		set := r.SavedSet()
		set["t2"] = true
		assert.False(t, r.State("t2").Saved)
	})

	t.Run("reload replaces the mirror with stored truth", func(t *testing.T) {
		store := &fakeStore{}
		r := loadedReconciler(t, store)
		r.ToggleSave(ctx, "t1")

		store.mu.Lock()
		store.sets = models.EngagementSets{SavedToolIDs: []string{"t9"}}
		store.mu.Unlock()

		assert.NoError(t, r.Load(ctx))
		assert.False(t, r.State("t1").Saved)
		assert.True(t, r.State("t9").Saved)
	})
}

func TestOrphans(t *testing.T) {
	ctx := context.Background()

	t.Run("reports ids missing from the catalog without removing them", func(t *testing.T) {
		store := &fakeStore{sets: models.EngagementSets{
			SavedToolIDs:   []string{"gone", "kept"},
			UpvotedToolIDs: []string{"gone", "also-gone"},
		}}
		r := loadedReconciler(t, store)

		orphans := r.Orphans(map[string]bool{"kept": true})
		assert.Equal(t, []string{"also-gone", "gone"}, orphans)
		assert.True(t, r.State("gone").Saved, "reporting must not mutate the mirror")
		assert.Equal(t, 0, store.writes)
	})

	t.Run("prune removes from both sets and persists", func(t *testing.T) {
		store := &fakeStore{sets: models.EngagementSets{
			SavedToolIDs:   []string{"gone", "kept"},
			UpvotedToolIDs: []string{"gone"},
		}}
		r := loadedReconciler(t, store)

		pruned, err := r.PruneOrphans(ctx, map[string]bool{"kept": true})
		assert.NoError(t, err)
		assert.Equal(t, []string{"gone"}, pruned)
		assert.Equal(t, []string{"kept"}, store.sets.SavedToolIDs)
		assert.Empty(t, store.sets.UpvotedToolIDs)
		assert.False(t, r.State("gone").Saved)
	})

	t.Run("prune write failure rolls the mirror back", func(t *testing.T) {
		store := &fakeStore{sets: models.EngagementSets{SavedToolIDs: []string{"gone"}}}
		r := loadedReconciler(t, store)
		store.failNext = true

		_, err := r.PruneOrphans(ctx, map[string]bool{})
		assert.Error(t, err)
		assert.True(t, r.State("gone").Saved)
	})

	t.Run("prune before load is refused", func(t *testing.T) {
		r := NewReconciler("u1", &fakeStore{})

		_, err := r.PruneOrphans(ctx, map[string]bool{})
		assert.ErrorIs(t, err, ErrNotLoaded)
	})
}
