package engagement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"toolscout/internal/metrics"
	"toolscout/internal/models"
)

// ErrNotLoaded is returned when a toggle is requested before the confirmed
// state has been read from the metadata store.
var ErrNotLoaded = errors.New("engagement: confirmed state not loaded")

// Reconciler owns the optimistic/authoritative duality of one user's save and
// upvote flags. A toggle flips the local mirror immediately, writes the full
// id-sets computed from that mirror, and rolls the flag back to its pre-toggle
// value if the write fails. Toggles on the same tool serialize behind a
// per-tool lock; different tools proceed independently.
type Reconciler struct {
	userID string
	store  MetadataStore

	mu      sync.Mutex
	loaded  bool
	saved   map[string]bool
	upvoted map[string]bool

	locksMu   sync.Mutex
	toolLocks map[string]*sync.Mutex
}

func NewReconciler(userID string, store MetadataStore) *Reconciler {
	return &Reconciler{
		userID:    userID,
		store:     store,
		saved:     make(map[string]bool),
		upvoted:   make(map[string]bool),
		toolLocks: make(map[string]*sync.Mutex),
	}
}

// Load reads the confirmed sets from the metadata store, replacing the
// mirror. Until it succeeds every tool is in the Unknown state and toggles
// are refused.
func (r *Reconciler) Load(ctx context.Context) error {
	sets, err := r.store.ReadEngagement(ctx, r.userID)
	if err != nil {
		return fmt.Errorf("failed to read engagement metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = make(map[string]bool, len(sets.SavedToolIDs))
	for _, id := range sets.SavedToolIDs {
		r.saved[id] = true
	}
	r.upvoted = make(map[string]bool, len(sets.UpvotedToolIDs))
	for _, id := range sets.UpvotedToolIDs {
		r.upvoted[id] = true
	}
	r.loaded = true
	log.Debug().Str("userID", r.userID).Int("saved", len(r.saved)).Int("upvoted", len(r.upvoted)).Msg("Engagement state loaded")
	return nil
}

func (r *Reconciler) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// State returns the mirror's flags for one tool.
func (r *Reconciler) State(toolID string) models.EngagementState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.EngagementState{Saved: r.saved[toolID], Upvoted: r.upvoted[toolID]}
}

// SavedSet returns a copy of the saved id-set for the filter pipeline.
func (r *Reconciler) SavedSet() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool, len(r.saved))
	for id, on := range r.saved {
		if on {
			out[id] = true
		}
	}
	return out
}

// Sets snapshots the mirror as sorted id-slices.
func (r *Reconciler) Sets() models.EngagementSets {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setsLocked()
}

func (r *Reconciler) setsLocked() models.EngagementSets {
	sets := models.EngagementSets{
		SavedToolIDs:   make([]string, 0, len(r.saved)),
		UpvotedToolIDs: make([]string, 0, len(r.upvoted)),
	}
	for id, on := range r.saved {
		if on {
			sets.SavedToolIDs = append(sets.SavedToolIDs, id)
		}
	}
	for id, on := range r.upvoted {
		if on {
			sets.UpvotedToolIDs = append(sets.UpvotedToolIDs, id)
		}
	}
	sort.Strings(sets.SavedToolIDs)
	sort.Strings(sets.UpvotedToolIDs)
	return sets
}

// ToggleSave flips the saved flag for toolID. Returns the confirmed value
// after the write settles.
func (r *Reconciler) ToggleSave(ctx context.Context, toolID string) (bool, error) {
	return r.toggle(ctx, toolID, r.saved, "save")
}

// ToggleUpvote flips the upvoted flag for toolID. The catalog-owned vote
// counter is not touched here; counter and flag are different facts.
func (r *Reconciler) ToggleUpvote(ctx context.Context, toolID string) (bool, error) {
	return r.toggle(ctx, toolID, r.upvoted, "upvote")
}

func (r *Reconciler) toggle(ctx context.Context, toolID string, flags map[string]bool, kind string) (bool, error) {
	lock := r.toolLock(toolID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	if !r.loaded {
		r.mu.Unlock()
		return false, ErrNotLoaded
	}
	prev := flags[toolID]
	next := !prev
	// Optimistic flip: the mirror reflects the new value while the write is
	// pending, and the id-sets sent below are computed from this state.
	if next {
		flags[toolID] = true
	} else {
		delete(flags, toolID)
	}
	sets := r.setsLocked()
	r.mu.Unlock()

	if err := r.store.WriteEngagement(ctx, r.userID, sets); err != nil {
		r.mu.Lock()
		if prev {
			flags[toolID] = true
		} else {
			delete(flags, toolID)
		}
		r.mu.Unlock()
		metrics.EngagementRollbacksTotal.WithLabelValues(kind).Inc()
		log.Warn().Err(err).Str("userID", r.userID).Str("toolID", toolID).Str("kind", kind).Msg("Engagement write failed, rolled back")
		return prev, fmt.Errorf("failed to persist %s toggle: %w", kind, err)
	}

	metrics.EngagementTogglesTotal.WithLabelValues(kind).Inc()
	return next, nil
}

func (r *Reconciler) toolLock(toolID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	lock, ok := r.toolLocks[toolID]
	if !ok {
		lock = &sync.Mutex{}
		r.toolLocks[toolID] = lock
	}
	return lock
}

// Orphans reports ids present in the mirror that no longer exist in the
// catalog. Reported only; a transient partial catalog fetch must never cause
// silent data loss, so removal is the separate PruneOrphans call.
func (r *Reconciler) Orphans(catalogIDs map[string]bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	var orphans []string
	for id := range r.saved {
		if !catalogIDs[id] && !seen[id] {
			seen[id] = true
			orphans = append(orphans, id)
		}
	}
	for id := range r.upvoted {
		if !catalogIDs[id] && !seen[id] {
			seen[id] = true
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	if len(orphans) > 0 {
		log.Warn().Str("userID", r.userID).Strs("orphans", orphans).Msg("Engagement sets reference tools missing from catalog")
	}
	return orphans
}

// PruneOrphans deliberately removes ids absent from catalogIDs from both sets
// and persists the result. On write failure the mirror rolls back untouched.
func (r *Reconciler) PruneOrphans(ctx context.Context, catalogIDs map[string]bool) ([]string, error) {
	r.mu.Lock()
	if !r.loaded {
		r.mu.Unlock()
		return nil, ErrNotLoaded
	}
	prevSaved := r.saved
	prevUpvoted := r.upvoted

	pruned := []string{}
	seen := make(map[string]bool)
	nextSaved := make(map[string]bool)
	for id := range r.saved {
		if catalogIDs[id] {
			nextSaved[id] = true
		} else if !seen[id] {
			seen[id] = true
			pruned = append(pruned, id)
		}
	}
	nextUpvoted := make(map[string]bool)
	for id := range r.upvoted {
		if catalogIDs[id] {
			nextUpvoted[id] = true
		} else if !seen[id] {
			seen[id] = true
			pruned = append(pruned, id)
		}
	}
	r.saved = nextSaved
	r.upvoted = nextUpvoted
	sets := r.setsLocked()
	r.mu.Unlock()

	sort.Strings(pruned)

	if err := r.store.WriteEngagement(ctx, r.userID, sets); err != nil {
		r.mu.Lock()
		r.saved = prevSaved
		r.upvoted = prevUpvoted
		r.mu.Unlock()
		return nil, fmt.Errorf("failed to prune orphaned engagement ids: %w", err)
	}

	log.Info().Str("userID", r.userID).Strs("pruned", pruned).Msg("Pruned orphaned engagement ids")
	return pruned, nil
}
