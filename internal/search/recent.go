package search

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"toolscout/internal/kvstore"
)

// MaxRecent is the number of committed searches kept per user.
const MaxRecent = 5

// Recent is the persisted most-recent-first list of committed search terms.
// Storage trouble (absence, corruption, write failure) degrades to empty or
// in-memory-only behavior; it is never an error for the caller.
type Recent struct {
	store kvstore.Store
	key   string
}

func NewRecent(store kvstore.Store, key string) *Recent {
	return &Recent{store: store, key: key}
}

func (r *Recent) List(ctx context.Context) []string {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if err != kvstore.ErrNotFound {
			log.Warn().Err(err).Str("key", r.key).Msg("Recent searches read failed, returning empty list")
		}
		return nil
	}
	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("Recent searches corrupt, resetting")
		return nil
	}
	if len(terms) > MaxRecent {
		terms = terms[:MaxRecent]
	}
	return terms
}

// Add prepends term, deduplicates, truncates to MaxRecent and persists.
// Returns the updated list.
func (r *Recent) Add(ctx context.Context, term string) []string {
	if term == "" {
		return r.List(ctx)
	}

	terms := []string{term}
	for _, t := range r.List(ctx) {
		if t == term {
			continue
		}
		terms = append(terms, t)
	}
	if len(terms) > MaxRecent {
		terms = terms[:MaxRecent]
	}

	raw, err := json.Marshal(terms)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to serialize recent searches")
		return terms
	}
	if err := r.store.Set(ctx, r.key, string(raw)); err != nil {
		log.Warn().Err(err).Str("key", r.key).Msg("Recent searches write failed")
	}
	return terms
}
