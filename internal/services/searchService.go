package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"toolscout/internal/kvstore"
	"toolscout/internal/metrics"
	"toolscout/internal/search"
)

type SearchService interface {
	RecentSearches(ctx context.Context, userID string) []string
	CommitSearch(ctx context.Context, userID, term string) []string
}

type searchServiceImpl struct {
	store kvstore.Store
}

func NewSearchService(store kvstore.Store) SearchService {
	return &searchServiceImpl{store: store}
}

func (s *searchServiceImpl) recent(userID string) *search.Recent {
	return search.NewRecent(s.store, "recent_searches:"+userID)
}

func (s *searchServiceImpl) RecentSearches(ctx context.Context, userID string) []string {
	terms := s.recent(userID).List(ctx)
	if terms == nil {
		terms = []string{}
	}
	return terms
}

// CommitSearch records a committed search term and returns the updated list.
func (s *searchServiceImpl) CommitSearch(ctx context.Context, userID, term string) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.RecentSearches(ctx, userID)
	}
	metrics.SearchesCommittedTotal.Inc()
	log.Debug().Str("userID", userID).Str("term", term).Msg("Search committed")
	return s.recent(userID).Add(ctx, term)
}
