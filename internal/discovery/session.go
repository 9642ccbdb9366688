package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"toolscout/internal/metrics"
	"toolscout/internal/models"
)

const DefaultPageSize = 12

// Session owns one user's view over the catalog: the snapshot, the current
// criteria, the filtered/sorted result and the paginator. Every mutation that
// changes the result identity bumps a generation counter; async advances
// carry the generation they started under and are discarded when it has
// moved on, so a stale load never lands on a new filtered set.
type Session struct {
	mu         sync.Mutex
	catalog    []models.Tool
	criteria   models.FilterCriteria
	saved      SavedSet
	filtered   []models.Tool
	facets     []models.FacetEntry
	generation uint64
	paginator  *Paginator
	pageSize   int

	// advanceDelay smooths perceived loading on incremental page loads.
	advanceDelay time.Duration
}

type SessionOption func(*Session)

func WithPageSize(size int) SessionOption {
	return func(s *Session) { s.pageSize = size }
}

func WithAdvanceDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.advanceDelay = d }
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		criteria:  models.DefaultCriteria(),
		paginator: NewPaginator(),
		pageSize:  DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCatalog installs a new catalog snapshot, recomputing facets and the
// filtered result and resetting pagination atomically.
func (s *Session) SetCatalog(catalog []models.Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
	s.facets = BuildFacets(catalog)
	s.recomputeLocked()
}

// SetCriteria replaces the filter criteria. The visible window resets to the
// first page in the same critical section, never leaving a stale window
// rendered against new criteria.
func (s *Session) SetCriteria(c models.FilterCriteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
	s.recomputeLocked()
}

// SetSavedSet installs the engagement id-set consumed by the "saved" special
// flag. Passing nil turns that clause into a no-op.
func (s *Session) SetSavedSet(saved SavedSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = saved
	s.recomputeLocked()
}

func (s *Session) recomputeLocked() {
	s.filtered = Apply(s.catalog, s.criteria, s.saved)
	s.generation++
	s.paginator.Reset()
}

func (s *Session) Criteria() models.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

func (s *Session) Facets() []models.FacetEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.facets
}

// CurrentPage returns the visible window for the current page index.
func (s *Session) CurrentPage() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Window(s.filtered, s.paginator.PageIndex(), s.pageSize)
}

// Advance grows the visible window by one page. A second advance requested
// while one is settling is dropped; an advance that settles after the
// criteria changed is discarded. Returns the page that is current once the
// advance resolves either way.
func (s *Session) Advance(ctx context.Context) Page {
	s.mu.Lock()
	target, ok := s.paginator.TryAdvance()
	gen := s.generation
	s.mu.Unlock()
	if !ok {
		metrics.PageAdvancesTotal.WithLabelValues("dropped").Inc()
		return s.CurrentPage()
	}

	if s.advanceDelay > 0 {
		select {
		case <-time.After(s.advanceDelay):
		case <-ctx.Done():
			// Abandoned: drop the in-flight advance without applying it.
			s.paginator.Commit(target, false)
			return s.CurrentPage()
		}
	}

	s.mu.Lock()
	stale := s.generation != gen
	s.mu.Unlock()
	if stale {
		log.Debug().Int("page", target).Msg("Discarding stale page advance after criteria change")
		metrics.PageAdvancesTotal.WithLabelValues("stale").Inc()
		s.paginator.Commit(target, false)
		return s.CurrentPage()
	}
	s.paginator.Commit(target, true)
	metrics.PageAdvancesTotal.WithLabelValues("applied").Inc()
	return s.CurrentPage()
}
