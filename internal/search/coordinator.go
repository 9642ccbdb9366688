package search

import (
	"strings"
	"sync"
	"time"

	"toolscout/internal/models"
)

// DefaultDebounce is the quiet period after the last keystroke before the
// live term settles into the search criteria.
const DefaultDebounce = 300 * time.Millisecond

// MaxSuggestions caps the live picker list.
const MaxSuggestions = 5

// CommitKind distinguishes what Enter committed.
type CommitKind int

const (
	// CommitQuery means the raw input text was committed as a search.
	CommitQuery CommitKind = iota
	// CommitTool means a suggestion was chosen; Slug points at its detail view.
	CommitTool
)

// Commit is the outcome of an Enter press.
type Commit struct {
	Kind CommitKind
	Term string
	Slug string
}

// SuggestFunc returns live matches for an unsettled term. Suggestions run on
// the live term, not the debounced one, so the picker feels responsive.
type SuggestFunc func(term string) []models.Tool

// Coordinator buffers raw keystrokes into a settled search term and drives
// keyboard navigation over the live suggestion list. Every keystroke resets
// the single debounce timer; only the last one's settle fires. The selection
// index lives in [-1, len(suggestions)-1], -1 meaning the raw input is
// active.
type Coordinator struct {
	mu        sync.Mutex
	liveTerm  string
	settled   string
	selection int
	debounce  time.Duration
	timer     *time.Timer

	suggest  SuggestFunc
	onSettle func(term string)
}

type CoordinatorOption func(*Coordinator)

func WithDebounce(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) { c.debounce = d }
}

// NewCoordinator wires the live-suggestion source and the settle callback
// that feeds the discovery criteria.
func NewCoordinator(suggest SuggestFunc, onSettle func(term string), opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		selection: -1,
		debounce:  DefaultDebounce,
		suggest:   suggest,
		onSettle:  onSettle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input records a keystroke's resulting term and restarts the debounce
// timer. The selection resets because the suggestion list is about to change.
func (c *Coordinator) Input(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveTerm = term
	c.selection = -1
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.settle(term) })
}

func (c *Coordinator) settle(term string) {
	c.mu.Lock()
	if term != c.liveTerm {
		// A later keystroke owns the timer now.
		c.mu.Unlock()
		return
	}
	c.settled = term
	c.mu.Unlock()
	if c.onSettle != nil {
		c.onSettle(term)
	}
}

// Flush settles the live term immediately, bypassing the quiet period.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	term := c.liveTerm
	c.mu.Unlock()
	c.settle(term)
}

func (c *Coordinator) LiveTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveTerm
}

func (c *Coordinator) SettledTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

// Suggestions returns the first MaxSuggestions live matches for the current
// unsettled term.
func (c *Coordinator) Suggestions() []models.Tool {
	c.mu.Lock()
	term := c.liveTerm
	c.mu.Unlock()
	if strings.TrimSpace(term) == "" || c.suggest == nil {
		return nil
	}
	matches := c.suggest(term)
	if len(matches) > MaxSuggestions {
		matches = matches[:MaxSuggestions]
	}
	return matches
}

func (c *Coordinator) Selection() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// MoveDown advances the selection, clamped at the last suggestion.
func (c *Coordinator) MoveDown() int {
	n := len(c.Suggestions())
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection < n-1 {
		c.selection++
	}
	return c.selection
}

// MoveUp retreats the selection, clamped at -1 (raw input active).
func (c *Coordinator) MoveUp() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection > -1 {
		c.selection--
	}
	return c.selection
}

// Enter resolves the current selection: at -1 it commits the raw text as a
// search, on a valid index it commits that suggestion's canonical name and
// reports its slug for navigation. Either way the term settles immediately
// and the picker state resets.
func (c *Coordinator) Enter() Commit {
	suggestions := c.Suggestions()

	c.mu.Lock()
	sel := c.selection
	c.selection = -1
	c.mu.Unlock()

	if sel >= 0 && sel < len(suggestions) {
		chosen := suggestions[sel]
		c.Input(chosen.Name)
		c.Flush()
		return Commit{Kind: CommitTool, Term: chosen.Name, Slug: chosen.Slug}
	}

	c.Flush()
	return Commit{Kind: CommitQuery, Term: c.SettledTerm()}
}
