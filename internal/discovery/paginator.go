package discovery

import (
	"sync"

	"toolscout/internal/models"
)

// Page is the visible prefix of a filtered, sorted result.
type Page struct {
	Visible []models.Tool `json:"visible"`
	HasMore bool          `json:"has_more"`
}

// Window returns the first pageIndex*pageSize tools, clamped to the list.
// pageIndex values below 1 behave as 1.
func Window(filteredSorted []models.Tool, pageIndex, pageSize int) Page {
	if pageIndex < 1 {
		pageIndex = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	end := pageIndex * pageSize
	if end > len(filteredSorted) {
		end = len(filteredSorted)
	}
	return Page{
		Visible: filteredSorted[:end],
		HasMore: len(filteredSorted) > end,
	}
}

// Paginator tracks the grow-only page index over one result identity. A
// single in-flight flag gates Advance so that a second advance requested
// while the first is still settling is dropped, not queued.
type Paginator struct {
	mu        sync.Mutex
	pageIndex int
	loading   bool
}

func NewPaginator() *Paginator {
	return &Paginator{pageIndex: 1}
}

func (p *Paginator) PageIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageIndex
}

// Reset returns the paginator to the first page. Called whenever the
// filtered/sorted result identity changes.
func (p *Paginator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pageIndex = 1
	p.loading = false
}

// TryAdvance marks an advance in flight and returns the target page index.
// It returns false when an advance is already settling.
func (p *Paginator) TryAdvance() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loading {
		return p.pageIndex, false
	}
	p.loading = true
	return p.pageIndex + 1, true
}

// Commit applies a finished advance. A false commit abandons it (stale
// generation), leaving the page index untouched either way until success.
func (p *Paginator) Commit(pageIndex int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if ok {
		p.pageIndex = pageIndex
	}
}
