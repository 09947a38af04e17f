// Package pager turns server-reported page metadata into safe page
// navigation. It is the only component that writes the page number without
// tripping the reset-to-page-1 rule.
package pager

import (
	"sync"

	"github.com/an4s911/library-fullstack/internal/options"
)

// Pager tracks currentPage/totalPages from the latest fetched page and
// writes page changes back into the store.
type Pager struct {
	store *options.Store

	mu      sync.Mutex
	current int
	total   int
}

func New(store *options.Store) *Pager {
	return &Pager{store: store, current: 1, total: 1}
}

// SetPageInfo records the metadata of the page just fetched. Wired to the
// fetcher's OnPage callback.
func (p *Pager) SetPageInfo(current, total int) {
	if current < 1 {
		current = 1
	}
	if total < 1 {
		total = 1
	}
	p.mu.Lock()
	p.current = current
	p.total = total
	p.mu.Unlock()
}

// Current returns the displayed page number.
func (p *Pager) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Total returns the server-reported page count.
func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Next moves one page forward; a no-op on the last page. Reports whether
// it moved.
func (p *Pager) Next() bool {
	p.mu.Lock()
	if p.current >= p.total {
		p.mu.Unlock()
		return false
	}
	target := p.current + 1
	p.mu.Unlock()

	p.store.Update(options.WithPage(target))
	return true
}

// Prev moves one page back; a no-op on the first page.
func (p *Pager) Prev() bool {
	p.mu.Lock()
	if p.current <= 1 {
		p.mu.Unlock()
		return false
	}
	target := p.current - 1
	p.mu.Unlock()

	p.store.Update(options.WithPage(target))
	return true
}

// Goto commits a typed page number, clamped to [1, totalPages], and
// returns what was committed.
func (p *Pager) Goto(n int) int {
	p.mu.Lock()
	if n < 1 {
		n = 1
	}
	if n > p.total {
		n = p.total
	}
	p.mu.Unlock()

	p.store.Update(options.WithPage(n))
	return n
}
